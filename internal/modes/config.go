package modes

// Config tunes the compiler's option counts and minimum-content
// thresholds. Zero values are replaced by the defaults below.
type Config struct {
	// OptionCount is the target number of options per multiple-choice
	// card (one correct + OptionCount-1 distractors).
	OptionCount int

	// MinOptionCount is the floor the compiler may reduce a card to
	// when the section and book pools cannot fill OptionCount. Cards
	// that cannot reach even this count are a content gap.
	MinOptionCount int

	// MinRecallTerms is the minimum term count for a rapid_recall run.
	MinRecallTerms int

	// MinClashTerms is the minimum term count for concept_clash.
	MinClashTerms int

	// MinSequenceSteps is the minimum step count for sequence_builder.
	MinSequenceSteps int

	// MinTableCards is the minimum hidden-cell count for a
	// table_challenge run.
	MinTableCards int

	// MinModesPerSection triggers the concept_clash fallback: when a
	// section compiles fewer instances than this, clash runs are added
	// so every section with terms stays playable.
	MinModesPerSection int

	// MinBookEquations is the minimum distinct equation count for the
	// book-wide equation forge.
	MinBookEquations int
}

// DefaultConfig returns the standard compiler thresholds.
func DefaultConfig() Config {
	return Config{
		OptionCount:        4,
		MinOptionCount:     3,
		MinRecallTerms:     4,
		MinClashTerms:      2,
		MinSequenceSteps:   3,
		MinTableCards:      3,
		MinModesPerSection: 2,
		MinBookEquations:   3,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.OptionCount == 0 {
		c.OptionCount = d.OptionCount
	}
	if c.MinOptionCount == 0 {
		c.MinOptionCount = d.MinOptionCount
	}
	if c.MinRecallTerms == 0 {
		c.MinRecallTerms = d.MinRecallTerms
	}
	if c.MinClashTerms == 0 {
		c.MinClashTerms = d.MinClashTerms
	}
	if c.MinSequenceSteps == 0 {
		c.MinSequenceSteps = d.MinSequenceSteps
	}
	if c.MinTableCards == 0 {
		c.MinTableCards = d.MinTableCards
	}
	if c.MinModesPerSection == 0 {
		c.MinModesPerSection = d.MinModesPerSection
	}
	if c.MinBookEquations == 0 {
		c.MinBookEquations = d.MinBookEquations
	}
	return c
}

package modes

// Difficulty is the four-rung ladder every engine scales along.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// AllDifficulties lists the ladder in ascending order.
var AllDifficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}

// universalDifficulties is the slice of the ladder universal engines use.
var universalDifficulties = AllDifficulties[:2]

// itemCounts scales how many items each engine presents per difficulty.
type itemCounts map[Difficulty]int

var (
	recallCounts    = itemCounts{DifficultyEasy: 8, DifficultyMedium: 12, DifficultyHard: 16, DifficultyExpert: 20}
	clashCounts     = itemCounts{DifficultyEasy: 6, DifficultyMedium: 10, DifficultyHard: 14, DifficultyExpert: 18}
	sortCounts      = itemCounts{DifficultyEasy: 6, DifficultyMedium: 10, DifficultyHard: 14, DifficultyExpert: 18}
	equationCounts  = itemCounts{DifficultyEasy: 2, DifficultyMedium: 3, DifficultyHard: 4, DifficultyExpert: 5}
	labelCounts     = itemCounts{DifficultyEasy: 4, DifficultyMedium: 6, DifficultyHard: 8, DifficultyExpert: 10}
	tableCellCounts = itemCounts{DifficultyEasy: 5, DifficultyMedium: 8, DifficultyHard: 12, DifficultyExpert: 16}
	sequenceCaps    = itemCounts{DifficultyEasy: 5, DifficultyMedium: 7} // hard/expert use all steps
)

func (c itemCounts) at(d Difficulty) int {
	if n, ok := c[d]; ok {
		return n
	}
	return c[DifficultyMedium]
}

// Rewards are the per-instance completion rewards carried on the
// payload so the renderer needs no external table.
type Rewards struct {
	XP     int `json:"xp"`
	Shards int `json:"shards"`
}

var rewardTable = map[Difficulty]Rewards{
	DifficultyEasy:   {XP: 40, Shards: 1},
	DifficultyMedium: {XP: 60, Shards: 1},
	DifficultyHard:   {XP: 85, Shards: 2},
	DifficultyExpert: {XP: 110, Shards: 3},
}

// bookRewardTable applies to book-scope instances, which draw on more
// material and pay out accordingly.
var bookRewardTable = map[Difficulty]Rewards{
	DifficultyEasy:   {XP: 60, Shards: 2},
	DifficultyMedium: {XP: 90, Shards: 2},
	DifficultyHard:   {XP: 120, Shards: 3},
	DifficultyExpert: {XP: 160, Shards: 4},
}

// RewardsFor returns the completion rewards for a difficulty.
func RewardsFor(d Difficulty) Rewards {
	return rewardTable[d]
}

// Valid reports whether d names a known difficulty.
func (d Difficulty) Valid() bool {
	for _, v := range AllDifficulties {
		if d == v {
			return true
		}
	}
	return false
}

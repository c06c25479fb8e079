package config

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver = %q, want sqlite", cfg.DBDriver)
	}
	if cfg.ContentDir != "content" {
		t.Errorf("ContentDir = %q, want content", cfg.ContentDir)
	}
	if cfg.LearnerID != "default" {
		t.Errorf("LearnerID = %q, want default", cfg.LearnerID)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("FOGMAP_DB", "/tmp/custom.db")
	t.Setenv("FOGMAP_DB_DRIVER", "postgres")
	t.Setenv("FOGMAP_LEARNER", "amara")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if cfg.DBPath != "/tmp/custom.db" {
		t.Errorf("DBPath = %q, want /tmp/custom.db", cfg.DBPath)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("DBDriver = %q, want postgres", cfg.DBDriver)
	}
	if cfg.LearnerID != "amara" {
		t.Errorf("LearnerID = %q, want amara", cfg.LearnerID)
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnvKeepsExistingVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "CALC_TEST_NEW=from-file\nCALC_TEST_SET=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing env file: %v", err)
	}

	t.Setenv("CALC_TEST_SET", "from-process")
	t.Setenv("CALC_TEST_NEW", "")
	os.Unsetenv("CALC_TEST_NEW")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loading env file: %v", err)
	}

	if got := os.Getenv("CALC_TEST_NEW"); got != "from-file" {
		t.Fatalf("expected CALC_TEST_NEW from file, got %q", got)
	}
	if got := os.Getenv("CALC_TEST_SET"); got != "from-process" {
		t.Fatalf("expected CALC_TEST_SET to keep process value, got %q", got)
	}
}

func TestLoadDotEnvSkipsMissingFile(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing file to be skipped, got %v", err)
	}
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersionCmd(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "gantry dev") {
		t.Errorf("output = %q, want version line", out.String())
	}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	cmd := newRootCmd()
	want := []string{"version", "db", "serve", "progress", "user"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestDBResetRequiresYes(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "gantry.yaml")
	if err := os.WriteFile(configPath, []byte("db:\n  database: gantry_test\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"db", "reset", "--config", configPath})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Errorf("err = %v, want refusal without --yes", err)
	}
}

package main

import (
	"testing"
)

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "migrate"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("expected %s command, got %v (%v)", name, cmd, err)
		}
	}
	if f := serveCmd.Flags().Lookup("migrate"); f == nil || f.DefValue != "true" {
		t.Fatalf("serve should migrate by default")
	}
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	chdir(t, t.TempDir())
	if err := runMigrate(migrateCmd, nil); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}
}

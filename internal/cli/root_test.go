package cli

import (
	"os"
	"path/filepath"
	"testing"
)

// resetFlags clears the package-level flag state between tests.
func resetFlags() {
	cfgFile = ""
	serverURI = ""
	destDir = ""
	verbose = false
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigFlagsBeatFile(t *testing.T) {
	t.Cleanup(resetFlags)
	t.Setenv("SFTP_CONNECTION_STRING", "")
	t.Setenv("DEST_DIR", "")

	cfgFile = writeConfigFile(t, `[connection]
uri = sftp://file@host
[download]
dest_dir = /from/file
`)
	serverURI = "sftp://flag@host"
	destDir = "/from/flag"

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Connection.URI != "sftp://flag@host" {
		t.Errorf("Expected flag URI to win, got %s", cfg.Connection.URI)
	}
	if cfg.Download.DestDir != "/from/flag" {
		t.Errorf("Expected flag dest to win, got %s", cfg.Download.DestDir)
	}
}

func TestLoadConfigFileWinsWithoutFlags(t *testing.T) {
	t.Cleanup(resetFlags)
	t.Setenv("SFTP_CONNECTION_STRING", "")
	t.Setenv("DEST_DIR", "")

	cfgFile = writeConfigFile(t, `[connection]
uri = sftp://file@host
remote_root = /storage/roms
`)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Connection.URI != "sftp://file@host" {
		t.Errorf("Expected file URI, got %s", cfg.Connection.URI)
	}
	if cfg.Connection.RemoteRoot != "/storage/roms" {
		t.Errorf("Expected file remote root, got %s", cfg.Connection.RemoteRoot)
	}
}

func TestAddCommandsRegistersSubcommands(t *testing.T) {
	rootCmd := NewRootCmd()
	AddCommands(rootCmd)

	want := map[string]bool{"fetch": false, "platforms": false, "version": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Subcommand %s not registered", name)
		}
	}
}

func TestRootCmdPersistentFlags(t *testing.T) {
	rootCmd := NewRootCmd()

	for _, name := range []string{"config", "server", "dest", "verbose"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("--%s flag not found", name)
		}
	}
	if rootCmd.RunE == nil {
		t.Error("Root command should launch the browser by default")
	}
}

func TestNewFetchCmd(t *testing.T) {
	cmd := newFetchCmd()

	if cmd.Use != "fetch <platform> [query]" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	if cmd.Flags().Lookup("first") == nil {
		t.Error("--first flag not found")
	}
	if cmd.Flags().Lookup("yes") == nil {
		t.Error("--yes flag not found")
	}
	if err := cmd.Args(cmd, []string{}); err == nil {
		t.Error("fetch should require a platform argument")
	}
	if err := cmd.Args(cmd, []string{"snes", "mario"}); err != nil {
		t.Errorf("fetch should accept platform and query: %v", err)
	}
}

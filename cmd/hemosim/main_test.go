package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

// newTestRootCmd creates a root command with persistent flags for testing subcommands
func newTestRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "hemosim",
	}
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	return rootCmd
}

// isolateHome sets HOME to a temp directory to avoid touching real ~/.hemosim/
func isolateHome(t *testing.T, tmpDir string) {
	t.Helper()
	tmpHome := filepath.Join(tmpDir, "home")
	if err := os.MkdirAll(tmpHome, 0700); err != nil {
		t.Fatalf("Failed to create temp home: %v", err)
	}
	t.Setenv("HOME", tmpHome)
}

func TestVersionCmd(t *testing.T) {
	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.SetArgs([]string{"version"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
}

func TestScenariosCmd(t *testing.T) {
	isolateHome(t, t.TempDir())

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newScenariosCmd())
	rootCmd.SetArgs([]string{"scenarios"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("scenarios command failed: %v", err)
	}
}

func TestSimulateCmd_UnknownScenario(t *testing.T) {
	isolateHome(t, t.TempDir())

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.SetArgs([]string{"simulate", "leeches"})

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error for unknown scenario")
	}
}

func TestSimulateCmd_Export(t *testing.T) {
	isolateHome(t, t.TempDir())
	exportPath := filepath.Join(t.TempDir(), "run.json")

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.SetArgs([]string{"simulate", "normal", "--duration", "30", "--export", exportPath})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("simulate command failed: %v", err)
	}
	if _, err := os.Stat(exportPath); err != nil {
		t.Fatalf("export file not written: %v", err)
	}
}

func TestDemoCmd_Fast(t *testing.T) {
	isolateHome(t, t.TempDir())

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newDemoCmd())
	rootCmd.SetArgs([]string{"demo", "--speed", "500", "--timeout", "30s"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("demo command failed: %v", err)
	}
}

func TestSessionsCmd_Empty(t *testing.T) {
	isolateHome(t, t.TempDir())

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newSessionsCmd())
	rootCmd.SetArgs([]string{"sessions"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("sessions command failed: %v", err)
	}
}

package cmd

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	rootCmd := NewRootCommand()
	verCmd := NewVersionCommand()
	rootCmd.AddCommand(verCmd)

	rootCmd.SetArgs([]string{"version"})

	b := bytes.NewBufferString("")
	rootCmd.SetOut(b)

	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	out, err := io.ReadAll(b)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "Tally version `dev`") {
		t.Fatalf("Command output does not contain expected string: %s", out)
	}
}

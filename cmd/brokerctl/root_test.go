package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTestConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
[paths]
runtime_dir = "` + t.TempDir() + `"
log_dir = "` + t.TempDir() + `"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestVersionCommandLocal(t *testing.T) {
	out, err := runCommand(t, "--config", writeTestConfig(t), "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "brokerctl") || !strings.Contains(out, "protocol") {
		t.Fatalf("version output = %q", out)
	}
}

func TestCallRejectsUnknownOperation(t *testing.T) {
	_, err := runCommand(t, "--config", writeTestConfig(t), "call", "frobnicate")
	if err == nil {
		t.Fatalf("call accepted an unknown operation")
	}
	if !strings.Contains(err.Error(), "unknown operation") {
		t.Fatalf("error = %v", err)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("init output = %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}

	// Refuses to clobber.
	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatalf("config init overwrote an existing file")
	}
}

func TestConfigShowRendersResolvedValues(t *testing.T) {
	out, err := runCommand(t, "--config", writeTestConfig(t), "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "strategy = 'bus'") && !strings.Contains(out, `strategy = "bus"`) {
		t.Fatalf("config show output missing relay strategy:\n%s", out)
	}
}

func TestTransportFlagValidation(t *testing.T) {
	_, err := runCommand(t, "--config", writeTestConfig(t), "--transport", "pigeon", "call", "getAccounts")
	if err == nil {
		t.Fatalf("unknown transport accepted")
	}
	if !strings.Contains(err.Error(), "strategy") {
		t.Fatalf("error = %v", err)
	}
}

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decaflang/decafc/config"
)

// runDecafc executes the CLI in-process with args, resetting the package's
// flag-backed opts state first so one test's flags can't leak into another's
// (cobra binds flags directly onto the shared opts struct).
func runDecafc(t *testing.T, args ...string) error {
	t.Helper()
	opts = struct {
		target        targetFlag
		output        string
		optimizations string
		debug         bool
		configPath    string
	}{configPath: config.FileName}
	cmd := newRootCommand()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestRunScanTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.decaf")
	if err := os.WriteFile(src, []byte("int x;"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	out := filepath.Join(dir, "out.txt")
	if err := runDecafc(t, "-t", "scan", "-o", out, "--config", filepath.Join(dir, "nonexistent.yaml"), src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "1 int\n1 IDENTIFIER x\n1 ;\n"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRunAssemblyTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.decaf")
	if err := os.WriteFile(src, []byte("void main() { int x; }"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	out := filepath.Join(dir, "out.s")
	if err := runDecafc(t, "-o", out, "--config", filepath.Join(dir, "nonexistent.yaml"), src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(got), ".globl main") {
		t.Fatalf("expected assembly output, got:\n%s", got)
	}
}

func TestRunReportsSemanticDiagnosticsAndFails(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.decaf")
	if err := os.WriteFile(src, []byte("void main() { x = 1; }"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	out := filepath.Join(dir, "out.s")
	err := runDecafc(t, "-o", out, "--config", filepath.Join(dir, "nonexistent.yaml"), src)
	if err == nil {
		t.Fatal("expected an error compiling a program with an undeclared identifier")
	}
}

func TestRunDebugFlagDumpsLLIRInsteadOfAssembly(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.decaf")
	if err := os.WriteFile(src, []byte("void main() {}"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	out := filepath.Join(dir, "out.txt")
	if err := runDecafc(t, "-d", "-o", out, "--config", filepath.Join(dir, "nonexistent.yaml"), src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(got), "method main()") {
		t.Fatalf("expected an LLIR dump, got:\n%s", got)
	}
}

package main

import "testing"

func TestTargetFlagAcceptsKnownPhases(t *testing.T) {
	for _, phase := range []string{"", "scan", "parse", "inter", "assembly"} {
		var tf targetFlag
		if err := tf.Set(phase); err != nil {
			t.Errorf("Set(%q) returned unexpected error: %v", phase, err)
		}
		if tf.String() != phase {
			t.Errorf("String() = %q, want %q", tf.String(), phase)
		}
	}
}

func TestTargetFlagRejectsUnknownPhase(t *testing.T) {
	var tf targetFlag
	if err := tf.Set("bogus"); err == nil {
		t.Fatal("expected an error setting an unknown target")
	}
}

func TestTargetFlagType(t *testing.T) {
	var tf targetFlag
	if tf.Type() != "target" {
		t.Errorf("Type() = %q, want %q", tf.Type(), "target")
	}
}

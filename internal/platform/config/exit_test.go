package config

import (
	"bytes"
	"testing"
)

func TestExitfWritesMessageAndExitsWithOne(t *testing.T) {
	var buf bytes.Buffer
	code := -1
	prevWriter, prevExit := exitWriter, exitFunc
	exitWriter = &buf
	exitFunc = func(c int) { code = c }
	t.Cleanup(func() {
		exitWriter, exitFunc = prevWriter, prevExit
	})

	Exitf("parse flags: %s", "bad value")

	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if got, want := buf.String(), "parse flags: bad value\n"; got != want {
		t.Fatalf("stderr = %q, want %q", got, want)
	}
}

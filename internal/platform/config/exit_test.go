package config

import (
	"bytes"
	"errors"
	"testing"
)

func captureExit(t *testing.T) (*bytes.Buffer, *int) {
	t.Helper()

	var out bytes.Buffer
	code := -1
	prevStderr, prevExit := stderr, exit
	stderr = &out
	exit = func(c int) { code = c }
	t.Cleanup(func() {
		stderr = prevStderr
		exit = prevExit
	})
	return &out, &code
}

func TestExitfWritesMessageAndExitsWithCode1(t *testing.T) {
	out, code := captureExit(t)

	Exitf("fatal: %s", "something broke")

	if *code != 1 {
		t.Fatalf("exit code = %d, want 1", *code)
	}
	if got := out.String(); got != "fatal: something broke\n" {
		t.Fatalf("stderr = %q", got)
	}
}

func TestExitOnErrorIgnoresNil(t *testing.T) {
	out, code := captureExit(t)

	ExitOnError("open store", nil)

	if *code != -1 {
		t.Fatalf("exit called with %d", *code)
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestExitOnErrorLabelsStep(t *testing.T) {
	out, code := captureExit(t)

	ExitOnError("open store", errors.New("disk full"))

	if *code != 1 {
		t.Fatalf("exit code = %d, want 1", *code)
	}
	if got := out.String(); got != "open store: disk full\n" {
		t.Fatalf("stderr = %q", got)
	}
}

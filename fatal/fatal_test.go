package fatal_test

import (
	"strings"
	"testing"

	"github.com/sarchlab/amrmesh/fatal"
)

func TestAbortPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected Abort to panic")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "bad ratio") {
			t.Fatalf("panic message missing reason, got %v", r)
		}
	}()
	fatal.Abort("Schedule", "bad ratio")
}

func TestDumpConnectorHandlesNil(t *testing.T) {
	out := fatal.DumpConnector(nil)
	if !strings.Contains(out, "Base") || !strings.Contains(out, "Head") {
		t.Fatalf("expected header row, got %q", out)
	}
}

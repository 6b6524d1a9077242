package applog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		" warn ":  logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"":        DefaultLevel,
		"verbose": DefaultLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWithOutput_PrefixesCaller(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "debug")

	log.WithField("zones", 2).Debug("rect added")

	out := buf.String()
	if !strings.Contains(out, "log_test.go") {
		t.Errorf("expected caller file in output, got %q", out)
	}
	if !strings.Contains(out, "rect added") || !strings.Contains(out, "zones=2") {
		t.Errorf("expected message and field in output, got %q", out)
	}
	if strings.Contains(out, "func=") {
		t.Errorf("caller should not be repeated as a field, got %q", out)
	}
}

func TestNewWithOutput_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "warn")

	log.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}
}

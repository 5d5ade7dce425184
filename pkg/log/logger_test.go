package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sugawarayuuta/sonnet"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithLevel(WarnLevel), WithOutput(&buf))
	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")
	out := buf.String()
	if strings.Contains(out, " DEBUG ") || strings.Contains(out, " INFO ") {
		t.Fatalf("low levels leaked: %q", out)
	}
	if !strings.Contains(out, " WARN w") || !strings.Contains(out, " ERROR e") {
		t.Fatalf("high levels missing: %q", out)
	}
}

func TestTextFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))
	l.Info("append", Str("backend", "mem"), Int("slot", 3))
	out := buf.String()
	if !strings.Contains(out, "backend=mem") || !strings.Contains(out, "slot=3") {
		t.Fatalf("fields missing: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithFormatter(JSONFormatter{}), WithOutput(&buf))
	l.Info("scan done", Int("write_cursor", 2), Err(errors.New("boom")))
	var obj map[string]any
	if err := sonnet.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatalf("not json: %v (%q)", err, buf.String())
	}
	if obj["msg"] != "scan done" || obj["level"] != "info" {
		t.Fatalf("envelope wrong: %v", obj)
	}
	if obj["error"] != "boom" {
		t.Fatalf("error field: %v", obj["error"])
	}
}

func TestWithAttachesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf)).With(Str("component", "writer"))
	l.Info("poll")
	if !strings.Contains(buf.String(), "component=writer") {
		t.Fatalf("inherited field missing: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	for s, want := range map[string]Level{"debug": DebugLevel, "INFO": InfoLevel, "warning": WarnLevel, "error": ErrorLevel} {
		got, err := ParseLevel(s)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("bad level accepted")
	}
}

func TestApplyConfig(t *testing.T) {
	if _, err := ApplyConfig(&Config{Level: "info", Format: "json"}); err != nil {
		t.Fatalf("json config: %v", err)
	}
	if _, err := ApplyConfig(&Config{Level: "info", Format: "xml"}); err == nil {
		t.Fatal("bad format accepted")
	}
}

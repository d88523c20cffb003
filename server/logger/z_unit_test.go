package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseMode(t *testing.T) {
	cases := map[string]LogMode{
		"":        ModeDev,
		"dev":     ModeDev,
		" PROD ":  ModeProd,
		"silence": ModeSilence,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseMode(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseMode("verbose"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestRedactPasscode(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(buildHandlerTo(ModeProd, &buf))
	log.Info("gate.login", slog.String("identity", "alice"), slog.String("passcode", "0000"))
	out := buf.String()
	if strings.Contains(out, "0000") {
		t.Fatalf("passcode leaked: %s", out)
	}
	if !strings.Contains(out, "alice") {
		t.Fatalf("identity missing: %s", out)
	}
}

func TestAsyncCloseDrains(t *testing.T) {
	var buf bytes.Buffer
	ah := NewAsyncHandler(buildHandlerTo(ModeProd, &buf), 16)
	log := slog.New(ah)
	for i := 0; i < 10; i++ {
		log.Info("tick", slog.Int("i", i))
	}
	ah.Close()
	if n := strings.Count(buf.String(), "tick"); n+int(ah.Dropped()) != 10 {
		t.Fatalf("written %d dropped %d", n, ah.Dropped())
	}
	log.Info("after close")
	if strings.Contains(buf.String(), "after close") {
		t.Fatalf("record accepted after Close")
	}
}

package svrcfg

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zintix-labs/v7lab/gate"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestParseEnvDefaults(t *testing.T) {
	e, err := ParseEnv(map[string]string{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if e.Addr != ":5808" || e.Passcode != "0000" || e.AdminID != "admin" {
		t.Fatalf("unexpected defaults: %+v", e)
	}
	if e.FetchTimeout != 5*time.Second || e.SessionTTL != 12*time.Hour {
		t.Fatalf("unexpected durations: %v %v", e.FetchTimeout, e.SessionTTL)
	}
	if e.Source() != nil {
		t.Fatalf("no source expected without sheet or accounts")
	}
}

func TestParseEnvAccounts(t *testing.T) {
	e, err := ParseEnv(map[string]string{
		"V7_ACCOUNTS":        "alice,bob",
		"V7_SYSTEM_PASSWORD": "s3cret",
		"V7_BASE_UNIT":       "50.5",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	src, ok := e.Source().(gate.StaticSource)
	if !ok {
		t.Fatalf("expected static source, got %T", e.Source())
	}
	list, _ := src.Fetch(context.Background())
	if !list.Contains("alice") || !list.Contains("bob") {
		t.Fatalf("accounts not loaded: %v", list.IDs())
	}

	sc, err := e.Build(quiet())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if sc.BaseUnit.String() != "50.5" {
		t.Fatalf("unexpected unit %s", sc.BaseUnit)
	}
	if sc.Brain == nil || sc.Gate == nil || sc.Sessions == nil {
		t.Fatalf("incomplete cfg: %+v", sc)
	}
	if sc.Brain.Setting().Name != "v7" {
		t.Fatalf("default brain should be v7, got %s", sc.Brain.Setting().Name)
	}

	e.Brain = "table_only"
	sc, err = e.Build(quiet())
	if err != nil || sc.Brain.Setting().Name != "table_only" {
		t.Fatalf("preset brain not applied: %v", err)
	}
}

func TestParseEnvSheetWins(t *testing.T) {
	e, err := ParseEnv(map[string]string{
		"V7_SHEET_URL": "https://docs.example.com/export?format=csv",
		"V7_ACCOUNTS":  "alice",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := e.Source().(*gate.SheetSource); !ok {
		t.Fatalf("expected sheet source, got %T", e.Source())
	}
}

func TestBuildRejectsBadValues(t *testing.T) {
	for name, environ := range map[string]map[string]string{
		"unit":  {"V7_BASE_UNIT": "-1"},
		"key":   {"V7_SESSION_KEY": "short"},
		"brain": {"V7_BRAIN": filepath.Join(t.TempDir(), "missing.yaml")},
	} {
		e, err := ParseEnv(environ)
		if err != nil {
			t.Fatalf("%s: parse: %v", name, err)
		}
		if _, err := e.Build(quiet()); err == nil {
			t.Fatalf("%s: expected build error", name)
		}
	}
}

func TestLoadEnvDotenv(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(p, []byte("V7_ADMIN_ID=boss\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("V7_ADMIN_ID", "")
	os.Unsetenv("V7_ADMIN_ID")
	e, err := LoadEnv(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if e.AdminID != "boss" {
		t.Fatalf("dotenv value not applied: %q", e.AdminID)
	}
	if _, err := LoadEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("missing dotenv must be ignored: %v", err)
	}
}

func TestVaildRequiresDeps(t *testing.T) {
	sc := &SvrCfg{Log: quiet()}
	if err := sc.Vaild(); err == nil {
		t.Fatalf("expected error without brain")
	}
}

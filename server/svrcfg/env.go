// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package svrcfg

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/v7lab/brain"
	"github.com/zintix-labs/v7lab/catalog"
	"github.com/zintix-labs/v7lab/errs"
	"github.com/zintix-labs/v7lab/gate"
	"github.com/zintix-labs/v7lab/session"
)

// Env 由環境變數（可選 .env）讀入的設定。密碼與 sheet token 只從這裡進來。
type Env struct {
	Addr    string `env:"V7_ADDR"     envDefault:":5808"`
	LogMode string `env:"V7_LOG_MODE" envDefault:"dev"`

	SheetURL     string        `env:"V7_SHEET_URL"`
	SheetToken   string        `env:"V7_SHEET_TOKEN"`
	FetchTimeout time.Duration `env:"V7_FETCH_TIMEOUT" envDefault:"5s"`
	Accounts     []string      `env:"V7_ACCOUNTS" envSeparator:","` // 沒有 sheet 時的固定名單

	Passcode  string `env:"V7_SYSTEM_PASSWORD" envDefault:"0000"`
	AdminID   string `env:"V7_ADMIN_ID"        envDefault:"admin"`
	PublicURL string `env:"V7_PUBLIC_URL"      envDefault:"http://localhost:5808"`

	BaseUnit string `env:"V7_BASE_UNIT" envDefault:"100"`
	Brain    string `env:"V7_BRAIN"` // 內嵌設定名稱或檔案路徑；空值用 v7

	SessionKey   string        `env:"V7_SESSION_KEY"`
	SessionTTL   time.Duration `env:"V7_SESSION_TTL" envDefault:"12h"`
	CookieSecure bool          `env:"V7_COOKIE_SECURE"`
}

// LoadEnv 先載入 dotenv（檔案不存在時略過；已存在的環境變數不覆寫），再解析 V7_*。
func LoadEnv(dotenvPath string) (*Env, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errs.WrapAs(errs.Fatal, err, "load dotenv")
		}
	}
	e := new(Env)
	if err := env.Parse(e); err != nil {
		return nil, errs.WrapAs(errs.Fatal, err, "parse env")
	}
	return e, nil
}

// ParseEnv 由給定的 key/value 解析，不讀取行程環境。
func ParseEnv(environ map[string]string) (*Env, error) {
	e := new(Env)
	if err := env.ParseWithOptions(e, env.Options{Environment: environ}); err != nil {
		return nil, errs.WrapAs(errs.Fatal, err, "parse env")
	}
	return e, nil
}

// Source 有 sheet URL 用 sheet；否則用固定名單；都沒有回傳 nil（名單永遠為空）。
func (e *Env) Source() gate.Source {
	if u := strings.TrimSpace(e.SheetURL); u != "" {
		return gate.NewSheetSource(u, e.SheetToken, e.FetchTimeout)
	}
	if len(e.Accounts) > 0 {
		return gate.StaticSource(e.Accounts)
	}
	return nil
}

func (e *Env) unit() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(e.BaseUnit))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, errs.Fatalf("V7_BASE_UNIT must be a positive number, got %q", e.BaseUnit)
	}
	return d, nil
}

func (e *Env) sessionKey() ([]byte, error) {
	if e.SessionKey == "" {
		return nil, nil
	}
	if len(e.SessionKey) < 32 {
		return nil, errs.NewFatal("V7_SESSION_KEY must be at least 32 bytes")
	}
	return []byte(e.SessionKey), nil
}

// Build 依設定組出 SvrCfg。
func (e *Env) Build(log *slog.Logger) (*SvrCfg, error) {
	if log == nil {
		log = slog.Default()
	}
	set, err := catalog.Resolve(e.Brain)
	if err != nil {
		return nil, errs.Wrap(err, "load brain setting")
	}
	b, err := brain.New(set)
	if err != nil {
		return nil, err
	}
	unit, err := e.unit()
	if err != nil {
		return nil, err
	}
	key, err := e.sessionKey()
	if err != nil {
		return nil, err
	}
	store, err := session.NewStore(session.Config{
		Key:    key,
		TTL:    e.SessionTTL,
		Secure: e.CookieSecure,
		Log:    log,
	})
	if err != nil {
		return nil, err
	}
	src := e.Source()
	if src == nil {
		log.Warn("svrcfg.source", slog.String("err", "neither V7_SHEET_URL nor V7_ACCOUNTS is set, nobody can log in"))
	}
	g := gate.New(src, e.Passcode, gate.WithAdmin(e.AdminID), gate.WithLogger(log))

	sc := &SvrCfg{
		Log:       log,
		Addr:      e.Addr,
		Brain:     b,
		Gate:      g,
		Sessions:  store,
		BaseUnit:  unit,
		PublicURL: e.PublicURL,
	}
	return sc, sc.Vaild()
}

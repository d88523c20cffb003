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

// Package gate 是儀表板的登入閘門。
//
// 名單在每個 session 第一次需要時抓取一次，之後唯讀；抓取失敗即視為空名單（fail closed）。
// 通過的方式有兩種：網址帶入的 uid 直接比對名單，或帳號在名單內且密碼等於全系統共用的通關碼。
package gate

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/url"
	"strings"

	"github.com/zintix-labs/v7lab/errs"
)

var (
	// ErrDenied 帳號不存在與密碼錯誤一律回傳同一個訊息。
	ErrDenied = errs.NewDeny("invalid account or passcode")
	// ErrUnavailable 名單無法取得時顯示給使用者的通用訊息。
	ErrUnavailable = errs.NewFatal("allow-list unavailable, please check the connection")
)

// Authorize identity 在名單內且 passcode 等於共用通關碼。
func Authorize(identity, passcode string, list *AllowList, expected string) bool {
	if expected == "" {
		return false
	}
	ok := subtle.ConstantTimeCompare([]byte(passcode), []byte(expected)) == 1
	return list.Contains(identity) && ok
}

// AuthorizeToken 網址 token 直接比對名單，不需要通關碼。
func AuthorizeToken(token string, list *AllowList) bool {
	if strings.TrimSpace(token) == "" {
		return false
	}
	return list.Contains(token)
}

// Access 一個 session 的授權狀態。
type Access struct {
	Authorized bool
	Identity   string
	Roster     *AllowList // 本 session 抓到的名單；nil 表示尚未抓取
	RosterErr  error      // 抓取失敗時的通用錯誤
}

// Reset 回到未登入；名單不重抓。
func (a *Access) Reset() {
	a.Authorized = false
	a.Identity = ""
}

// Gate 持有名單來源與共用通關碼，本身無 session 狀態。
type Gate struct {
	src      Source
	passcode string
	adminID  string
	log      *slog.Logger
}

// Option 設定 Gate 的選項
type Option func(*Gate)

// WithAdmin 設定可產生邀請連結的管理帳號。
func WithAdmin(id string) Option {
	return func(g *Gate) { g.adminID = strings.TrimSpace(id) }
}

// WithLogger 注入 logger；未設定時使用 slog.Default()。
func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) {
		if l != nil {
			g.log = l
		}
	}
}

// New 建立 Gate。src 為 nil 時名單永遠是空的。
func New(src Source, passcode string, opts ...Option) *Gate {
	g := &Gate{src: src, passcode: passcode, log: slog.Default()}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Load 本 session 第一次呼叫時抓取名單；之後直接回傳。
// 失敗時名單為空並回傳 ErrUnavailable（不重試、不沿用舊名單）。
func (g *Gate) Load(ctx context.Context, a *Access) (*AllowList, error) {
	if a.Roster != nil {
		return a.Roster, a.RosterErr
	}
	if g.src == nil {
		a.Roster, a.RosterErr = Empty(), ErrUnavailable
		g.log.Warn("gate.load", slog.String("err", "no allow-list source"))
		return a.Roster, a.RosterErr
	}
	list, err := g.src.Fetch(ctx)
	if err != nil {
		a.Roster, a.RosterErr = Empty(), ErrUnavailable
		g.log.Warn("gate.load", slog.Any("err", err))
		return a.Roster, a.RosterErr
	}
	a.Roster, a.RosterErr = list, nil
	g.log.Info("gate.load", slog.Int("accounts", list.Len()))
	return a.Roster, nil
}

// Login 手動登入。失敗一律回傳 ErrDenied；名單抓取失敗時另外回傳 ErrUnavailable。
func (g *Gate) Login(ctx context.Context, a *Access, identity, passcode string) error {
	list, lerr := g.Load(ctx, a)
	identity = strings.TrimSpace(identity)
	if !Authorize(identity, passcode, list, g.passcode) {
		if lerr != nil {
			return lerr
		}
		return ErrDenied
	}
	a.Authorized = true
	a.Identity = identity
	return nil
}

// Enter 以網址 uid 登入；不在名單內時回傳 false，呼叫端改走手動登入。
func (g *Gate) Enter(ctx context.Context, a *Access, token string) bool {
	list, _ := g.Load(ctx, a)
	token = strings.TrimSpace(token)
	if !AuthorizeToken(token, list) {
		return false
	}
	a.Authorized = true
	a.Identity = token
	return true
}

// Logout 清除登入狀態。
func (g *Gate) Logout(a *Access) {
	a.Reset()
}

// IsAdmin 已登入且為管理帳號。
func (g *Gate) IsAdmin(a *Access) bool {
	return g.adminID != "" && a.Authorized && a.Identity == g.adminID
}

// InviteLink 產生帶 uid 的入口網址，例如 https://host/?uid=alice。
func InviteLink(publicURL, uid string) string {
	base := strings.TrimRight(publicURL, "/")
	return base + "/?" + url.Values{"uid": {strings.TrimSpace(uid)}}.Encode()
}

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

package session

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/zintix-labs/v7lab/errs"
)

// CookieName session cookie 名稱
const CookieName = "v7_session"

const issuer = "v7lab"

// Store 以簽章 cookie 對應記憶體中的 State。
//
// cookie 內容為 HS256 JWT，jti 即 session id；金鑰未設定時每次啟動隨機產生，
// 因此重啟後舊 cookie 全部失效。
type Store struct {
	mu     sync.Mutex
	states map[string]*State
	key    []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
	log    *slog.Logger
}

// Config Store 的設定
type Config struct {
	Key    []byte        // HS256 金鑰；空值則隨機產生
	TTL    time.Duration // 閒置多久後回收；0 使用 12h
	Secure bool          // cookie 是否只走 https
	Log    *slog.Logger
}

// NewStore 建立 Store。
func NewStore(cfg Config) (*Store, error) {
	key := cfg.Key
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, errs.Wrap(err, "generate session key")
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		states: make(map[string]*State),
		key:    key,
		ttl:    ttl,
		secure: cfg.Secure,
		now:    time.Now,
		log:    log,
	}, nil
}

// Len 目前存活的 session 數
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.states)
}

// Do 取得（必要時建立）請求對應的 State，在持有該 State 鎖的情況下執行 fn。
func (st *Store) Do(w http.ResponseWriter, r *http.Request, fn func(*State) error) error {
	s := st.acquire(w, r)
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

func (st *Store) acquire(w http.ResponseWriter, r *http.Request) *State {
	now := st.now()
	id := ""
	if c, err := r.Cookie(CookieName); err == nil {
		id, _ = st.verify(c.Value)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.states[id]; ok && id != "" {
		s.lastSeen = now
		return s
	}

	st.sweep(now)
	id = uuid.NewString()
	s := newState(id, now)
	st.states[id] = s

	tok, err := st.sign(id, now)
	if err != nil {
		// 無法簽章時仍回傳狀態，只是下一個請求會拿到新的 session
		st.log.Error("session.sign", slog.Any("err", err))
		return s
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   st.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  now.Add(st.ttl),
	})
	st.log.Debug("session.new", slog.String("sid", id))
	return s
}

// Drop 移除 session。
func (st *Store) Drop(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.states, id)
}

// Sweep 回收閒置超過 TTL 的 session，回傳剩餘數量。
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweep(st.now())
	return len(st.states)
}

// sweep 回收閒置超過 ttl 的 session（呼叫端持有 st.mu）。
func (st *Store) sweep(now time.Time) {
	for id, s := range st.states {
		if now.Sub(s.lastSeen) > st.ttl {
			delete(st.states, id)
		}
	}
}

func (st *Store) sign(id string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        id,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(st.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(st.key)
}

func (st *Store) verify(tok string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tok, &claims, func(*jwt.Token) (any, error) {
		return st.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(st.now),
	)
	if err != nil {
		return "", errs.WrapAs(errs.Deny, err, "invalid session cookie")
	}
	if claims.ID == "" {
		return "", errs.NewDeny("session cookie without id")
	}
	return claims.ID, nil
}

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

// Package session 保存每位使用者的儀表板狀態（登入、路單、最近一次推算）。
//
// 狀態只存在記憶體，程序重啟即消失。
package session

import (
	"sync"
	"time"

	"github.com/zintix-labs/v7lab/brain"
	"github.com/zintix-labs/v7lab/gate"
	"github.com/zintix-labs/v7lab/sdk/core"
)

// MaxSeed 開局最多可手動設定的手數。
const MaxSeed = 5

// State 單一 session 的狀態。讀寫前需持有鎖（見 Store.Do）。
type State struct {
	mu sync.Mutex

	gate.Access
	ID      string
	History brain.History
	Room    string
	Flash   []string
	Last    *brain.Estimate
	Rng     *core.Core
	Seed    int64 // Rng 的種子，可用於重播

	created  time.Time
	lastSeen time.Time
}

func newState(id string, now time.Time) *State {
	rng, seed := core.NewRandom()
	return &State{ID: id, Rng: rng, Seed: seed, created: now, lastSeen: now}
}

// AddFlash 加入一則一次性提示。
func (s *State) AddFlash(msg string) {
	s.Flash = append(s.Flash, msg)
}

// PopFlash 取出並清空提示。
func (s *State) PopFlash() []string {
	out := s.Flash
	s.Flash = nil
	return out
}

// Append 記錄一手結果。
func (s *State) Append(o brain.Outcome) bool {
	if !o.Valid() {
		return false
	}
	s.History = append(s.History, o)
	return true
}

// SeedRoad 以開局手數取代整條路單；超過 MaxSeed 的部分忽略。
func (s *State) SeedRoad(h brain.History) {
	if len(h) > MaxSeed {
		h = h[:MaxSeed]
	}
	s.History = h.Clone()
}

// Undo 移除最後一手。
func (s *State) Undo() bool {
	if len(s.History) == 0 {
		return false
	}
	s.History = s.History[:len(s.History)-1]
	return true
}

// ResetRoad 清空路單與推算結果。
func (s *State) ResetRoad() {
	s.History = nil
	s.Last = nil
}

// Logout 清除登入與路單；名單不重抓。
func (s *State) Logout() {
	s.Access.Reset()
	s.ResetRoad()
	s.Room = ""
}

// Refresh 已登入時重新推算並快取；未登入時清除快取。
func (s *State) Refresh(b *brain.Brain) *brain.Estimate {
	if !s.Authorized || b == nil {
		s.Last = nil
		return nil
	}
	e := b.Estimate(s.History, s.Rng)
	s.Last = &e
	return s.Last
}

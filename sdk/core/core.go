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

// Package core 是 v7lab 唯一的亂數入口。
//
// 大腦（brain）的「混沌 / 斷龍」判斷與和局覆寫都必須經由這裡注入的亂數來源，
// 這樣只要固定 seed 就能重播同一段推算，測試也能完全決定性。
package core

import (
	"crypto/rand"
	"math"
	"math/big"
)

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	Snapshot() ([]byte, error)
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以 seed 建立 PRNG。
//
// 合約：同一實作、同一版本下 New(seed) 必須是決定性的。
type PRNGFactory interface {
	New(int64) PRNG
}

// DefaultPRNG 實作預設的 PRNGFactory（PCG64）。
type DefaultPRNG struct{}

func (d *DefaultPRNG) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// Core 封裝 PRNG，並提供大腦常用的取樣方法。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// NewSeeded 以 seed 建立預設 PCG64 Core。
func NewSeeded(seed int64) *Core {
	return New(Default().New(seed))
}

// NewRandom 以 crypto/rand 產生 seed 建立 Core，並回傳該 seed 方便重播。
func NewRandom() (*Core, int64) {
	seed := RandomSeed()
	return NewSeeded(seed), seed
}

// RandomSeed 回傳 [0, MaxInt64) 的加密隨機 seed。
func RandomSeed() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		// crypto/rand 失敗時退回固定 seed
		return 0x5eed
	}
	return n.Int64()
}

// Chance 抽一次 [0,1) 亂數，小於 p 回傳 true。
//   - p <= 0：永遠 false，但仍會消耗一次亂數，讓抽樣序列與參數無關。
//   - p >= 1：永遠 true。
func (c *Core) Chance(p float64) bool {
	return Chance(c, p)
}

// Chance 是 Core.Chance 的函式版本，可用於任何 RAND。
func Chance(r RAND, p float64) bool {
	v := r.Float64()
	if p >= 1 {
		return true
	}
	return v < p
}

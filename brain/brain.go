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

// Package brain 是 V7 的推算大腦：由最近的路單推出下一手開莊的混合機率。
//
// 流程：
//  1. 路單截斷為最近 Window 手。
//  2. 四個子機率：三手路型查表、長龍、跳路、反轉。
//  3. 長龍 / 跳路各自可能被「混沌」判定將斷；任一成立則權重整組切換為斷路權重。
//  4. 混合後另抽一次和局覆寫。
//
// Analyze 是純函式；所有亂數只在 Estimate 透過注入的 core.RAND 取得，
// 傳入 nil 等同關閉斷路判定與和局覆寫。
package brain

import (
	"math"
	"slices"

	"github.com/zintix-labs/v7lab/errs"
	"github.com/zintix-labs/v7lab/sdk/core"
	"github.com/zintix-labs/v7lab/spec"
)

// Subs 四個子機率（皆為開莊機率）。
type Subs struct {
	Table    float64 `json:"table"`
	Streak   float64 `json:"streak"`
	Chop     float64 `json:"chop"`
	Reversal float64 `json:"reversal"`
}

// Slice 依 spec.SubTable.. 的順序輸出。
func (s Subs) Slice() []float64 {
	out := make([]float64, spec.SubCount)
	out[spec.SubTable] = s.Table
	out[spec.SubStreak] = s.Streak
	out[spec.SubChop] = s.Chop
	out[spec.SubReversal] = s.Reversal
	return out
}

func neutralSubs() Subs {
	return Subs{Table: neutral, Streak: neutral, Chop: neutral, Reversal: neutral}
}

// Analysis 決定性的部分：只由路單決定。
type Analysis struct {
	Window            History `json:"window"`
	Ready             bool    `json:"ready"` // 手數足夠才會給方向
	Pattern           string  `json:"pattern"`
	Base              Subs    `json:"base"`
	Streak            Streak  `json:"streak"`
	Chop              Chop    `json:"chop"`
	StreakBreakChance float64 `json:"streak_break_chance"`
	ChopBreakChance   float64 `json:"chop_break_chance"`
}

// Estimate 一次推算的結果與診斷欄位。
type Estimate struct {
	Analysis
	Subs        Subs      `json:"subs"` // 套用斷路反轉後實際混合的子機率
	Weights     []float64 `json:"weights"`
	StreakBreak bool      `json:"streak_break"`
	ChopBreak   bool      `json:"chop_break"`
	TieOverride bool      `json:"tie_override"`
	Banker      float64   `json:"banker"`
	Player      float64   `json:"player"`
	Pick        Outcome   `json:"pick"`
	Confidence  float64   `json:"confidence"`
}

// Broken 是否有任一斷路旗標。
func (e *Estimate) Broken() bool {
	return e.StreakBreak || e.ChopBreak
}

// Brain 持有一份已檢查過的設定；本身無狀態，可併發使用。
type Brain struct {
	set *spec.BrainSetting
}

// New 以設定建立 Brain。
func New(set *spec.BrainSetting) (*Brain, error) {
	if set == nil {
		return nil, errs.NewFatal("brain setting required")
	}
	return &Brain{set: set}, nil
}

// NewDefault 使用內嵌正式設定。
func NewDefault() (*Brain, error) {
	set, err := spec.Default()
	if err != nil {
		return nil, err
	}
	return New(set)
}

// Setting 回傳使用中的設定（唯讀）。
func (b *Brain) Setting() *spec.BrainSetting {
	return b.set
}

// Analyze 計算子機率與斷路機率，不抽任何亂數。
func (b *Brain) Analyze(h History) Analysis {
	w := h.Tail(b.set.Window).Clone()
	a := Analysis{Window: w, Base: neutralSubs()}
	a.Streak.Side, a.Streak.Len = w.Run()
	if len(w) < b.set.MinHistory {
		return a
	}
	a.Ready = true

	a.Pattern, a.Base.Table = tableProb(&b.set.Table, w)
	a.Streak, a.Base.Streak = streakProb(&b.set.Streak, w)
	a.Chop = detectChop(w)
	a.Base.Chop = chopProb(&b.set.Chop, a.Chop)
	a.Base.Reversal = reversalProb(b.set.Reversal, w)

	if a.Streak.Side == Banker || a.Streak.Side == Player {
		a.StreakBreakChance = b.set.Streak.StreakBreakChance(a.Streak.Len)
	}
	if a.Chop.Kind != ChopNone {
		a.ChopBreakChance = b.set.Chop.ChopBreakChance(a.Chop.Run)
	}
	return a
}

// Estimate 完整推算。rng 為 nil 時不做斷路判定與和局覆寫，結果只由路單決定。
//
// 同一段路單、同一個 seed 的 rng 會得到相同結果。
func (b *Brain) Estimate(h History, rng core.RAND) Estimate {
	a := b.Analyze(h)
	e := Estimate{
		Analysis: a,
		Subs:     a.Base,
		Weights:  slices.Clone(b.set.Weights.Normal),
		Banker:   neutral,
		Player:   neutral,
	}
	if !a.Ready {
		return e
	}

	if rng != nil {
		if a.StreakBreakChance > 0 {
			e.StreakBreak = core.Chance(rng, a.StreakBreakChance)
		}
		if a.ChopBreakChance > 0 {
			e.ChopBreak = core.Chance(rng, a.ChopBreakChance)
		}
	}
	if e.StreakBreak {
		e.Subs.Streak = 1 - e.Subs.Streak
	}
	if e.ChopBreak {
		e.Subs.Chop = 1 - e.Subs.Chop
	}
	if e.Broken() {
		e.Weights = slices.Clone(b.set.Weights.Break)
	}

	e.Banker = Blend(e.Subs, e.Weights)
	e.Player = 1 - e.Banker
	if e.Banker > e.Player {
		e.Pick = Banker
	} else {
		e.Pick = Player
	}
	e.Confidence = math.Max(e.Banker, e.Player)

	if rng != nil && core.Chance(rng, b.set.TieRate) {
		e.TieOverride = true
		e.Pick = Tie
		e.Confidence = b.set.TieRate
	}
	return e
}

// Blend Σ wᵢ·subᵢ，結果夾在 [0,1]。
func Blend(s Subs, w []float64) float64 {
	v := 0.0
	for i, p := range s.Slice() {
		if i < len(w) {
			v += w[i] * p
		}
	}
	return math.Min(1, math.Max(0, v))
}

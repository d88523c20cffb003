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

// Package spec 定義大腦（brain）的可調參數，以及從 YAML / JSON 載入與檢查的流程。
//
// 所有常數都集中在一份設定檔；不同版本的常數不互相轉換，只挑一份當作正式版本。
package spec

import (
	"fmt"
	"math"
	"strings"

	"github.com/zintix-labs/v7lab/errs"
)

// 子機率的固定順序，對應 Weights.Normal / Weights.Break 的索引。
const (
	SubTable = iota
	SubStreak
	SubChop
	SubReversal
	SubCount
)

// BrainSetting 大腦設定
type BrainSetting struct {
	Name       string        `yaml:"name"        json:"name"`
	Window     int           `yaml:"window"      json:"window"`      // 只看最近 N 手
	MinHistory int           `yaml:"min_history" json:"min_history"` // 少於此數一律中性
	Table      TableSetting  `yaml:"table"       json:"table"`
	Streak     StreakSetting `yaml:"streak"      json:"streak"`
	Chop       ChopSetting   `yaml:"chop"        json:"chop"`
	Reversal   float64       `yaml:"reversal"    json:"reversal"`
	Weights    WeightSetting `yaml:"weights"     json:"weights"`
	TieRate    float64       `yaml:"tie_rate"    json:"tie_rate"`
	Stake      StakeSetting  `yaml:"stake"       json:"stake"`
}

// TableSetting 三手路型 → 下一手開莊的歷史比率
type TableSetting struct {
	Default  float64            `yaml:"default"  json:"default"`
	Patterns map[string]float64 `yaml:"patterns" json:"patterns"`
}

// StreakSetting 長龍
type StreakSetting struct {
	Strong        float64 `yaml:"strong"          json:"strong"`
	Medium        float64 `yaml:"medium"          json:"medium"`
	Weak          float64 `yaml:"weak"            json:"weak"`
	BreakBase     float64 `yaml:"break_base"      json:"break_base"`
	BreakStep     float64 `yaml:"break_step"      json:"break_step"`
	BreakCeiling  float64 `yaml:"break_ceiling"   json:"break_ceiling"`
	AlwaysBreakAt int     `yaml:"always_break_at" json:"always_break_at"`
}

// ChopSetting 跳路（單跳 / 雙跳 / 二帶一）
type ChopSetting struct {
	Single    float64 `yaml:"single"     json:"single"`
	Double    float64 `yaml:"double"     json:"double"`
	TwoOne    float64 `yaml:"two_one"    json:"two_one"`
	BreakFrom int     `yaml:"break_from" json:"break_from"`
	BreakBase float64 `yaml:"break_base" json:"break_base"`
	BreakStep float64 `yaml:"break_step" json:"break_step"`
	BreakMax  float64 `yaml:"break_max"  json:"break_max"`
}

// WeightSetting 兩組權重整組切換，不做插值。
type WeightSetting struct {
	Normal []float64 `yaml:"normal" json:"normal"`
	Break  []float64 `yaml:"break"  json:"break"`
}

// StakeSetting 注碼建議的信心門檻
type StakeSetting struct {
	Mid  float64 `yaml:"mid"  json:"mid"`
	High float64 `yaml:"high" json:"high"`
}

// StreakBreakChance 回傳長度 run 的長龍被判定「將斷」的機率。
// run < 3 不判定；run >= AlwaysBreakAt 必斷。
func (s *StreakSetting) StreakBreakChance(run int) float64 {
	if run < 3 {
		return 0
	}
	if s.AlwaysBreakAt > 0 && run >= s.AlwaysBreakAt {
		return 1
	}
	return math.Min(s.BreakBase+s.BreakStep*float64(run-3), s.BreakCeiling)
}

// ChopBreakChance 回傳跳路重複 run 手後被判定「將斷」的機率。
func (c *ChopSetting) ChopBreakChance(run int) float64 {
	if run < c.BreakFrom {
		return 0
	}
	return math.Min(c.BreakBase+c.BreakStep*float64(run-c.BreakFrom), c.BreakMax)
}

// init 正規化路型 key 後執行檢查
func (bs *BrainSetting) init() error {
	norm := make(map[string]float64, len(bs.Table.Patterns))
	for k, v := range bs.Table.Patterns {
		norm[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	bs.Table.Patterns = norm
	if bs.MinHistory == 0 {
		bs.MinHistory = 3
	}
	return bs.valid()
}

func (bs *BrainSetting) valid() error {
	if bs.Window < 3 {
		return errs.NewFatal(fmt.Sprintf("brain %s: window must >= 3, got %d", bs.Name, bs.Window))
	}
	if bs.MinHistory < 3 || bs.MinHistory > bs.Window {
		return errs.NewFatal(fmt.Sprintf("brain %s: min_history must be in [3, window]", bs.Name))
	}

	for k, v := range bs.Table.Patterns {
		if len(k) != 3 || strings.Trim(k, "BPT") != "" {
			return errs.NewFatal(fmt.Sprintf("brain %s: invalid pattern %q", bs.Name, k))
		}
		if !isProb(v) {
			return errs.NewFatal(fmt.Sprintf("brain %s: pattern %s out of [0,1]", bs.Name, k))
		}
	}

	probs := map[string]float64{
		"table.default":        bs.Table.Default,
		"streak.strong":        bs.Streak.Strong,
		"streak.medium":        bs.Streak.Medium,
		"streak.weak":          bs.Streak.Weak,
		"streak.break_base":    bs.Streak.BreakBase,
		"streak.break_step":    bs.Streak.BreakStep,
		"streak.break_ceiling": bs.Streak.BreakCeiling,
		"chop.single":          bs.Chop.Single,
		"chop.double":          bs.Chop.Double,
		"chop.two_one":         bs.Chop.TwoOne,
		"chop.break_base":      bs.Chop.BreakBase,
		"chop.break_step":      bs.Chop.BreakStep,
		"chop.break_max":       bs.Chop.BreakMax,
		"reversal":             bs.Reversal,
		"tie_rate":             bs.TieRate,
		"stake.mid":            bs.Stake.Mid,
		"stake.high":           bs.Stake.High,
	}
	for k, v := range probs {
		if !isProb(v) {
			return errs.NewFatal(fmt.Sprintf("brain %s: %s out of [0,1]: %v", bs.Name, k, v))
		}
	}
	if bs.Stake.Mid > bs.Stake.High {
		return errs.NewFatal(fmt.Sprintf("brain %s: stake.mid must <= stake.high", bs.Name))
	}
	if bs.Chop.BreakFrom < 1 {
		return errs.NewFatal(fmt.Sprintf("brain %s: chop.break_from must >= 1", bs.Name))
	}

	if err := validWeights(bs.Name, "normal", bs.Weights.Normal); err != nil {
		return err
	}
	return validWeights(bs.Name, "break", bs.Weights.Break)
}

func validWeights(name, which string, w []float64) error {
	if len(w) != SubCount {
		return errs.NewFatal(fmt.Sprintf("brain %s: weights.%s needs %d values, got %d", name, which, SubCount, len(w)))
	}
	sum := 0.0
	for _, v := range w {
		if v < 0 {
			return errs.NewFatal(fmt.Sprintf("brain %s: weights.%s has negative value", name, which))
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		return errs.NewFatal(fmt.Sprintf("brain %s: weights.%s must sum to 1, got %v", name, which, sum))
	}
	return nil
}

func isProb(v float64) bool {
	return v >= 0 && v <= 1 && !math.IsNaN(v)
}

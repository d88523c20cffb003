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

package brain

import "github.com/shopspring/decimal"

// StakeLevel 注碼等級
type StakeLevel uint8

const (
	StakeSkip StakeLevel = iota
	StakeLight
	StakeMedium
	StakeHeavy
)

var stakeNames = [...]string{StakeSkip: "skip", StakeLight: "light", StakeMedium: "medium", StakeHeavy: "heavy"}

func (l StakeLevel) String() string {
	if int(l) < len(stakeNames) {
		return stakeNames[l]
	}
	return "skip"
}

func (l StakeLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Stake 注碼建議
type Stake struct {
	Side   Outcome         `json:"side"`
	Level  StakeLevel      `json:"level"`
	Units  int             `json:"units"`
	Amount decimal.Decimal `json:"amount"`
}

// Suggest 依信心給 0~3 單位：
//   - 沒有方向：觀望（0）
//   - 和局覆寫：固定 1 單位
//   - 信心 < stake.mid：1，< stake.high：2，其餘：3
func (b *Brain) Suggest(e Estimate, unit decimal.Decimal) Stake {
	st := Stake{Side: e.Pick, Amount: decimal.Zero}
	switch {
	case e.Pick == Unknown:
		return st
	case e.TieOverride:
		st.Level, st.Units = StakeLight, 1
	case e.Confidence >= b.set.Stake.High:
		st.Level, st.Units = StakeHeavy, 3
	case e.Confidence >= b.set.Stake.Mid:
		st.Level, st.Units = StakeMedium, 2
	default:
		st.Level, st.Units = StakeLight, 1
	}
	st.Amount = unit.Mul(decimal.NewFromInt(int64(st.Units)))
	return st
}

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

package recorder

import (
	"fmt"

	"github.com/zintix-labs/v7lab/brain"
	"github.com/zintix-labs/v7lab/errs"
	"github.com/zintix-labs/v7lab/stats"
)

// 賠率（以押注單位計）
const (
	PayBanker = 0.95 // 莊贏抽水 5%
	PayPlayer = 1.0
	PayTie    = 8.0
)

// HandRecorder 回測紀錄員
//
// HandRecorder 紀錄每一手的建議與開出結果，並透過Done輸出統計報表
type HandRecorder struct {
	Brain  string
	Seed   int64
	Basic  *BasicRecord
	Levels [brain.StakeHeavy + 1]LevelRecord
}

// BasicRecord 基本紀錄
type BasicRecord struct {
	Shoes    int
	Hands    int
	Bets     int
	Hits     int
	Misses   int
	Pushes   int
	Skips    int
	TieCalls int
	TieHits  int
	Staked   float64
	Net      float64
	NetSqSum float64 // 平方和
}

// LevelRecord 注碼等級的命中紀錄
type LevelRecord struct {
	Bets   int
	Hits   int
	Misses int
}

func NewHandRecorder(name string, seed int64) *HandRecorder {
	return &HandRecorder{Brain: name, Seed: seed, Basic: new(BasicRecord)}
}

func MergeHandRecorder(r []*HandRecorder) (*HandRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("no recorder to merge")
	}
	out := NewHandRecorder(r[0].Brain, r[0].Seed)
	for i, x := range r {
		if x == nil || x.Basic == nil {
			return nil, errs.NewFatal(fmt.Sprintf("recorder %d is nil", i))
		}
		b := out.Basic
		b.Shoes += x.Basic.Shoes
		b.Hands += x.Basic.Hands
		b.Bets += x.Basic.Bets
		b.Hits += x.Basic.Hits
		b.Misses += x.Basic.Misses
		b.Pushes += x.Basic.Pushes
		b.Skips += x.Basic.Skips
		b.TieCalls += x.Basic.TieCalls
		b.TieHits += x.Basic.TieHits
		b.Staked += x.Basic.Staked
		b.Net += x.Basic.Net
		b.NetSqSum += x.Basic.NetSqSum
		for lv := range out.Levels {
			out.Levels[lv].Bets += x.Levels[lv].Bets
			out.Levels[lv].Hits += x.Levels[lv].Hits
			out.Levels[lv].Misses += x.Levels[lv].Misses
		}
	}
	return out, nil
}

// Record 以建議注碼與實際結果更新紀錄，回傳該手損益（單位）
func (s *HandRecorder) Record(st brain.Stake, got brain.Outcome) float64 {
	b := s.Basic
	b.Hands++
	if st.Side == brain.Unknown || st.Units <= 0 {
		b.Skips++
		return 0
	}
	units := float64(st.Units)
	b.Staked += units

	pnl := 0.0
	if st.Side == brain.Tie {
		b.TieCalls++
		if got == brain.Tie {
			b.TieHits++
			pnl = units * PayTie
		} else {
			pnl = -units
		}
	} else {
		b.Bets++
		lv := &s.Levels[st.Level]
		lv.Bets++
		switch got {
		case brain.Tie:
			b.Pushes++
		case st.Side:
			b.Hits++
			lv.Hits++
			if got == brain.Banker {
				pnl = units * PayBanker
			} else {
				pnl = units * PayPlayer
			}
		default:
			b.Misses++
			lv.Misses++
			pnl = -units
		}
	}
	b.Net += pnl
	b.NetSqSum += pnl * pnl
	return pnl
}

// EndShoe 一靴結束
func (s *HandRecorder) EndShoe() {
	s.Basic.Shoes++
}

// Done 輸出（尚未計算比率的）統計報表
func (s *HandRecorder) Done() *stats.BacktestReport {
	b := s.Basic
	rep := &stats.BacktestReport{
		Brain:    s.Brain,
		Seed:     s.Seed,
		Shoes:    b.Shoes,
		Hands:    b.Hands,
		Bets:     b.Bets,
		Hits:     b.Hits,
		Misses:   b.Misses,
		Pushes:   b.Pushes,
		Skips:    b.Skips,
		TieCalls: b.TieCalls,
		TieHits:  b.TieHits,
		Staked:   b.Staked,
		Net:      b.Net,
		NetSqSum: b.NetSqSum,
	}
	for lv := brain.StakeLight; lv <= brain.StakeHeavy; lv++ {
		l := s.Levels[lv]
		if l.Bets == 0 {
			continue
		}
		rep.Levels = append(rep.Levels, stats.LevelReport{Level: lv.String(), Bets: l.Bets, Hits: l.Hits, Misses: l.Misses})
	}
	return rep
}

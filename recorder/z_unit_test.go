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
	"math"
	"testing"

	"github.com/zintix-labs/v7lab/brain"
)

func TestRecordPayouts(t *testing.T) {
	r := NewHandRecorder("v7", 1)
	cases := []struct {
		st   brain.Stake
		got  brain.Outcome
		want float64
	}{
		{brain.Stake{Side: brain.Banker, Level: brain.StakeLight, Units: 1}, brain.Banker, 0.95},
		{brain.Stake{Side: brain.Player, Level: brain.StakeHeavy, Units: 3}, brain.Player, 3},
		{brain.Stake{Side: brain.Player, Level: brain.StakeMedium, Units: 2}, brain.Banker, -2},
		{brain.Stake{Side: brain.Banker, Level: brain.StakeLight, Units: 1}, brain.Tie, 0},
		{brain.Stake{Side: brain.Tie, Level: brain.StakeLight, Units: 1}, brain.Tie, 8},
		{brain.Stake{Side: brain.Tie, Level: brain.StakeLight, Units: 1}, brain.Player, -1},
		{brain.Stake{}, brain.Banker, 0},
	}
	for i, c := range cases {
		if got := r.Record(c.st, c.got); math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("case %d: pnl want %v got %v", i, c.want, got)
		}
	}
	b := r.Basic
	if b.Hands != 7 || b.Bets != 4 || b.Hits != 2 || b.Misses != 1 || b.Pushes != 1 {
		t.Fatalf("unexpected basic %+v", b)
	}
	if b.TieCalls != 2 || b.TieHits != 1 || b.Skips != 1 {
		t.Fatalf("unexpected tie/skip %+v", b)
	}
	if math.Abs(b.Net-(0.95+3-2+8-1)) > 1e-12 || b.Staked != 9 {
		t.Fatalf("unexpected net %v staked %v", b.Net, b.Staked)
	}
}

func TestMergeAndDone(t *testing.T) {
	a := NewHandRecorder("v7", 9)
	b := NewHandRecorder("v7", 9)
	a.Record(brain.Stake{Side: brain.Banker, Level: brain.StakeLight, Units: 1}, brain.Banker)
	a.EndShoe()
	b.Record(brain.Stake{Side: brain.Player, Level: brain.StakeHeavy, Units: 3}, brain.Banker)
	b.EndShoe()

	m, err := MergeHandRecorder([]*HandRecorder{a, b})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	rep := m.Done()
	rep.Done()
	if rep.Shoes != 2 || rep.Hands != 2 || rep.Hits != 1 || rep.Misses != 1 {
		t.Fatalf("unexpected report %+v", rep)
	}
	if len(rep.Levels) != 2 || rep.Levels[0].Level != "light" || rep.Levels[1].Level != "heavy" {
		t.Fatalf("unexpected levels %+v", rep.Levels)
	}
	if rep.HitRate.Hat != 0.5 {
		t.Fatalf("hit rate got %v", rep.HitRate.Hat)
	}

	if _, err := MergeHandRecorder(nil); err == nil {
		t.Fatalf("expected error on empty merge")
	}
}

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

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/v7lab/sdk/core"
	"github.com/zintix-labs/v7lab/spec"
)

const eps = 1e-9

func mustBrain(t *testing.T) *Brain {
	t.Helper()
	b, err := NewDefault()
	if err != nil {
		t.Fatalf("new brain: %v", err)
	}
	return b
}

func mustHistory(t *testing.T, s string) History {
	t.Helper()
	h, err := ParseHistory(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return h
}

func near(a, b float64) bool { return math.Abs(a-b) < eps }

// allHistories 列舉 alphabet 上長度 n 的所有路單
func allHistories(alphabet []Outcome, n int) []History {
	out := []History{{}}
	for i := 0; i < n; i++ {
		next := make([]History, 0, len(out)*len(alphabet))
		for _, h := range out {
			for _, o := range alphabet {
				c := append(h.Clone(), o)
				next = append(next, c)
			}
		}
		out = next
	}
	return out
}

func TestTableHeuristicMatchesConstants(t *testing.T) {
	b := mustBrain(t)
	set := b.Setting()
	for n := 3; n <= 5; n++ {
		for _, h := range allHistories([]Outcome{Banker, Player}, n) {
			a := b.Analyze(h)
			want, ok := set.Table.Patterns[h.Pattern(3)]
			if !ok {
				want = set.Table.Default
			}
			if a.Base.Table != want {
				t.Fatalf("%s: table want %v got %v", h, want, a.Base.Table)
			}
		}
	}
}

func TestProbabilityBounds(t *testing.T) {
	b := mustBrain(t)
	rng := core.NewSeeded(5)
	for n := 3; n <= 6; n++ {
		for _, h := range allHistories([]Outcome{Banker, Player, Tie}, n) {
			e := b.Estimate(h, rng)
			if e.Banker < 0 || e.Banker > 1 {
				t.Fatalf("%s: banker out of range %v", h, e.Banker)
			}
			if !near(e.Banker+e.Player, 1) {
				t.Fatalf("%s: banker+player = %v", h, e.Banker+e.Player)
			}
			if e.Pick == Unknown {
				t.Fatalf("%s: ready history must produce a pick", h)
			}
		}
	}
}

func TestStreakOfThreeBankers(t *testing.T) {
	b := mustBrain(t)
	a := b.Analyze(mustHistory(t, "PBBB"))
	if a.Streak.Side != Banker || a.Streak.Len != 3 {
		t.Fatalf("unexpected streak %+v", a.Streak)
	}
	if a.Base.Streak != b.Setting().Streak.Strong {
		t.Fatalf("want strong streak %v, got %v", b.Setting().Streak.Strong, a.Base.Streak)
	}
	pa := b.Analyze(mustHistory(t, "BPPP"))
	if !near(pa.Base.Streak, 1-b.Setting().Streak.Strong) {
		t.Fatalf("player streak should mirror banker: %v", pa.Base.Streak)
	}
}

func TestStreakShortRuns(t *testing.T) {
	b := mustBrain(t)
	set := b.Setting().Streak
	if got := b.Analyze(mustHistory(t, "PBB")).Base.Streak; got != set.Medium {
		t.Fatalf("run 2: want %v got %v", set.Medium, got)
	}
	if got := b.Analyze(mustHistory(t, "BPB")).Base.Streak; got != set.Weak {
		t.Fatalf("run 1: want %v got %v", set.Weak, got)
	}
	if got := b.Analyze(mustHistory(t, "BBT")).Base.Streak; got != 0.5 {
		t.Fatalf("tie run should be neutral, got %v", got)
	}
}

func TestChopSingleJump(t *testing.T) {
	b := mustBrain(t)
	a := b.Analyze(mustHistory(t, "BBPBP"))
	if a.Chop.Kind != ChopSingle || a.Chop.Next != Banker || a.Chop.Run != 4 {
		t.Fatalf("unexpected chop %+v", a.Chop)
	}
	if a.Base.Chop != b.Setting().Chop.Single {
		t.Fatalf("want single constant %v, got %v", b.Setting().Chop.Single, a.Base.Chop)
	}
}

func TestChopDoubleAndTwoOne(t *testing.T) {
	b := mustBrain(t)
	set := b.Setting().Chop

	d := b.Analyze(mustHistory(t, "BBPPBB"))
	if d.Chop.Kind != ChopDouble || d.Chop.Next != Player {
		t.Fatalf("unexpected double chop %+v", d.Chop)
	}
	if !near(d.Base.Chop, 1-set.Double) {
		t.Fatalf("double: want %v got %v", 1-set.Double, d.Base.Chop)
	}

	to := b.Analyze(mustHistory(t, "BBPBBP"))
	if to.Chop.Kind != ChopTwoOne || to.Chop.Next != Banker {
		t.Fatalf("unexpected two-one chop %+v", to.Chop)
	}
	if to.Base.Chop != set.TwoOne {
		t.Fatalf("two-one: want %v got %v", set.TwoOne, to.Base.Chop)
	}
}

func TestTieInterruptsChop(t *testing.T) {
	b := mustBrain(t)
	a := b.Analyze(mustHistory(t, "BPBPTBP"))
	if a.Chop.Kind != ChopNone {
		t.Fatalf("tie should cut the pattern, got %+v", a.Chop)
	}
	if a.Base.Chop != 0.5 {
		t.Fatalf("no chop should be neutral")
	}
}

func TestShortHistoryIsNeutral(t *testing.T) {
	b := mustBrain(t)
	for _, s := range []string{"", "B", "BP"} {
		e := b.Estimate(mustHistory(t, s), core.NewSeeded(1))
		if e.Ready || e.Pick != Unknown {
			t.Fatalf("%q: expected no recommendation, got %+v", s, e)
		}
		if e.Subs != neutralSubs() || e.Banker != 0.5 || e.Player != 0.5 {
			t.Fatalf("%q: expected neutral output, got %+v", s, e)
		}
		if e.TieOverride || e.Broken() {
			t.Fatalf("%q: short history must not draw", s)
		}
	}
}

func TestWindowTruncation(t *testing.T) {
	b := mustBrain(t)
	long := mustHistory(t, "PPPPPPPPPPPPBPBPBBPB")
	e := b.Analyze(long)
	if len(e.Window) != 10 {
		t.Fatalf("window should be 10, got %d", len(e.Window))
	}
	if e.Window.String() != long.Tail(10).String() {
		t.Fatalf("window should be the most recent hands")
	}
}

func TestEstimateIdempotentWithSeed(t *testing.T) {
	b := mustBrain(t)
	h := mustHistory(t, "BBBBPBPBPP")
	for seed := int64(0); seed < 50; seed++ {
		e1 := b.Estimate(h, core.NewSeeded(seed))
		e2 := b.Estimate(h, core.NewSeeded(seed))
		if !reflect.DeepEqual(e1, e2) {
			t.Fatalf("seed %d: estimates differ\n%+v\n%+v", seed, e1, e2)
		}
	}
	if !reflect.DeepEqual(b.Estimate(h, nil), b.Estimate(h, nil)) {
		t.Fatalf("nil rng estimates differ")
	}
}

func TestEndToEndRecommendsPlayer(t *testing.T) {
	b := mustBrain(t)
	set := b.Setting()
	h := History{Banker, Banker, Banker, Player, Player}
	e := b.Estimate(h, nil)

	wantSubs := Subs{
		Table:    set.Table.Default, // BPP 不在表內
		Streak:   1 - set.Streak.Medium,
		Chop:     0.5,
		Reversal: set.Reversal,
	}
	if e.Subs != wantSubs {
		t.Fatalf("subs: want %+v got %+v", wantSubs, e.Subs)
	}
	w := set.Weights.Normal
	want := w[0]*wantSubs.Table + w[1]*wantSubs.Streak + w[2]*wantSubs.Chop + w[3]*wantSubs.Reversal
	if !near(e.Banker, want) || !near(e.Banker, 0.46772) {
		t.Fatalf("banker: want %v got %v", want, e.Banker)
	}
	if e.Pick != Player || !near(e.Player, 1-want) {
		t.Fatalf("expected player pick, got %+v", e)
	}
	if e.Broken() || e.TieOverride {
		t.Fatalf("nil rng must suppress breaks")
	}
}

func TestLongStreakAlwaysBreaks(t *testing.T) {
	b := mustBrain(t)
	set := b.Setting()
	h := mustHistory(t, "PBBBBBBB")
	e := b.Estimate(h, core.NewSeeded(77))
	if !e.StreakBreak {
		t.Fatalf("streak of %d should always break", e.Streak.Len)
	}
	if !reflect.DeepEqual(e.Weights, set.Weights.Break) {
		t.Fatalf("break weights expected, got %v", e.Weights)
	}
	if !near(e.Subs.Streak, 1-set.Streak.Strong) {
		t.Fatalf("broken streak should reverse, got %v", e.Subs.Streak)
	}
}

func TestChopBreakReverses(t *testing.T) {
	set := *spec.MustDefault()
	set.Chop.BreakBase = 1
	set.Chop.BreakMax = 1
	set.TieRate = 0
	b, err := New(&set)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	h := mustHistory(t, "BPBPBPBP")

	calm := b.Estimate(h, nil)
	if calm.ChopBreak || calm.Broken() {
		t.Fatalf("no rng should never break: %+v", calm)
	}
	if !reflect.DeepEqual(calm.Weights, set.Weights.Normal) {
		t.Fatalf("normal weights expected, got %v", calm.Weights)
	}

	e := b.Estimate(h, core.NewSeeded(5))
	if e.Chop.Kind != ChopSingle || e.Chop.Run < set.Chop.BreakFrom {
		t.Fatalf("unexpected chop %+v", e.Chop)
	}
	if !e.ChopBreak || e.StreakBreak {
		t.Fatalf("want chop break only, got chop=%v streak=%v", e.ChopBreak, e.StreakBreak)
	}
	if !near(e.Subs.Chop, 1-e.Base.Chop) || !near(e.Subs.Chop, 1-set.Chop.Single) {
		t.Fatalf("broken chop should reverse: base %v sub %v", e.Base.Chop, e.Subs.Chop)
	}
	if e.Subs.Streak != e.Base.Streak {
		t.Fatalf("streak sub should stay: base %v sub %v", e.Base.Streak, e.Subs.Streak)
	}
	if !reflect.DeepEqual(e.Weights, set.Weights.Break) {
		t.Fatalf("break weights expected, got %v", e.Weights)
	}
	if !near(e.Banker, Blend(e.Subs, set.Weights.Break)) || !near(e.Banker+e.Player, 1) {
		t.Fatalf("blend mismatch: %+v", e)
	}
}

func TestTieOverride(t *testing.T) {
	set := *spec.MustDefault()
	set.TieRate = 1
	b, err := New(&set)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	e := b.Estimate(mustHistory(t, "BPPB"), core.NewSeeded(3))
	if !e.TieOverride || e.Pick != Tie {
		t.Fatalf("expected tie override, got %+v", e)
	}
	if !near(e.Banker+e.Player, 1) {
		t.Fatalf("blend should still be reported")
	}
}

func TestSuggestStake(t *testing.T) {
	b := mustBrain(t)
	unit := decimal.NewFromInt(100)

	light := b.Suggest(b.Estimate(History{Banker, Banker, Banker, Player, Player}, nil), unit)
	if light.Level != StakeLight || light.Units != 1 || !light.Amount.Equal(unit) {
		t.Fatalf("unexpected light stake %+v", light)
	}

	heavy := b.Suggest(Estimate{Pick: Banker, Confidence: 0.7}, unit)
	if heavy.Level != StakeHeavy || !heavy.Amount.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("unexpected heavy stake %+v", heavy)
	}

	mid := b.Suggest(Estimate{Pick: Player, Confidence: 0.6}, decimal.RequireFromString("12.5"))
	if mid.Level != StakeMedium || !mid.Amount.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("unexpected medium stake %+v", mid)
	}

	skip := b.Suggest(Estimate{}, unit)
	if skip.Level != StakeSkip || skip.Units != 0 || !skip.Amount.IsZero() {
		t.Fatalf("unexpected skip stake %+v", skip)
	}

	tie := b.Suggest(Estimate{Pick: Tie, TieOverride: true, Confidence: 0.095}, unit)
	if tie.Level != StakeLight || tie.Units != 1 {
		t.Fatalf("unexpected tie stake %+v", tie)
	}
}

func TestParseHistory(t *testing.T) {
	cases := map[string]string{
		"BPT":           "BPT",
		"b, p, t":       "BPT",
		"banker player": "BP",
		"tie":           "T",
		"莊閒和":           "BPT",
		"  ":            "",
	}
	for in, want := range cases {
		h, err := ParseHistory(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if h.String() != want {
			t.Fatalf("%q: want %q got %q", in, want, h.String())
		}
	}
	if _, err := ParseHistory("BXP"); err == nil {
		t.Fatalf("expected error for invalid symbol")
	}
}

func TestOutcomeJSON(t *testing.T) {
	raw, err := json.Marshal(History{Banker, Tie, Player})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `["B","T","P"]` {
		t.Fatalf("unexpected json %s", raw)
	}
	var back History
	if err := json.Unmarshal([]byte(`["banker","t","P"]`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.String() != "BTP" {
		t.Fatalf("unexpected history %s", back)
	}
}

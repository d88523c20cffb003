package stats_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/zintix-labs/v7lab/brain"
	"github.com/zintix-labs/v7lab/stats"
	"gopkg.in/yaml.v3"
)

func mustHistory(t *testing.T, s string) brain.History {
	t.Helper()
	h, err := brain.ParseHistory(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return h
}

func TestRoadReportCounts(t *testing.T) {
	r := stats.NewRoadReport(mustHistory(t, "BBBPTPPPPB"))
	if r.Hands != 10 || r.Banker != 4 || r.Player != 5 || r.Tie != 1 {
		t.Fatalf("unexpected counts %+v", r)
	}
	if r.LongBanker != 3 || r.LongPlayer != 4 {
		t.Fatalf("unexpected longest runs B=%d P=%d", r.LongBanker, r.LongPlayer)
	}
	if r.Current != "B x1" {
		t.Fatalf("unexpected current %q", r.Current)
	}
	if math.Abs(r.BankerRate.Hat-0.4) > 1e-12 {
		t.Fatalf("banker rate got %v", r.BankerRate.Hat)
	}
	if math.Abs(r.BankerShare.Hat-4.0/9.0) > 1e-12 {
		t.Fatalf("banker share got %v", r.BankerShare.Hat)
	}
	for _, ps := range []stats.PointStat{r.BankerRate, r.PlayerRate, r.TieRate, r.BankerShare} {
		if ps.CI.Lo > ps.Hat || ps.CI.Hi < ps.Hat || ps.CI.Lo < 0 || ps.CI.Hi > 1 {
			t.Fatalf("CI should bracket the estimate: %+v", ps)
		}
	}
}

func TestRoadReportEmpty(t *testing.T) {
	r := stats.NewRoadReport(nil)
	if r.Hands != 0 || r.Current != "" {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.BankerRate.CI != (stats.CI{Lo: 0, Hi: 1}) {
		t.Fatalf("empty road should have the widest CI, got %+v", r.BankerRate.CI)
	}
}

func TestRoadReportRender(t *testing.T) {
	r := stats.NewRoadReport(mustHistory(t, "BPBPT"))

	var js bytes.Buffer
	if err := r.WriteWith(&js, stats.RenderOf[stats.RoadReport]("json")); err != nil {
		t.Fatalf("json: %v", err)
	}
	var back stats.RoadReport
	if err := json.Unmarshal(js.Bytes(), &back); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if back.Road != "BPBPT" {
		t.Fatalf("unexpected road %q", back.Road)
	}

	var ym bytes.Buffer
	if err := r.WriteWith(&ym, stats.RenderOf[stats.RoadReport]("yaml")); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(ym.Bytes(), &m); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if m["Hands"] != 5 {
		t.Fatalf("unexpected yaml hands %v", m["Hands"])
	}

	tbl := r.Table()
	if !strings.Contains(tbl, "Road") || !strings.Contains(tbl, "Banker Share") {
		t.Fatalf("table missing rows:\n%s", tbl)
	}
}

func TestBacktestMergeAndDone(t *testing.T) {
	a := &stats.BacktestReport{
		Shoes: 1, Hands: 10, Bets: 4, Hits: 2, Misses: 1, Pushes: 1,
		Staked: 4, Net: 0.95,
		Levels: []stats.LevelReport{{Level: "light", Bets: 4, Hits: 2, Misses: 1}},
	}
	b := &stats.BacktestReport{
		Shoes: 1, Hands: 10, Bets: 2, Hits: 2, TieCalls: 1, TieHits: 1,
		Staked: 3, Net: 10,
		Levels: []stats.LevelReport{{Level: "light", Bets: 1, Hits: 1}, {Level: "heavy", Bets: 1, Hits: 1}},
	}
	a.Merge(b)
	a.Done()

	if a.Shoes != 2 || a.Hands != 20 || a.Hits != 4 || a.Misses != 1 || a.Wagers() != 7 {
		t.Fatalf("unexpected merge %+v", a)
	}
	if math.Abs(a.HitRate.Hat-0.8) > 1e-12 {
		t.Fatalf("hit rate got %v", a.HitRate.Hat)
	}
	if a.TieHitRate.Hat != 1 || a.TieHitRate.CI.Hi != 1 {
		t.Fatalf("tie hit rate got %+v", a.TieHitRate)
	}
	if len(a.Levels) != 2 || a.Levels[0].Bets != 5 || a.Levels[0].Hits != 3 {
		t.Fatalf("unexpected levels %+v", a.Levels)
	}
	if math.Abs(a.Edge.Hat-10.95/7) > 1e-12 {
		t.Fatalf("edge got %v", a.Edge.Hat)
	}
	if !strings.Contains(a.Table(), "Hit @heavy") {
		t.Fatalf("table should list levels")
	}
}

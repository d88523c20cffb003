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

// Package backtest 以合成牌靴回放大腦，統計建議的命中率與損益。
package backtest

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/v7lab/brain"
	"github.com/zintix-labs/v7lab/errs"
	"github.com/zintix-labs/v7lab/recorder"
	"github.com/zintix-labs/v7lab/sdk/core"
	"github.com/zintix-labs/v7lab/sdk/sampler"
	"github.com/zintix-labs/v7lab/stats"
)

// ShoeWeights 八副牌的莊 / 閒 / 和機率（萬分比）
var ShoeWeights = []int{4586, 4462, 952}

var shoeOutcome = [...]brain.Outcome{brain.Banker, brain.Player, brain.Tie}

// Simulator 以多個 worker 平行回放牌靴。
//
// 同一個 seed 與 worker 數會得到相同結果。
type Simulator struct {
	brain     *brain.Brain
	table     *sampler.AliasTable
	initSeed  int64
	seedmaker *seedMaker
}

// NewSimulator 以隨機 seed 建立
func NewSimulator(b *brain.Brain) (*Simulator, error) {
	return NewSimulatorWithSeed(b, core.RandomSeed())
}

func NewSimulatorWithSeed(b *brain.Brain, seed int64) (*Simulator, error) {
	if b == nil {
		return nil, errs.NewFatal("brain is required")
	}
	at, err := sampler.BuildAliasTable(ShoeWeights)
	if err != nil {
		return nil, err
	}
	return &Simulator{brain: b, table: at, initSeed: seed, seedmaker: newSeedMaker(seed)}, nil
}

// Seed 初始種子
func (s *Simulator) Seed() int64 { return s.initSeed }

// Sim 單線回放
func (s *Simulator) Sim(shoes, hands int, showpb bool) (*stats.BacktestReport, time.Duration, error) {
	return s.SimMP(1, shoes, hands, showpb)
}

// SimMP 平行回放 shoes 靴、每靴 hands 手，合併後回傳報表與用時
//
// 第 i 靴固定交給 worker i % mp，每個 worker 的亂數由 seedmaker 依序派發。
func (s *Simulator) SimMP(mp, shoes, hands int, showpb bool) (*stats.BacktestReport, time.Duration, error) {
	if mp <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if shoes < 1 || hands < 1 {
		return nil, 0, errs.NewWarn("shoes and hands must > 0")
	}
	mp = min(mp, shoes)
	s.seedmaker = newSeedMaker(s.initSeed)

	name := s.brain.Setting().Name
	recs := make([]*recorder.HandRecorder, mp)
	workers := make([]*worker, mp)
	for i := range mp {
		recs[i] = recorder.NewHandRecorder(name, s.initSeed)
		workers[i] = &worker{
			brain: s.brain,
			table: s.table,
			shoe:  core.NewSeeded(s.seedmaker.next()),
			chaos: core.NewSeeded(s.seedmaker.next()),
			rec:   recs[i],
			hist:  make(brain.History, 0, hands),
		}
	}

	bar := pb.StartNew(shoes)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	var done atomic.Int64
	wg := new(sync.WaitGroup)
	wg.Add(mp)
	for i := range mp {
		go func(i int) {
			defer wg.Done()
			w := workers[i]
			for n := i; n < shoes; n += mp {
				w.playShoe(hands)
				done.Add(1)
				bar.Increment()
			}
		}(i)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	rec, err := recorder.MergeHandRecorder(recs)
	if err != nil {
		return nil, 0, err
	}
	rep := rec.Done()
	rep.Done()
	if int(done.Load()) != shoes {
		return nil, 0, errs.Fatalf("backtest played %d of %d shoes", done.Load(), shoes)
	}
	return rep, used, nil
}

var unit = decimal.NewFromInt(1)

type worker struct {
	brain *brain.Brain
	table *sampler.AliasTable
	shoe  core.RAND // 開牌
	chaos core.RAND // 大腦的斷路 / 和局抽籤
	rec   *recorder.HandRecorder
	hist  brain.History
}

func (w *worker) playShoe(hands int) {
	w.hist = w.hist[:0]
	for range hands {
		est := w.brain.Estimate(w.hist, w.chaos)
		st := w.brain.Suggest(est, unit)
		got := shoeOutcome[w.table.Pick(w.shoe)]
		w.rec.Record(st, got)
		w.hist = append(w.hist, got)
	}
	w.rec.EndShoe()
}

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

// Package v7lab 把大腦設定目錄、推算與回測組在一起，給 CLI 與嵌入使用。
package v7lab

import (
	"io/fs"
	"sync"
	"time"

	"github.com/zintix-labs/v7lab/backtest"
	"github.com/zintix-labs/v7lab/brain"
	"github.com/zintix-labs/v7lab/catalog"
	"github.com/zintix-labs/v7lab/errs"
	"github.com/zintix-labs/v7lab/sdk/core"
	"github.com/zintix-labs/v7lab/spec/presets"
	"github.com/zintix-labs/v7lab/stats"
)

type Lab struct {
	cat *catalog.Catalog

	mu     sync.Mutex
	brains map[string]*brain.Brain
}

// New cfgs 為空時使用內嵌設定。
func New(cfgs ...fs.FS) (*Lab, error) {
	if len(cfgs) == 0 {
		cfgs = []fs.FS{presets.FS}
	}
	cat, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	return &Lab{cat: cat, brains: map[string]*brain.Brain{}}, nil
}

func (l *Lab) Names() []string {
	return l.cat.Names()
}

func (l *Lab) Summaries() ([]catalog.Summary, error) {
	return l.cat.Summaries()
}

// Brain 依名稱取得大腦；同名只建立一次。
func (l *Lab) Brain(name string) (*brain.Brain, error) {
	e, ok := l.cat.Get(name)
	if !ok {
		return nil, errs.Warnf("brain %q does not exist", name)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.brains[e.Name]; ok {
		return b, nil
	}
	set, err := l.cat.Setting(e.Name)
	if err != nil {
		return nil, err
	}
	b, err := brain.New(set)
	if err != nil {
		return nil, err
	}
	l.brains[e.Name] = b
	return b, nil
}

// Estimate 以 seed 推算一段路單（例如 "BBBPP"），相同輸入結果相同。
func (l *Lab) Estimate(name, road string, seed int64) (brain.Estimate, error) {
	b, err := l.Brain(name)
	if err != nil {
		return brain.Estimate{}, err
	}
	h, err := brain.ParseHistory(road)
	if err != nil {
		return brain.Estimate{}, err
	}
	return b.Estimate(h, core.NewSeeded(seed)), nil
}

func (l *Lab) NewSimulatorWithSeed(name string, seed int64) (*backtest.Simulator, error) {
	b, err := l.Brain(name)
	if err != nil {
		return nil, err
	}
	return backtest.NewSimulatorWithSeed(b, seed)
}

// Compare 以同一個 seed 回測多個大腦，每個大腦看到的牌靴完全相同。
func (l *Lab) Compare(names []string, mp, shoes, hands int, seed int64, showpb bool) ([]*stats.BacktestReport, time.Duration, error) {
	if len(names) == 0 {
		return nil, 0, errs.NewWarn("at least one brain is required")
	}
	var total time.Duration
	out := make([]*stats.BacktestReport, 0, len(names))
	for _, n := range names {
		s, err := l.NewSimulatorWithSeed(n, seed)
		if err != nil {
			return nil, 0, err
		}
		rep, used, err := s.SimMP(mp, shoes, hands, showpb)
		if err != nil {
			return nil, 0, err
		}
		total += used
		out = append(out, rep)
	}
	return out, total, nil
}

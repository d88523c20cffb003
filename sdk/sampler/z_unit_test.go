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

package sampler

import (
	"math"
	"testing"

	"github.com/zintix-labs/v7lab/sdk/core"
)

// checkDistribution 驗證抽樣結果的分佈是否符合預期權重
func checkDistribution(t *testing.T, weights []int, samples []int, tolerance float64) {
	t.Helper()
	totalW := 0
	for _, w := range weights {
		totalW += w
	}
	counts := make(map[int]int)
	for _, idx := range samples {
		counts[idx]++
	}
	for i, w := range weights {
		if w == 0 {
			if counts[i] > 0 {
				t.Errorf("index %d has weight 0 but got %d samples", i, counts[i])
			}
			continue
		}
		expected := float64(w) / float64(totalW)
		actual := float64(counts[i]) / float64(len(samples))
		if diff := math.Abs(expected - actual); diff > tolerance {
			t.Errorf("index %d: expected %.4f, got %.4f", i, expected, actual)
		}
	}
}

func TestAliasTableBaccaratWeights(t *testing.T) {
	weights := []int{4586, 4462, 952}
	at, err := BuildAliasTable(weights)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	c := core.NewSeeded(42)
	samples := make([]int, 300000)
	for i := range samples {
		samples[i] = at.Pick(c)
	}
	checkDistribution(t, weights, samples, 0.005)
}

func TestAliasTableZeroWeight(t *testing.T) {
	weights := []int{5, 0, 5}
	at, err := BuildAliasTable(weights)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	c := core.NewSeeded(1)
	samples := make([]int, 20000)
	for i := range samples {
		samples[i] = at.Pick(c)
	}
	checkDistribution(t, weights, samples, 0.02)
}

func TestAliasTableErrors(t *testing.T) {
	if _, err := BuildAliasTable([]int{1, -1}); err == nil {
		t.Fatalf("expected error for negative weight")
	}
	if _, err := BuildAliasTable([]int{0, 0}); err == nil {
		t.Fatalf("expected error for zero weights")
	}
	at, err := BuildAliasTable(nil)
	if err != nil {
		t.Fatalf("empty table should build: %v", err)
	}
	if got := at.Pick(core.NewSeeded(3)); got != -1 {
		t.Fatalf("expected -1 from empty table, got %d", got)
	}
}

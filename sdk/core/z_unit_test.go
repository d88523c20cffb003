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

package core

import (
	"testing"
)

func TestCoreDeterminism(t *testing.T) {
	c1 := NewSeeded(7)
	c2 := NewSeeded(7)
	for i := 0; i < 5; i++ {
		if c1.Uint64() != c2.Uint64() {
			t.Fatalf("Uint64 mismatch at %d", i)
		}
	}
	if c1.IntN(10) != c2.IntN(10) {
		t.Fatalf("IntN mismatch")
	}
	if c1.Float64() != c2.Float64() {
		t.Fatalf("Float64 mismatch")
	}
}

func TestIntNBounds(t *testing.T) {
	c := NewSeeded(9)
	if got := c.IntN(0); got != -1 {
		t.Fatalf("expected -1 for IntN(0), got %d", got)
	}
	for i := 0; i < 1000; i++ {
		if v := c.IntN(7); v < 0 || v >= 7 {
			t.Fatalf("IntN out of range: %d", v)
		}
		if f := c.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %v", f)
		}
	}
}

func TestChanceEdges(t *testing.T) {
	c := NewSeeded(11)
	for i := 0; i < 100; i++ {
		if c.Chance(0) {
			t.Fatalf("Chance(0) must be false")
		}
		if !c.Chance(1) {
			t.Fatalf("Chance(1) must be true")
		}
	}
}

func TestChanceRate(t *testing.T) {
	c := NewSeeded(13)
	hits := 0
	const n = 200000
	for i := 0; i < n; i++ {
		if c.Chance(0.095) {
			hits++
		}
	}
	rate := float64(hits) / n
	if rate < 0.09 || rate > 0.10 {
		t.Fatalf("unexpected chance rate %.4f", rate)
	}
}

func TestSnapshotRestore(t *testing.T) {
	c := NewSeeded(21)
	_ = c.Uint64()
	snap, err := c.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	want := c.Uint64()

	d := NewSeeded(99)
	if err := d.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := d.Uint64(); got != want {
		t.Fatalf("restored stream mismatch: %d != %d", got, want)
	}
}

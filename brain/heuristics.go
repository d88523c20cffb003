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

import "github.com/zintix-labs/v7lab/spec"

const neutral = 0.5

// ChopKind 跳路型態
type ChopKind uint8

const (
	ChopNone   ChopKind = iota
	ChopSingle          // 單跳 BPBP
	ChopDouble          // 雙跳 BBPPBB
	ChopTwoOne          // 二帶一 BBPBBP
)

var chopNames = [...]string{ChopNone: "none", ChopSingle: "single", ChopDouble: "double", ChopTwoOne: "two_one"}

func (k ChopKind) String() string {
	if int(k) < len(chopNames) {
		return chopNames[k]
	}
	return "none"
}

func (k ChopKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Streak 尾端長龍
type Streak struct {
	Side Outcome `json:"side"`
	Len  int     `json:"len"`
}

// Chop 跳路偵測結果
type Chop struct {
	Kind ChopKind `json:"kind"`
	Next Outcome  `json:"next"` // 型態延續時預期的下一手
	Run  int      `json:"run"`  // 符合型態的尾端手數
}

// tableProb 三手路型查表；未收錄的路型回傳預設值。
func tableProb(set *spec.TableSetting, w History) (string, float64) {
	pat := w.Pattern(3)
	if v, ok := set.Patterns[pat]; ok {
		return pat, v
	}
	return pat, set.Default
}

// streakProb 長龍越長越偏向延續；和局的長龍不給方向。
func streakProb(set *spec.StreakSetting, w History) (Streak, float64) {
	side, n := w.Run()
	st := Streak{Side: side, Len: n}
	if side != Banker && side != Player {
		return st, neutral
	}
	v := set.Weak
	switch {
	case n >= 3:
		v = set.Strong
	case n == 2:
		v = set.Medium
	}
	return st, probOf(side, v)
}

// detectChop 在最後一個和局之後的莊閒片段上找週期型態。
//   - 單跳：尾端交替至少 4 手，預期反轉最後一手。
//   - 雙跳：最近 6 手週期 4（aabb 的旋轉）。
//   - 二帶一：最近 6 手週期 3，且一個週期內不全相同。
func detectChop(w History) Chop {
	s := w.Decided()
	n := len(s)

	if alt := alternationRun(s); alt >= 4 {
		return Chop{Kind: ChopSingle, Next: s[n-1].Opposite(), Run: alt}
	}
	if n < 6 {
		return Chop{}
	}
	t := s[n-6:]
	if t[0] == t[4] && t[1] == t[5] && t[0] != t[2] && t[1] != t[3] {
		return Chop{Kind: ChopDouble, Next: t[2], Run: periodRun(s, 4)}
	}
	if t[0] == t[3] && t[1] == t[4] && t[2] == t[5] && !(t[0] == t[1] && t[1] == t[2]) {
		return Chop{Kind: ChopTwoOne, Next: t[0], Run: periodRun(s, 3)}
	}
	return Chop{}
}

func chopProb(set *spec.ChopSetting, c Chop) float64 {
	switch c.Kind {
	case ChopSingle:
		return probOf(c.Next, set.Single)
	case ChopDouble:
		return probOf(c.Next, set.Double)
	case ChopTwoOne:
		return probOf(c.Next, set.TwoOne)
	default:
		return neutral
	}
}

// reversalProb 押最後一手（非和）的反方向。
func reversalProb(v float64, w History) float64 {
	last := w.LastDecided()
	if last == Unknown {
		return neutral
	}
	return probOf(last.Opposite(), v)
}

// alternationRun 尾端嚴格交替的長度。
func alternationRun(s History) int {
	n := len(s)
	if n == 0 {
		return 0
	}
	run := 1
	for i := n - 1; i > 0 && s[i] != s[i-1]; i-- {
		run++
	}
	return run
}

// periodRun 尾端維持週期 p 的長度（至少 p）。
func periodRun(s History, p int) int {
	n := len(s)
	run := p
	for i := n - p - 1; i >= 0 && s[i] == s[i+p]; i-- {
		run++
	}
	return min(run, n)
}

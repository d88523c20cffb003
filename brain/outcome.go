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
	"strings"

	"github.com/zintix-labs/v7lab/errs"
)

// Outcome 一手牌的結果：莊 / 閒 / 和。紀錄後不可變。
type Outcome uint8

const (
	Unknown Outcome = iota // 零值；作為 Pick 時代表「不建議」
	Banker
	Player
	Tie
)

var outcomeLetter = [...]string{Unknown: "-", Banker: "B", Player: "P", Tie: "T"}
var outcomeName = [...]string{Unknown: "none", Banker: "banker", Player: "player", Tie: "tie"}

// Letter 回傳單字母表示（B/P/T），Unknown 為 "-"。
func (o Outcome) Letter() string {
	if int(o) < len(outcomeLetter) {
		return outcomeLetter[o]
	}
	return "-"
}

func (o Outcome) String() string {
	if int(o) < len(outcomeName) {
		return outcomeName[o]
	}
	return "none"
}

// Valid 只有莊 / 閒 / 和是可紀錄的結果。
func (o Outcome) Valid() bool {
	return o == Banker || o == Player || o == Tie
}

// Opposite 莊閒互換；和與 Unknown 原樣回傳。
func (o Outcome) Opposite() Outcome {
	switch o {
	case Banker:
		return Player
	case Player:
		return Banker
	default:
		return o
	}
}

// ParseOutcome 接受 B/P/T 或 banker/player/tie（不分大小寫），以及中文 莊/閒/和。
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "b", "banker", "莊":
		return Banker, nil
	case "p", "player", "閒":
		return Player, nil
	case "t", "tie", "和":
		return Tie, nil
	default:
		return Unknown, errs.Warnf("invalid outcome: %q", s)
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.Letter()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	if string(b) == "-" || len(b) == 0 {
		*o = Unknown
		return nil
	}
	v, err := ParseOutcome(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// probOf 把「偏向 side 的機率 v」轉成開莊機率。
func probOf(side Outcome, v float64) float64 {
	switch side {
	case Banker:
		return v
	case Player:
		return 1 - v
	default:
		return neutral
	}
}

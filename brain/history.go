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
	"strconv"
	"strings"
	"unicode"

	"github.com/zintix-labs/v7lab/errs"
)

// History 路單：依時間排序的結果序列。儲存不設上限，推算時只取最近 Window 手。
type History []Outcome

// ParseHistory 解析 "BBPPT"、"B,P,T" 或 "banker player" 之類的字串。
func ParseHistory(s string) (History, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return History{}, nil
	}
	sep := func(r rune) bool { return r == ',' || unicode.IsSpace(r) }
	fields := strings.FieldsFunc(s, sep)
	if len(fields) == 1 {
		if o, err := ParseOutcome(fields[0]); err == nil {
			return History{o}, nil
		}
		// 連寫字母：每個字元一手
		fields = fields[:0]
		for _, r := range s {
			fields = append(fields, string(r))
		}
	}
	return ParseOutcomes(fields)
}

// ParseOutcomes 逐一解析；任一無效即回傳 errs.Warn。
func ParseOutcomes(items []string) (History, error) {
	h := make(History, 0, len(items))
	for i, it := range items {
		o, err := ParseOutcome(it)
		if err != nil {
			return nil, errs.WrapWithExtra(err, "invalid history", "index="+strconv.Itoa(i))
		}
		h = append(h, o)
	}
	return h, nil
}

// Tail 回傳最近 n 手（共享底層陣列，唯讀使用）。
func (h History) Tail(n int) History {
	if n <= 0 {
		return History{}
	}
	if len(h) <= n {
		return h
	}
	return h[len(h)-n:]
}

// Last 最後一手；空路單回傳 Unknown。
func (h History) Last() Outcome {
	if len(h) == 0 {
		return Unknown
	}
	return h[len(h)-1]
}

// LastDecided 最後一手非和局的結果。
func (h History) LastDecided() Outcome {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i] == Banker || h[i] == Player {
			return h[i]
		}
	}
	return Unknown
}

// Run 尾端連續相同結果的長度與其結果。
func (h History) Run() (Outcome, int) {
	if len(h) == 0 {
		return Unknown, 0
	}
	last := h[len(h)-1]
	n := 0
	for i := len(h) - 1; i >= 0 && h[i] == last; i-- {
		n++
	}
	return last, n
}

// Decided 最後一個和局之後的莊閒片段（跳路判斷只看這一段）。
func (h History) Decided() History {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i] == Tie {
			return h[i+1:]
		}
	}
	return h
}

// Pattern 最近 n 手的字母串；不足 n 手回傳空字串。
func (h History) Pattern(n int) string {
	if n <= 0 || len(h) < n {
		return ""
	}
	var sb strings.Builder
	for _, o := range h[len(h)-n:] {
		sb.WriteString(o.Letter())
	}
	return sb.String()
}

func (h History) String() string {
	return h.Pattern(len(h))
}

// Clone 回傳獨立副本。
func (h History) Clone() History {
	out := make(History, len(h))
	copy(out, h)
	return out
}

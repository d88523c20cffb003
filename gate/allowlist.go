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

package gate

import (
	"slices"
	"strings"
)

// AllowList 可登入的帳號集合。抓取後唯讀。
type AllowList struct {
	ids map[string]struct{}
}

// NewAllowList 建立名單；帳號前後空白會被去除，空白帳號略過。
func NewAllowList(ids ...string) *AllowList {
	l := &AllowList{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			l.ids[id] = struct{}{}
		}
	}
	return l
}

// Empty 空名單：任何帳號都不會通過。
func Empty() *AllowList {
	return NewAllowList()
}

// Contains nil 名單視為空。
func (l *AllowList) Contains(id string) bool {
	if l == nil {
		return false
	}
	_, ok := l.ids[strings.TrimSpace(id)]
	return ok
}

func (l *AllowList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.ids)
}

// IDs 排序後的帳號清單（供管理頁顯示）。
func (l *AllowList) IDs() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.ids))
	for id := range l.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

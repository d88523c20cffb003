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

package dto

import (
	"github.com/zintix-labs/v7lab/brain"
	"github.com/zintix-labs/v7lab/stats"
)

// EstimateResult 推算結果對外輸出的結構
type EstimateResult struct {
	History brain.History `json:"history"` // 完整路單
	brain.Estimate
	Stake brain.Stake `json:"stake"`
	State *RngState   `json:"rng_state,omitempty"` // 未使用亂數時省略
}

// RngState 亂數狀態，可用於重播或接續
type RngState struct {
	Seed      *int64 `json:"seed,omitempty"` // 以種子建立時回傳
	StartB64U string `json:"start_b64u"`     // 推算前
	AfterB64U string `json:"after_b64u"`     // 推算後
}

func NewEstimateResult(h brain.History, e brain.Estimate, st brain.Stake, rs *RngState) EstimateResult {
	if h == nil {
		h = brain.History{}
	}
	return EstimateResult{History: h, Estimate: e, Stake: st, State: rs}
}

// SessionView 目前 session 的儀表板資料
type SessionView struct {
	Identity string            `json:"identity"`
	Room     string            `json:"room,omitempty"`
	Seed     int64             `json:"seed"`
	Result   *EstimateResult   `json:"result,omitempty"`
	Road     *stats.RoadReport `json:"road"`
}

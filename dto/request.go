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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/v7lab/brain"
	"github.com/zintix-labs/v7lab/errs"
)

// HistoryField 接受 JSON 字串 "BBBPP" 或陣列 ["B","banker",...]。
type HistoryField brain.History

func (h *HistoryField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := brain.ParseHistory(s)
		if err != nil {
			return err
		}
		*h = HistoryField(v)
		return nil
	}
	var v brain.History
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*h = HistoryField(v)
	return nil
}

type EstimateRequest struct {
	History   HistoryField `json:"history"`              // 路單（時間順序）
	Seed      *int64       `json:"seed,omitempty"`       // 可選：亂數種子，相同 seed 可重播
	StartB64U string       `json:"start_b64u,omitempty"` // 可選：亂數狀態快照（接續上一次的 after_b64u）
	NoChaos   bool         `json:"no_chaos,omitempty"`   // 可選：關閉斷路判定與和局覆寫
	Unit      string       `json:"unit,omitempty"`       // 可選：每單位注碼金額
}

// DecodeEstimateRequest 會把 HTTP 請求解碼成 EstimateRequest。
//
// 支援：
//   - GET：從 query string 讀取（history/seed/start_b64u/no_chaos/unit），history 為 "BBBPP" 或 "B,B,P"。
//   - POST：從 JSON body 反序列化。
//
// 亂數來源語意（三者至多擇一）：
//   - seed：以該種子建立新的亂數。
//   - start_b64u：從快照還原亂數，用於接續上一次回應的 after_b64u。
//   - no_chaos：不使用亂數，結果只由路單決定。
//   - 皆未提供：由伺服器產生種子，並在回應中回傳以利重播。
//
// 注意：
//   - 這裡只負責解碼與基本型別轉換；路單長度不足時大腦會回傳中性結果，不視為錯誤。
//   - POST 會對 body 做大小限制（1MiB）並開啟 DisallowUnknownFields()。
func DecodeEstimateRequest(r *http.Request) (*EstimateRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}

	req := new(EstimateRequest)

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		h, err := brain.ParseHistory(q.Get("history"))
		if err != nil {
			return nil, err
		}
		req.History = HistoryField(h)

		if s := q.Get("seed"); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid seed: %v", err))
			}
			req.Seed = &v
		}
		req.StartB64U = q.Get("start_b64u")
		if s := q.Get("no_chaos"); s != "" {
			v, err := strconv.ParseBool(s)
			if err != nil {
				return nil, errs.NewWarn("invalid no_chaos value " + err.Error())
			}
			req.NoChaos = v
		}
		req.Unit = q.Get("unit")

	case http.MethodPost:
		// 防止 body 過大（1MiB）
		const maxBody = 1 << 20
		body := io.LimitReader(r.Body, maxBody)
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil {
			return nil, errs.WrapAs(errs.Warn, err, "invalid json")
		}
		// body 只能有一個 JSON 值
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			return nil, errs.NewWarn("invalid json: trailing data after object")
		}

	default:
		return nil, errs.NewWarn("method not allowed")
	}

	if err := req.valid(); err != nil {
		return nil, err
	}
	return req, nil
}

func (req *EstimateRequest) valid() error {
	n := 0
	if req.Seed != nil {
		n++
	}
	if req.StartB64U != "" {
		n++
	}
	if req.NoChaos {
		n++
	}
	if n > 1 {
		return errs.NewWarn("seed, start_b64u and no_chaos are mutually exclusive")
	}
	if req.Unit != "" {
		if _, err := req.UnitOr(decimal.Zero); err != nil {
			return err
		}
	}
	return nil
}

// UnitOr 回傳請求的注碼單位；未提供時回傳 def。
func (req *EstimateRequest) UnitOr(def decimal.Decimal) (decimal.Decimal, error) {
	s := strings.TrimSpace(req.Unit)
	if s == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return def, errs.NewWarn(fmt.Sprintf("invalid unit: %q", req.Unit))
	}
	if !d.IsPositive() {
		return def, errs.NewWarn("unit must > 0")
	}
	return d, nil
}

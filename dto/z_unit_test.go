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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/v7lab/brain"
	"github.com/zintix-labs/v7lab/errs"
)

func TestDecodeEstimateRequestGET(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/estimate?history=BBBPP&seed=42&unit=12.5", nil)
	req, err := DecodeEstimateRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if brain.History(req.History).String() != "BBBPP" {
		t.Fatalf("unexpected history: %v", req.History)
	}
	if req.Seed == nil || *req.Seed != 42 {
		t.Fatalf("unexpected seed: %v", req.Seed)
	}
	u, err := req.UnitOr(decimal.NewFromInt(100))
	if err != nil || !u.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected unit: %v %v", u, err)
	}
}

func TestDecodeEstimateRequestPOST(t *testing.T) {
	for _, body := range []string{
		`{"history":"B,B,B,P,P","no_chaos":true}`,
		`{"history":["B","banker","b","player","P"],"no_chaos":true}`,
		"{\"history\":\"BBBPP\",\"no_chaos\":true}\n",
	} {
		r := httptest.NewRequest(http.MethodPost, "/v1/estimate", strings.NewReader(body))
		req, err := DecodeEstimateRequest(r)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", body, err)
		}
		if brain.History(req.History).String() != "BBBPP" || !req.NoChaos {
			t.Fatalf("%s: unexpected request: %+v", body, req)
		}
		u, _ := req.UnitOr(decimal.NewFromInt(100))
		if !u.Equal(decimal.NewFromInt(100)) {
			t.Fatalf("default unit expected, got %v", u)
		}
	}
}

func TestDecodeEstimateRequestErrors(t *testing.T) {
	bad := []*http.Request{
		httptest.NewRequest(http.MethodPost, "/v1/estimate", strings.NewReader(`{"history":"BB","unknown":1}`)),
		httptest.NewRequest(http.MethodPost, "/v1/estimate", strings.NewReader(`{"history":"BXB"}`)),
		httptest.NewRequest(http.MethodPost, "/v1/estimate", strings.NewReader(`{"history":"BBB"} xyz`)),
		httptest.NewRequest(http.MethodPost, "/v1/estimate", strings.NewReader(`{"history":"BBB"}{"history":"PPP"}`)),
		httptest.NewRequest(http.MethodPost, "/v1/estimate", strings.NewReader(`{"history":"BB","seed":1,"no_chaos":true}`)),
		httptest.NewRequest(http.MethodGet, "/v1/estimate?history=BB&seed=abc", nil),
		httptest.NewRequest(http.MethodGet, "/v1/estimate?history=BB&unit=-1", nil),
		httptest.NewRequest(http.MethodDelete, "/v1/estimate", nil),
	}
	for i, r := range bad {
		_, err := DecodeEstimateRequest(r)
		if errs.Level(err) != errs.Warn {
			t.Fatalf("case %d: expected warn error, got %v", i, err)
		}
	}
}

func TestEstimateResultJSON(t *testing.T) {
	b, err := brain.NewDefault()
	if err != nil {
		t.Fatalf("brain: %v", err)
	}
	h := brain.History{brain.Banker, brain.Banker, brain.Banker, brain.Player, brain.Player}
	e := b.Estimate(h, nil)
	res := NewEstimateResult(h, e, b.Suggest(e, decimal.NewFromInt(100)), nil)

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(res); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m["pick"] != "P" {
		t.Fatalf("expected pick P, got %v", m["pick"])
	}
	if _, ok := m["rng_state"]; ok {
		t.Fatalf("rng_state should be omitted without rng")
	}
	stake, _ := m["stake"].(map[string]any)
	if stake["level"] != "light" || stake["amount"] != "100" {
		t.Fatalf("unexpected stake %v", stake)
	}
}

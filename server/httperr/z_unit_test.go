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

package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zintix-labs/v7lab/errs"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errs.NewWarn("bad"), http.StatusBadRequest},
		{errs.NewDeny("no"), http.StatusUnauthorized},
		{errs.NewFatal("boom"), http.StatusInternalServerError},
		{errs.Wrap(context.DeadlineExceeded, "fetch"), http.StatusGatewayTimeout},
		{context.Canceled, http.StatusRequestTimeout},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := StatusCode(c.err); got != c.want {
			t.Fatalf("%v: want %d got %d", c.err, c.want, got)
		}
	}
}

func TestJSONHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, errs.WrapAs(errs.Warn, errors.New("secret detail"), "invalid json"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var m map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m["error"] != "invalid json" {
		t.Fatalf("unexpected message %q", m["error"])
	}
}

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

package errs

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestWrapKeepsLevel(t *testing.T) {
	inner := NewDeny("bad passcode")
	w := Wrap(inner, "login")
	if w.ErrLv != Deny {
		t.Fatalf("expected deny level, got %s", ErrLv(w.ErrLv))
	}
	if !errors.Is(w, inner) {
		t.Fatalf("expected wrapped error to match inner")
	}
}

func TestWrapForeignIsFatal(t *testing.T) {
	w := Wrap(io.ErrUnexpectedEOF, "read sheet")
	if w.ErrLv != Fatal {
		t.Fatalf("expected fatal level, got %s", ErrLv(w.ErrLv))
	}
	if !errors.Is(w, io.ErrUnexpectedEOF) {
		t.Fatalf("expected cause to be reachable")
	}
}

func TestSentinelIs(t *testing.T) {
	sentinel := NewDeny("unauthorized")
	other := NewDeny("unauthorized")
	if !errors.Is(other, sentinel) {
		t.Fatalf("same level and message should match")
	}
	if errors.Is(NewWarn("unauthorized"), sentinel) {
		t.Fatalf("different level should not match")
	}
}

func TestErrorString(t *testing.T) {
	e := WrapWithExtra(io.EOF, "fetch", "url=x")
	s := e.Error()
	for _, want := range []string{"errlv=fatal", "fetch", "extra: url=x", "cause: EOF"} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %q in %q", want, s)
		}
	}
}

func TestLevel(t *testing.T) {
	if Level(nil) != None {
		t.Fatalf("nil should be None")
	}
	if Level(io.EOF) != Fatal {
		t.Fatalf("foreign error should be Fatal")
	}
	if Level(WrapAs(Warn, io.EOF, "x")) != Warn {
		t.Fatalf("WrapAs should set level")
	}
}

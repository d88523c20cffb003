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

package svrcfg

import (
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/v7lab/brain"
	"github.com/zintix-labs/v7lab/errs"
	"github.com/zintix-labs/v7lab/gate"
	"github.com/zintix-labs/v7lab/server/logger"
	"github.com/zintix-labs/v7lab/session"
)

// SvrCfg server 所需的全部依賴，由呼叫端組好後注入。
type SvrCfg struct {
	Log       *slog.Logger
	Addr      string
	Brain     *brain.Brain
	Gate      *gate.Gate
	Sessions  *session.Store
	BaseUnit  decimal.Decimal // 每單位注碼
	PublicURL string          // 邀請連結的前綴
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}
	if sc.Brain == nil {
		return errs.NewFatal("brain is required")
	}
	if sc.Gate == nil {
		return errs.NewFatal("gate is required")
	}
	if sc.Sessions == nil {
		return errs.NewFatal("session store is required")
	}
	if !sc.BaseUnit.IsPositive() {
		sc.BaseUnit = decimal.NewFromInt(100)
	}
	return nil
}

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

package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/v7lab/errs"
	"github.com/zintix-labs/v7lab/server/api"
	"github.com/zintix-labs/v7lab/server/app"
	"github.com/zintix-labs/v7lab/server/netsvr"
	"github.com/zintix-labs/v7lab/server/svrcfg"
	"github.com/zintix-labs/v7lab/session"
)

// Run 是 server 套件的組裝器與啟動入口：
//  1. 驗證 SvrCfg。
//  2. 以 sCfg.Addr 建立 chi server。
//  3. 註冊 middleware 與路由。
//  4. 與 session 回收一起交給 app.Run()，回傳停止原因。
//
// 所有依賴（logger、brain、gate、session store）都由 SvrCfg 注入；
// 環境變數與 .env 的讀取在 svrcfg.LoadEnv，不在這裡。
func Run(sCfg *svrcfg.SvrCfg) error {
	if err := sCfg.Vaild(); err != nil {
		// logger 可能不可用，直接寫 stderr
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return RunWithSvr(sCfg, netsvr.NewChiServer(sCfg.Addr))
}

// RunWithSvr 與 Run 相同，但由呼叫端注入 NetSvr（自訂 listener、timeout 或測試用 server）。
// svr 為 *netsvr.ChiAdapter 時要求 Ready()。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if err := sCfg.Vaild(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if svr == nil {
		err := errs.NewFatal("svr is required")
		sCfg.Log.Error(err.Error())
		return err
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		err := errs.NewFatal("default server is not ready")
		sCfg.Log.Error(err.Error())
		return err
	}

	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		sCfg.Log.Error("register routes", slog.Any("err", err))
		return err
	}

	a := app.NewWith(svr, session.NewJanitor(sCfg.Sessions, 0)).WithLogger(sCfg.Log)
	if s, ok := svr.(*netsvr.ChiAdapter); ok {
		sCfg.Log.Info("[v7lab] listening on http://localhost" + s.Address())
	} else {
		sCfg.Log.Info("[v7lab] listening")
	}
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
		return err
	}
	return nil
}

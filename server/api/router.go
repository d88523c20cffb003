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

package api

import (
	"log/slog"

	v1 "github.com/zintix-labs/v7lab/server/api/v1"
	"github.com/zintix-labs/v7lab/server/api/web"
	"github.com/zintix-labs/v7lab/server/netsvr"
	"github.com/zintix-labs/v7lab/server/netsvr/middleware"
	"github.com/zintix-labs/v7lab/server/svrcfg"
)

// RegisterRoutes 註冊
func RegisterRoutes(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) error {
	registerMiddleware(svr, sCfg.Log) // 1. 註冊 middleware
	web.Register(svr, sCfg)           // 2. 儀表板頁面
	return registerV1API(svr, sCfg)   // 3. 註冊 v1 api
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetRouter, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover(log))
	svr.Use(middleware.NoStore)
	svr.Use(middleware.Compression)
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) error {
	h, err := v1.NewHandler(sCfg)
	if err != nil {
		return err
	}
	svr.Get("/healthz", h.Health)
	svr.Get("/admin/link", h.AdminLink)
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/estimate", h.Estimate)
		vOne.Post("/estimate", h.Estimate)
		vOne.Get("/report", h.Report)
	})
	return nil
}

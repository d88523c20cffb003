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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zintix-labs/v7lab/server"
	"github.com/zintix-labs/v7lab/server/logger"
	"github.com/zintix-labs/v7lab/server/svrcfg"
)

// 儀表板 server。設定來自 V7_* 環境變數與 .env；旗標只覆寫位址與 log 模式。
func main() {
	sCfg, closeLog, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	err = server.Run(sCfg)
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

type config struct {
	DotEnv  string
	Addr    string
	LogMode string
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, func(), error) {
	cfg := new(config)
	flag.StringVar(&cfg.DotEnv, "env", ".env", "dotenv file (ignored when missing)")
	flag.StringVar(&cfg.Addr, "addr", "", "listen address, overrides V7_ADDR")
	flag.StringVar(&cfg.LogMode, "log-mode", "", "log mode: dev|prod|silence, overrides V7_LOG_MODE")
	flag.Parse()

	e, err := svrcfg.LoadEnv(cfg.DotEnv)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Addr != "" {
		e.Addr = cfg.Addr
	}
	if cfg.LogMode != "" {
		e.LogMode = cfg.LogMode
	}

	mode, err := logger.ParseMode(e.LogMode)
	if err != nil {
		return nil, nil, err
	}
	log, ah := logger.NewAsync(4096, mode)

	sCfg, err := e.Build(log)
	if err != nil {
		ah.Close()
		return nil, nil, err
	}
	return sCfg, ah.Close, nil
}

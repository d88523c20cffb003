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

// Package perf 以 runtime/pprof 包住回測執行，輸出可給 go tool pprof 或 PGO 使用的檔案。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/v7lab/errs"
)

// Dir pprof 檔案寫入路徑
var Dir = "build/profiling"

// RunPProf 依 mode（cpu / heap / allocs）包住 exe；空字串或未知模式直接執行。
func RunPProf(exe func(), mode string) error {
	switch mode {
	case "cpu":
		return PProfCPU(exe)
	case "heap":
		return PProfHeap(exe)
	case "allocs":
		return PProfAllocs(exe)
	default:
		exe()
		return nil
	}
}

// PProfCPU 執行期間做 CPU profiling，輸出 cpu.pprof。
//
//	go run ./cmd/run -p cpu
func PProfCPU(exe func()) error {
	f, err := create("cpu.pprof")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "start cpu profile")
	}
	defer pprof.StopCPUProfile()

	exe()
	return nil
}

// PProfHeap exe 結束後 GC 一次再寫 heap.pprof（in-use memory）。
func PProfHeap(exe func()) error {
	exe()
	runtime.GC()
	return writeProfile("heap", "heap.pprof")
}

// PProfAllocs exe 結束後寫累積配置 allocs.pprof（搭配 -alloc_space 查看）。
func PProfAllocs(exe func()) error {
	exe()
	return writeProfile("allocs", "allocs.pprof")
}

func writeProfile(name, file string) error {
	prof := pprof.Lookup(name)
	if prof == nil {
		return errs.Fatalf("unknown profile %q", name)
	}
	f, err := create(file)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := prof.WriteTo(f, 0); err != nil {
		return errs.Wrap(err, "write "+name+" profile")
	}
	return nil
}

func create(file string) (*os.File, error) {
	if err := os.MkdirAll(Dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "create pprof dir")
	}
	f, err := os.Create(filepath.Join(Dir, file))
	if err != nil {
		return nil, errs.Wrap(err, "create "+file)
	}
	return f, nil
}

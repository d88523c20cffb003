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

package spec

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/v7lab/errs"
	"github.com/zintix-labs/v7lab/spec/presets"
	"gopkg.in/yaml.v3"
)

// GetBrainSettingByYAML
// 讀取 YAML 設定、初始化並執行基本檢查後回傳。
func GetBrainSettingByYAML(data []byte) (*BrainSetting, error) {
	bs := &BrainSetting{}
	if err := yaml.Unmarshal(data, bs); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshal yaml")
	}
	if err := bs.init(); err != nil {
		return nil, errs.Wrap(err, "brain setting initialized err")
	}
	return bs, nil
}

// GetBrainSettingByJSON
// 讀取 JSON 設定、初始化並執行基本檢查後回傳。
func GetBrainSettingByJSON(data []byte) (*BrainSetting, error) {
	bs := &BrainSetting{}
	if err := json.Unmarshal(data, bs); err != nil {
		return nil, errs.Wrap(err, "can not unmarshal json byte")
	}
	if err := bs.init(); err != nil {
		return nil, errs.Wrap(err, "brain setting initialized err")
	}
	return bs, nil
}

// LoadFS 依副檔名（.yaml/.yml/.json）從 fs.FS 讀取設定。
func LoadFS(fsys fs.FS, name string) (*BrainSetting, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errs.Wrap(err, "read brain setting failed: "+name)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return GetBrainSettingByYAML(raw)
	case ".json":
		return GetBrainSettingByJSON(raw)
	default:
		return nil, errs.Fatalf("unsupported brain setting format: %q", name)
	}
}

// LoadFile 讀取本機檔案；path 為空時回傳內嵌的正式設定。
func LoadFile(path string) (*BrainSetting, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	return LoadFS(os.DirFS(dir), base)
}

// Default 回傳內嵌的正式大腦設定。
func Default() (*BrainSetting, error) {
	return LoadFS(presets.FS, presets.Canonical)
}

// MustDefault 給測試與 CLI 使用；內嵌設定壞掉屬於建置錯誤。
func MustDefault() *BrainSetting {
	bs, err := Default()
	if err != nil {
		panic(err)
	}
	return bs
}

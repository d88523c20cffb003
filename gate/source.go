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

package gate

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zintix-labs/v7lab/errs"
)

// AccountColumn 名單表中帳號欄位的標題（比對時不分大小寫）。
const AccountColumn = "Account"

// ErrNoAccountColumn 表格缺少 Account 欄位。
var ErrNoAccountColumn = errs.NewWarn("allow-list sheet has no Account column")

// Source 名單來源。每個 session 只會呼叫一次 Fetch。
type Source interface {
	Fetch(ctx context.Context) (*AllowList, error)
}

// StaticSource 固定名單。
type StaticSource []string

func (s StaticSource) Fetch(context.Context) (*AllowList, error) {
	return NewAllowList(s...), nil
}

// SheetSource 以 HTTP GET 讀取發佈成 CSV 的試算表。
//
// Google Sheets 可用 https://docs.google.com/spreadsheets/d/<id>/export?format=csv。
type SheetSource struct {
	URL     string
	Token   string        // 選填；非空時帶 Authorization: Bearer
	Timeout time.Duration // 0 表示只依 ctx
	Client  *http.Client
}

// NewSheetSource 建立 SheetSource，Client 使用 http.DefaultClient。
func NewSheetSource(url, token string, timeout time.Duration) *SheetSource {
	return &SheetSource{URL: url, Token: token, Timeout: timeout, Client: http.DefaultClient}
}

func (s *SheetSource) Fetch(ctx context.Context) (*AllowList, error) {
	if s.URL == "" {
		return nil, errs.NewFatal("sheet url is empty")
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, errs.Wrap(err, "build sheet request")
	}
	req.Header.Set("Accept", "text/csv")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	cli := s.Client
	if cli == nil {
		cli = http.DefaultClient
	}
	resp, err := cli.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, "fetch sheet")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errs.NewWithExtra(errs.Fatal, "fetch sheet", "status="+resp.Status)
	}
	return ParseCSV(resp.Body)
}

// ParseCSV 讀取第一列為標題的 CSV，取出 Account 欄；其他欄位忽略。
func ParseCSV(r io.Reader) (*AllowList, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoAccountColumn
	}
	if err != nil {
		return nil, errs.WrapAs(errs.Warn, err, "read sheet header")
	}
	col := -1
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff") // Excel 匯出的 BOM
		if strings.EqualFold(strings.TrimSpace(h), AccountColumn) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, ErrNoAccountColumn
	}

	ids := make([]string, 0, 64)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.WrapAs(errs.Warn, err, "read sheet row")
		}
		if col < len(rec) {
			ids = append(ids, rec[col])
		}
	}
	return NewAllowList(ids...), nil
}

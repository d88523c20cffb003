// Package catalog 索引一或多個扁平 fs.FS 內的大腦設定檔，以名稱（檔名去副檔名）取用。
package catalog

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zintix-labs/v7lab/errs"
	"github.com/zintix-labs/v7lab/spec"
	"github.com/zintix-labs/v7lab/spec/presets"
)

var ErrDupName = errs.NewFatal("duplicate brain name")

type Entry struct {
	Name       string
	ConfigName string
}

// Summary 列表用的摘要
type Summary struct {
	Name    string    `json:"name"`
	File    string    `json:"file"`
	Window  int       `json:"window"`
	TieRate float64   `json:"tie_rate"`
	Normal  []float64 `json:"weights_normal"`
	Break   []float64 `json:"weights_break"`
}

type Catalog struct {
	byName map[string]Entry
	names  []string // 用來穩定排序
	config *multiFS
}

// New 索引所有 FS 內的 .yaml/.yml/.json，名稱不分大小寫且不可重複。
func New(cfg ...fs.FS) (*Catalog, error) {
	multFS, err := newMultiFS(cfg...)
	if err != nil {
		return nil, errs.Wrap(err, "can not create catalog")
	}
	c := &Catalog{
		byName: map[string]Entry{},
		config: multFS,
	}
	files := make([]string, 0, len(multFS.index))
	for f := range multFS.index {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		e := Entry{Name: nameOf(f), ConfigName: f}
		if _, ok := c.byName[e.Name]; ok {
			return nil, errs.WrapWithExtra(ErrDupName, "catalog", e.Name)
		}
		c.byName[e.Name] = e
		c.names = append(c.names, e.Name)
	}
	return c, nil
}

// Presets 內嵌設定的目錄
func Presets() (*Catalog, error) {
	return New(presets.FS)
}

func (c *Catalog) Get(name string) (Entry, bool) {
	e, ok := c.byName[normName(name)]
	return e, ok
}

func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Setting 讀取並檢查指定名稱的設定。
func (c *Catalog) Setting(name string) (*spec.BrainSetting, error) {
	e, ok := c.Get(name)
	if !ok {
		return nil, errs.Warnf("brain %q does not exist in catalog", name)
	}
	src, ok := c.config.GetFS(e.ConfigName)
	if !ok {
		return nil, errs.NewWarn("file name does not exist in catalog")
	}
	return spec.LoadFS(src, e.ConfigName)
}

// Summaries 依名稱排序列出所有設定；任何一份壞掉都回傳錯誤。
func (c *Catalog) Summaries() ([]Summary, error) {
	out := make([]Summary, 0, len(c.names))
	for _, n := range c.names {
		bs, err := c.Setting(n)
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{
			Name:    n,
			File:    c.byName[n].ConfigName,
			Window:  bs.Window,
			TieRate: bs.TieRate,
			Normal:  bs.Weights.Normal,
			Break:   bs.Weights.Break,
		})
	}
	return out, nil
}

// Resolve 空字串回傳正式設定；名稱存在於內嵌目錄時取內嵌設定；其餘視為檔案路徑。
func Resolve(ref string) (*spec.BrainSetting, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return spec.Default()
	}
	c, err := Presets()
	if err != nil {
		return nil, err
	}
	if _, ok := c.Get(ref); ok {
		return c.Setting(ref)
	}
	return spec.LoadFile(ref)
}

func normName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func nameOf(file string) string {
	return normName(strings.TrimSuffix(file, filepath.Ext(file)))
}

func isConfigFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".json")
}

type multiFS struct {
	src   []fs.FS
	index map[string]int // name -> src index
}

// newMultiFS 每個 FS 必須是扁平目錄；同一檔名出現在兩個 FS 直接失敗。
func newMultiFS(src ...fs.FS) (*multiFS, error) {
	if len(src) == 0 {
		return nil, errs.NewFatal("no fs provided")
	}
	for i, s := range src {
		if s == nil {
			return nil, errs.NewFatal(fmt.Sprintf("fs[%d] is nil", i))
		}
	}

	m := &multiFS{
		src:   src,
		index: make(map[string]int, 16),
	}
	for i := 0; i < len(src); i++ {
		err := fs.WalkDir(src[i], ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == "." {
					return nil
				}
				return errs.NewFatal(fmt.Sprintf("config FS must be flat (no subdirectories): %q", path))
			}
			if !isConfigFile(path) || strings.HasPrefix(path, ".") {
				return nil
			}
			if prev, ok := m.index[path]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate config %q in fs[%d] and fs[%d]", path, prev, i))
			}
			m.index[path] = i
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *multiFS) GetFS(name string) (fs.FS, bool) {
	if id, ok := m.index[name]; ok {
		return m.src[id], ok
	}
	return nil, false
}

package stats

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/text/message"
)

// BacktestReport 大腦在模擬牌靴上的回測結果
//
// 紀錄時只累加整數與單位數，Done() 一次計算比率與信賴區間
type BacktestReport struct {
	Brain  string `json:"Brain" yaml:"Brain"`
	Seed   int64  `json:"Seed" yaml:"Seed"`
	Shoes  int    `json:"Shoes" yaml:"Shoes"`
	Hands  int    `json:"Hands" yaml:"Hands"`
	Bets   int    `json:"Bets" yaml:"Bets"`     // 押莊閒的手數（含和局退注）
	Hits   int    `json:"Hits" yaml:"Hits"`     // 押中
	Misses int    `json:"Misses" yaml:"Misses"` // 押錯
	Pushes int    `json:"Pushes" yaml:"Pushes"` // 押莊閒開和
	Skips  int    `json:"Skips" yaml:"Skips"`   // 觀望

	TieCalls int `json:"TieCalls" yaml:"TieCalls"`
	TieHits  int `json:"TieHits" yaml:"TieHits"`

	Staked   float64 `json:"Staked" yaml:"Staked"` // 總押注單位
	Net      float64 `json:"Net" yaml:"Net"`       // 淨損益單位
	NetSqSum float64 `json:"-" yaml:"-"`           // 每注損益平方和

	HitRate    PointStat     `json:"HitRate" yaml:"HitRate"`
	TieHitRate PointStat     `json:"TieHitRate" yaml:"TieHitRate"`
	Edge       PointStat     `json:"Edge" yaml:"Edge"` // 每注平均損益（單位）
	Levels     []LevelReport `json:"Levels" yaml:"Levels"`

	isDone bool
}

// LevelReport 依注碼等級分組的命中
type LevelReport struct {
	Level   string    `json:"Level" yaml:"Level"`
	Bets    int       `json:"Bets" yaml:"Bets"`
	Hits    int       `json:"Hits" yaml:"Hits"`
	Misses  int       `json:"Misses" yaml:"Misses"`
	HitRate PointStat `json:"HitRate" yaml:"HitRate"`
}

// Wagers 實際下注次數（莊閒 + 和）
func (b *BacktestReport) Wagers() int {
	return b.Bets + b.TieCalls
}

// Merge 併入另一份（尚未 Done 的）報告
func (b *BacktestReport) Merge(o *BacktestReport) {
	b.Shoes += o.Shoes
	b.Hands += o.Hands
	b.Bets += o.Bets
	b.Hits += o.Hits
	b.Misses += o.Misses
	b.Pushes += o.Pushes
	b.Skips += o.Skips
	b.TieCalls += o.TieCalls
	b.TieHits += o.TieHits
	b.Staked += o.Staked
	b.Net += o.Net
	b.NetSqSum += o.NetSqSum
	for _, ol := range o.Levels {
		found := false
		for i := range b.Levels {
			if b.Levels[i].Level == ol.Level {
				b.Levels[i].Bets += ol.Bets
				b.Levels[i].Hits += ol.Hits
				b.Levels[i].Misses += ol.Misses
				found = true
				break
			}
		}
		if !found {
			b.Levels = append(b.Levels, LevelReport{Level: ol.Level, Bets: ol.Bets, Hits: ol.Hits, Misses: ol.Misses})
		}
	}
}

// Done 計算比率；重複呼叫無作用
func (b *BacktestReport) Done() {
	if b.isDone {
		return
	}
	b.HitRate = pointCP(b.Hits, b.Hits+b.Misses)
	b.TieHitRate = pointCP(b.TieHits, b.TieCalls)
	hat, ci := meanCI(b.Net, b.NetSqSum, b.Wagers(), 0.95)
	b.Edge = PointStat{Hat: hat, CI: ci}
	for i := range b.Levels {
		l := &b.Levels[i]
		l.HitRate = pointCP(l.Hits, l.Hits+l.Misses)
	}
	b.isDone = true
}

func (b *BacktestReport) WriteWith(w io.Writer, rep Render[BacktestReport]) error {
	b.Done()
	return rep.Write(w, b)
}

// Table 回傳 CLI 表格字串
func (b *BacktestReport) Table() string {
	b.Done()
	p := message.NewPrinter(lang)
	msg := map[string]string{
		"Brain":        b.Brain,
		"Seed":         fmt.Sprintf("%d", b.Seed),
		"Shoes":        p.Sprintf("%d", b.Shoes),
		"Hands":        p.Sprintf("%d", b.Hands),
		"Bets":         p.Sprintf("%d", b.Bets),
		"Skips":        p.Sprintf("%d", b.Skips),
		"Pushes":       p.Sprintf("%d", b.Pushes),
		"Hit Rate":     fmtHatCIpct01(b.HitRate.Hat, b.HitRate.CI),
		"Tie Calls":    p.Sprintf("%d", b.TieCalls),
		"Tie Hit Rate": fmtHatCIpct01(b.TieHitRate.Hat, b.TieHitRate.CI),
		"Staked":       p.Sprintf("%.1f", b.Staked),
		"Net":          p.Sprintf("%.1f", b.Net),
		"Edge / Bet":   p.Sprintf("%.4f [%.4f, %.4f]", b.Edge.Hat, b.Edge.CI.Lo, b.Edge.CI.Hi),
	}
	keys := []string{"Brain", "Seed", "Shoes", "Hands", "Bets", "Skips", "Pushes", "Hit Rate", "Tie Calls", "Tie Hit Rate", "Staked", "Net", "Edge / Bet"}
	for _, l := range b.Levels {
		k := "Hit @" + l.Level
		msg[k] = p.Sprintf("%d / %d (%s)", l.Hits, l.Hits+l.Misses, fmtPct01(l.HitRate.Hat))
		keys = append(keys, k)
	}
	return fmtTable("Backtest", keys, msg)
}

// StdOut 印出耗時與結果表格
func (b *BacktestReport) StdOut(w io.Writer, ut time.Duration) {
	fmt.Fprint(w, formatDuration(ut, b.Hands))
	fmt.Fprintln(w, b.Table())
}

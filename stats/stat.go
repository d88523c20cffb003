package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/zintix-labs/v7lab/brain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo" yaml:"Lo"`
	Hi float64 `json:"Hi" yaml:"Hi"`
}

// PointStat 點估計 回傳 估計值 以及信賴區間
type PointStat struct {
	Hat float64 `json:"Hat" yaml:"Hat"`
	CI  CI      `json:"CI" yaml:"CI"`
}

// RoadReport 一條路單的統計
type RoadReport struct {
	Hands       int       `json:"Hands" yaml:"Hands"`
	Banker      int       `json:"Banker" yaml:"Banker"`
	Player      int       `json:"Player" yaml:"Player"`
	Tie         int       `json:"Tie" yaml:"Tie"`
	BankerRate  PointStat `json:"BankerRate" yaml:"BankerRate"`
	PlayerRate  PointStat `json:"PlayerRate" yaml:"PlayerRate"`
	TieRate     PointStat `json:"TieRate" yaml:"TieRate"`
	BankerShare PointStat `json:"BankerShare" yaml:"BankerShare"` // 莊 / (莊+閒)，不含和
	LongBanker  int       `json:"LongBanker" yaml:"LongBanker"`   // 最長莊龍
	LongPlayer  int       `json:"LongPlayer" yaml:"LongPlayer"`   // 最長閒龍
	Current     string    `json:"Current" yaml:"Current"`         // 目前尾端，例如 "B x3"
	Road        string    `json:"Road" yaml:"Road"`
}

// NewRoadReport 統計路單；信賴區間為 95% Clopper–Pearson。
func NewRoadReport(h brain.History) *RoadReport {
	r := &RoadReport{Hands: len(h), Road: h.String()}
	run, prev := 0, brain.Unknown
	for _, o := range h {
		switch o {
		case brain.Banker:
			r.Banker++
		case brain.Player:
			r.Player++
		case brain.Tie:
			r.Tie++
		}
		if o == prev {
			run++
		} else {
			run, prev = 1, o
		}
		switch o {
		case brain.Banker:
			r.LongBanker = max(r.LongBanker, run)
		case brain.Player:
			r.LongPlayer = max(r.LongPlayer, run)
		}
	}
	r.BankerRate = pointCP(r.Banker, r.Hands)
	r.PlayerRate = pointCP(r.Player, r.Hands)
	r.TieRate = pointCP(r.Tie, r.Hands)
	r.BankerShare = pointCP(r.Banker, r.Banker+r.Player)
	if side, n := h.Run(); n > 0 {
		r.Current = fmt.Sprintf("%s x%d", side.Letter(), n)
	}
	return r
}

// Table 回傳 CLI 表格字串
func (r *RoadReport) Table() string {
	p := message.NewPrinter(lang)
	msg := map[string]string{
		"Hands":        p.Sprintf("%d", r.Hands),
		"Banker":       p.Sprintf("%d (%s)", r.Banker, fmtHatCIpct01(r.BankerRate.Hat, r.BankerRate.CI)),
		"Player":       p.Sprintf("%d (%s)", r.Player, fmtHatCIpct01(r.PlayerRate.Hat, r.PlayerRate.CI)),
		"Tie":          p.Sprintf("%d (%s)", r.Tie, fmtHatCIpct01(r.TieRate.Hat, r.TieRate.CI)),
		"Banker Share": fmtHatCIpct01(r.BankerShare.Hat, r.BankerShare.CI),
		"Longest B":    p.Sprintf("%d", r.LongBanker),
		"Longest P":    p.Sprintf("%d", r.LongPlayer),
		"Current":      r.Current,
	}
	keys := []string{"Hands", "Banker", "Player", "Tie", "Banker Share", "Longest B", "Longest P", "Current"}
	return fmtTable("Road", keys, msg)
}

func (r *RoadReport) WriteWith(w io.Writer, rep Render[RoadReport]) error {
	return rep.Write(w, r)
}

// ============================================================
// ** 內部方法 **
// ============================================================

func formatDuration(d time.Duration, hands int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	hps := int(float64(hands) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\nhps : %d hands/sec\n", sec, hps)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\nhps : %d hands/sec\n", m, s, hps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\nhps : %d hands/sec\n", h, m, s, hps)
}

func fmtPct01(x float64) string {
	return fmt.Sprintf("%.2f%%", 100*x)
}

func fmtHatCIpct01(hat float64, ci CI) string {
	return fmt.Sprintf("%s [%s, %s]", fmtPct01(hat), fmtPct01(ci.Lo), fmtPct01(ci.Hi))
}

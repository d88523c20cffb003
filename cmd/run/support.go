package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/zintix-labs/v7lab"
	"github.com/zintix-labs/v7lab/backtest"
	"github.com/zintix-labs/v7lab/brain"
	"github.com/zintix-labs/v7lab/catalog"
	"github.com/zintix-labs/v7lab/sdk/core"
	"github.com/zintix-labs/v7lab/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	worker    int
	shoes     int
	hands     int
	seed      int64
	brainRef  string
	format    string
	pprofmode string
	list      bool
	compare   string
}

func bindVar() {
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.IntVar(&cfg.shoes, "shoes", 10000, "number of shoes")
	flag.IntVar(&cfg.hands, "hands", 70, "hands per shoe")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.brainRef, "brain", "", "embedded brain name (v7, table_only) or yaml/json path")
	flag.BoolVar(&cfg.list, "list", false, "list embedded brain settings and exit")
	flag.StringVar(&cfg.compare, "compare", "", "comma separated embedded brains run on the same shoes, e.g. v7,table_only")
	flag.StringVar(&cfg.format, "format", "table", "output: table, json, yaml")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()

	// given seed illeagel -> default seed
	if cfg.seed < 1 {
		cfg.seed = core.RandomSeed()
	}
}

// 這裡解析並執行回測
func executeBacktest() {
	if cfg.list {
		listBrains()
		return
	}
	cfg.valid() // 基本檢查
	if cfg.compare != "" {
		compareBrains()
		return
	}

	set, err := catalog.Resolve(cfg.brainRef)
	if err != nil {
		log.Fatal(err)
	}
	b, err := brain.New(set)
	if err != nil {
		log.Fatal(err)
	}
	s, err := backtest.NewSimulatorWithSeed(b, cfg.seed)
	if err != nil {
		log.Fatal(err)
	}
	// 至此確保可執行
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)

	showpb := cfg.format == "table"
	if showpb {
		p.Printf("%s[WORKERS:%d] [BRAIN:%s] [SHOES:%d] [HANDS:%d]%s\n", green, cfg.worker, set.Name, cfg.shoes, cfg.shoes*cfg.hands, reset)
	}
	rep, used, err := s.SimMP(cfg.worker, cfg.shoes, cfg.hands, showpb)
	if err != nil {
		log.Fatal(err)
	}
	if showpb {
		rep.StdOut(os.Stdout, used)
		return
	}
	if err := rep.WriteWith(os.Stdout, stats.RenderOf[stats.BacktestReport](cfg.format)); err != nil {
		log.Fatal(err)
	}
}

func (cfg *config) valid() {
	p := message.NewPrinter(language.English)

	if cfg.worker < 1 {
		log.Fatal("value err : workers must > 0")
	}
	if cfg.shoes < 1 {
		log.Fatal("value err : shoes must > 0")
	}
	// 一靴八副牌約 80 手
	if cfg.hands < 1 {
		log.Fatal("value err : hands must > 0")
	}
	if cfg.hands > 90 {
		p.Printf("too much hands for one shoe: %d resized to 90\n", cfg.hands)
		cfg.hands = 90
	}
	switch cfg.format {
	case "table", "json", "yaml":
	default:
		log.Fatalf("value err : unknown format %q", cfg.format)
	}
}

func listBrains() {
	lab, err := v7lab.New()
	if err != nil {
		log.Fatal(err)
	}
	sums, err := lab.Summaries()
	if err != nil {
		log.Fatal(err)
	}
	p := message.NewPrinter(language.English)
	for _, s := range sums {
		p.Printf("%-12s window=%d tie_rate=%.3f normal=%v break=%v\n", s.Name, s.Window, s.TieRate, s.Normal, s.Break)
	}
}

// compareBrains 同一組牌靴依序回測多個內嵌大腦。
func compareBrains() {
	lab, err := v7lab.New()
	if err != nil {
		log.Fatal(err)
	}
	var names []string
	for _, n := range strings.Split(cfg.compare, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	showpb := cfg.format == "table"
	reps, used, err := lab.Compare(names, cfg.worker, cfg.shoes, cfg.hands, cfg.seed, showpb)
	if err != nil {
		log.Fatal(err)
	}
	if !showpb {
		if err := stats.RenderOf[[]*stats.BacktestReport](cfg.format).Write(os.Stdout, &reps); err != nil {
			log.Fatal(err)
		}
		return
	}
	for _, r := range reps {
		r.StdOut(os.Stdout, used/time.Duration(len(reps)))
	}
}

// Package web 提供儀表板頁面：登入、路單操作、推薦與統計。
//
// 所有寫入動作都是 POST 後 303 導回 "/"，由 GET / 重新推算一次並渲染。
package web

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/zintix-labs/v7lab/brain"
	"github.com/zintix-labs/v7lab/errs"
	"github.com/zintix-labs/v7lab/gate"
	"github.com/zintix-labs/v7lab/server/httperr"
	"github.com/zintix-labs/v7lab/server/netsvr"
	"github.com/zintix-labs/v7lab/server/svrcfg"
	"github.com/zintix-labs/v7lab/session"
	"github.com/zintix-labs/v7lab/stats"
)

// 通知文字
const (
	msgUnknownLink = "連結無效，請手動登入"
	msgLoginFirst  = "請先登入"
	msgBadSeed     = "前置路單只能選莊或閒"
	msgEmptySeed   = "請至少選一手前置路單"
)

type Handler struct {
	cfg *svrcfg.SvrCfg
}

func NewHandler(cfg *svrcfg.SvrCfg) *Handler {
	return &Handler{cfg: cfg}
}

// Register 掛上儀表板路由。
func Register(r netsvr.NetRouter, cfg *svrcfg.SvrCfg) {
	h := NewHandler(cfg)
	r.Get("/", h.Index)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Post("/room", h.authorized(h.setRoom))
	r.Post("/road/seed", h.authorized(h.seed))
	r.Post("/road/undo", h.authorized(func(s *session.State, _ *http.Request) error {
		s.Undo()
		return nil
	}))
	r.Post("/road/reset", h.authorized(func(s *session.State, _ *http.Request) error {
		s.ResetRoad()
		return nil
	}))
	r.Post("/road/{outcome}", h.authorized(h.appendOutcome))
	r.Post("/admin/link", h.authorized(h.adminLink))
}

// Index 未登入顯示登入頁（uid 帶入時先嘗試自動登入）；已登入顯示儀表板。
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	var (
		page string
		view *pageView
	)
	err := h.cfg.Sessions.Do(w, r, func(s *session.State) error {
		uid := r.URL.Query().Get("uid")
		if !s.Authorized && uid != "" {
			if h.cfg.Gate.Enter(r.Context(), &s.Access, uid) {
				h.cfg.Log.Debug("gate.enter", slog.String("sid", s.ID))
			} else {
				s.AddFlash(msgUnknownLink)
			}
		}
		// 名單在 session 第一次看到頁面時抓取，失敗就顯示橫幅
		_, _ = h.cfg.Gate.Load(r.Context(), &s.Access)

		if !s.Authorized {
			page, view = "login", h.loginView(s)
			return nil
		}
		s.Refresh(h.cfg.Brain)
		page, view = "dashboard", h.dashboardView(s)
		return nil
	})
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	h.render(w, page, view)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, func(s *session.State, r *http.Request) error {
		id := r.PostFormValue("account")
		if err := h.cfg.Gate.Login(r.Context(), &s.Access, id, r.PostFormValue("passcode")); err != nil {
			s.AddFlash(httperr.Message(err))
			return nil
		}
		h.cfg.Log.Debug("gate.login", slog.String("sid", s.ID))
		return nil
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, func(s *session.State, _ *http.Request) error {
		s.Logout()
		return nil
	})
}

func (h *Handler) setRoom(s *session.State, r *http.Request) error {
	s.Room = strings.TrimSpace(r.PostFormValue("room"))
	return nil
}

// seed 以 s1..s5 下拉選單取代整條路單；空白的格子略過。
func (h *Handler) seed(s *session.State, r *http.Request) error {
	var road brain.History
	for i := 1; i <= session.MaxSeed; i++ {
		v := strings.TrimSpace(r.PostFormValue("s" + strconv.Itoa(i)))
		if v == "" {
			continue
		}
		o, err := brain.ParseOutcome(v)
		if err != nil || o == brain.Tie {
			return errs.NewWarn(msgBadSeed)
		}
		road = append(road, o)
	}
	if len(road) == 0 {
		return errs.NewWarn(msgEmptySeed)
	}
	s.SeedRoad(road)
	return nil
}

func (h *Handler) appendOutcome(s *session.State, r *http.Request) error {
	o, err := brain.ParseOutcome(netsvr.Param(r, "outcome"))
	if err != nil {
		return err
	}
	s.Append(o)
	return nil
}

func (h *Handler) adminLink(s *session.State, r *http.Request) error {
	if !h.cfg.Gate.IsAdmin(&s.Access) {
		return errs.NewDeny("admin only")
	}
	uid := strings.TrimSpace(r.PostFormValue("uid"))
	if uid == "" {
		return errs.NewWarn("uid is required")
	}
	s.AddFlash(gate.InviteLink(h.cfg.PublicURL, uid))
	return nil
}

// ============================================================
// ** 內部方法 **
// ============================================================

type action func(s *session.State, r *http.Request) error

// do 執行動作後導回首頁；動作回傳的錯誤變成通知。
func (h *Handler) do(w http.ResponseWriter, r *http.Request, fn action) {
	err := h.cfg.Sessions.Do(w, r, func(s *session.State) error {
		if err := fn(s, r); err != nil {
			s.AddFlash(httperr.Message(err))
		}
		return nil
	})
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// authorized 未登入時只留下通知
func (h *Handler) authorized(fn action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.do(w, r, func(s *session.State, r *http.Request) error {
			if !s.Authorized {
				return errs.NewDeny(msgLoginFirst)
			}
			return fn(s, r)
		})
	}
}

func (h *Handler) render(w http.ResponseWriter, page string, view *pageView) {
	var b bytes.Buffer
	if err := pages.ExecuteTemplate(&b, page, view); err != nil {
		h.cfg.Log.Error("web.render", slog.String("page", page), slog.Any("err", err))
		httperr.Errs(w, errs.Wrap(err, "render page"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(b.Bytes())
}

// ============================================================
// ** 頁面資料 **
// ============================================================

type bar struct {
	Name  string
	Value float64
}

type pageView struct {
	Flash      []string
	Banner     string
	Identity   string
	Room       string
	Admin      bool
	Est        *brain.Estimate
	Stake      brain.Stake
	Unit       string
	Road       brain.History
	Seeds      []string
	Bars       []bar
	Report     *stats.RoadReport
	MinHistory int
}

func (h *Handler) baseView(s *session.State) *pageView {
	v := &pageView{Flash: s.PopFlash()}
	if s.RosterErr != nil {
		v.Banner = httperr.Message(s.RosterErr)
	}
	return v
}

func (h *Handler) loginView(s *session.State) *pageView {
	return h.baseView(s)
}

func (h *Handler) dashboardView(s *session.State) *pageView {
	v := h.baseView(s)
	v.Identity = s.Identity
	v.Room = s.Room
	v.Admin = h.cfg.Gate.IsAdmin(&s.Access)
	v.Unit = h.cfg.BaseUnit.String()
	v.Road = s.History.Clone()
	v.Report = stats.NewRoadReport(s.History)
	v.MinHistory = h.cfg.Brain.Setting().MinHistory
	for i := 1; i <= session.MaxSeed; i++ {
		v.Seeds = append(v.Seeds, "s"+strconv.Itoa(i))
	}
	if s.Last != nil {
		e := *s.Last
		v.Est = &e
		v.Stake = h.cfg.Brain.Suggest(e, h.cfg.BaseUnit)
		v.Bars = []bar{
			{Name: "牌型表", Value: e.Subs.Table},
			{Name: "長龍", Value: e.Subs.Streak},
			{Name: "跳路", Value: e.Subs.Chop},
			{Name: "反轉", Value: e.Subs.Reversal},
		}
	}
	return v
}

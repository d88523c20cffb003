package v1

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/v7lab/brain"
	"github.com/zintix-labs/v7lab/corefmt"
	"github.com/zintix-labs/v7lab/dto"
	"github.com/zintix-labs/v7lab/errs"
	"github.com/zintix-labs/v7lab/sdk/core"
	"github.com/zintix-labs/v7lab/server/httperr"
	"github.com/zintix-labs/v7lab/server/svrcfg"
	"github.com/zintix-labs/v7lab/session"
	"github.com/zintix-labs/v7lab/stats"
)

// Handler v1 JSON API；所有端點都需要已登入的 session。
type Handler struct {
	cfg *svrcfg.SvrCfg
}

func NewHandler(cfg *svrcfg.SvrCfg) (*Handler, error) {
	if cfg == nil || cfg.Brain == nil || cfg.Sessions == nil {
		return nil, errs.NewFatal("v1 handler requires brain and sessions")
	}
	return &Handler{cfg: cfg}, nil
}

// Estimate
//   - GET 無 history：回傳本 session 目前的推算（儀表板同一份資料）。
//   - GET 帶 history / POST：以請求的路單推算，不改動 session；可用 seed 或 start_b64u 重播。
func (h *Handler) Estimate(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet && !r.URL.Query().Has("history") {
		h.sessionView(w, r)
		return
	}
	h.withAuth(w, r, func(*session.State) (any, error) {
		req, err := dto.DecodeEstimateRequest(r)
		if err != nil {
			return nil, err
		}
		return h.estimate(req)
	})
}

func (h *Handler) sessionView(w http.ResponseWriter, r *http.Request) {
	h.withAuth(w, r, func(s *session.State) (any, error) {
		if s.Last == nil {
			s.Refresh(h.cfg.Brain)
		}
		v := dto.SessionView{
			Identity: s.Identity,
			Room:     s.Room,
			Seed:     s.Seed,
			Road:     stats.NewRoadReport(s.History),
		}
		if s.Last != nil {
			st := h.cfg.Brain.Suggest(*s.Last, h.cfg.BaseUnit)
			res := dto.NewEstimateResult(s.History.Clone(), *s.Last, st, nil)
			v.Result = &res
		}
		return v, nil
	})
}

// estimate 依請求決定亂數來源：no_chaos 不用亂數；start_b64u 從快照接續；其餘用 seed（未給時伺服器產生）。
func (h *Handler) estimate(req *dto.EstimateRequest) (*dto.EstimateResult, error) {
	unit, err := req.UnitOr(h.cfg.BaseUnit)
	if err != nil {
		return nil, err
	}
	road := brain.History(req.History)

	var (
		c  *core.Core
		rs *dto.RngState
	)
	switch {
	case req.NoChaos:
	case req.StartB64U != "":
		c = core.NewSeeded(0)
		if err := corefmt.RestoreB64U(c, req.StartB64U); err != nil {
			return nil, err
		}
		rs = &dto.RngState{StartB64U: req.StartB64U}
	default:
		seed := core.RandomSeed()
		if req.Seed != nil {
			seed = *req.Seed
		}
		c = core.NewSeeded(seed)
		start, err := corefmt.SnapshotB64U(c)
		if err != nil {
			return nil, err
		}
		rs = &dto.RngState{Seed: &seed, StartB64U: start}
	}

	var e brain.Estimate
	if c != nil {
		e = h.cfg.Brain.Estimate(road, c)
		after, err := corefmt.SnapshotB64U(c)
		if err != nil {
			return nil, err
		}
		rs.AfterB64U = after
	} else {
		e = h.cfg.Brain.Estimate(road, nil)
	}
	res := dto.NewEstimateResult(road, e, h.cfg.Brain.Suggest(e, unit), rs)
	return &res, nil
}

// withAuth 未登入回 401；fn 的結果以 JSON 回寫。
func (h *Handler) withAuth(w http.ResponseWriter, r *http.Request, fn func(*session.State) (any, error)) {
	var out any
	err := h.cfg.Sessions.Do(w, r, func(s *session.State) error {
		if !s.Authorized {
			return errs.NewDeny("login required")
		}
		var err error
		out, err = fn(s)
		return err
	})
	if err != nil {
		httperr.Log(h.cfg.Log, "v1", err)
		httperr.JSON(w, err)
		return
	}
	writeJSON(w, out)
}

// writeJSON 先編碼到記憶體，避免寫到一半才出錯
func writeJSON(w http.ResponseWriter, v any) {
	var b bytes.Buffer
	if err := json.NewEncoder(&b).Encode(v); err != nil {
		httperr.JSON(w, errs.Wrap(err, "encode response"))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(b.Bytes())
}

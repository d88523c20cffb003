package v1

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/zintix-labs/v7lab/errs"
	"github.com/zintix-labs/v7lab/gate"
	"github.com/zintix-labs/v7lab/server/httperr"
	"github.com/zintix-labs/v7lab/session"
	"github.com/zintix-labs/v7lab/stats"
)

// Report 本 session 路單統計；?format=yaml 改輸出 YAML。
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	var b bytes.Buffer
	err := h.cfg.Sessions.Do(w, r, func(s *session.State) error {
		if !s.Authorized {
			return errs.NewDeny("login required")
		}
		rep := stats.NewRoadReport(s.History)
		if err := rep.WriteWith(&b, stats.RenderOf[stats.RoadReport](format)); err != nil {
			return errs.Wrap(err, "render report")
		}
		return nil
	})
	if err != nil {
		httperr.Log(h.cfg.Log, "v1.report", err)
		httperr.JSON(w, err)
		return
	}
	if format == "yaml" || format == "yml" {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	_, _ = w.Write(b.Bytes())
}

// Health 存活檢查，不需要登入。
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{"status": "ok", "sessions": h.cfg.Sessions.Len()})
}

// AdminLink GET /admin/link?uid=...，只有管理帳號可用。
func (h *Handler) AdminLink(w http.ResponseWriter, r *http.Request) {
	h.withAuth(w, r, func(s *session.State) (any, error) {
		if !h.cfg.Gate.IsAdmin(&s.Access) {
			return nil, errs.NewDeny("admin only")
		}
		uid := strings.TrimSpace(r.URL.Query().Get("uid"))
		if uid == "" {
			return nil, errs.NewWarn("uid is required")
		}
		return map[string]string{"uid": uid, "link": gate.InviteLink(h.cfg.PublicURL, uid)}, nil
	})
}

package web

import (
	"fmt"
	"html/template"

	"github.com/zintix-labs/v7lab/brain"
)

var funcs = template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	"w":   func(v float64) template.CSS { return template.CSS(fmt.Sprintf("width:%.1f%%", v*100)) },
	"label": func(o brain.Outcome) string {
		switch o {
		case brain.Banker:
			return "莊"
		case brain.Player:
			return "閒"
		case brain.Tie:
			return "和"
		default:
			return "觀望"
		}
	},
	"cls": func(o brain.Outcome) string {
		switch o {
		case brain.Banker:
			return "b"
		case brain.Player:
			return "p"
		case brain.Tie:
			return "t"
		default:
			return "n"
		}
	},
}

var pages = template.Must(template.New("layout").Funcs(funcs).Parse(layoutHTML))

func init() {
	template.Must(pages.New("login").Parse(loginHTML))
	template.Must(pages.New("dashboard").Parse(dashboardHTML))
}

const layoutHTML = `{{define "head"}}<!doctype html>
<html lang="zh-Hant">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width,initial-scale=1" />
  <title>V7 Lab</title>
  <style>
    body { font-family: -apple-system,BlinkMacSystemFont,"Segoe UI",sans-serif; background:#0f172a; color:#e2e8f0; margin:0; }
    .wrap { max-width: 980px; margin: 24px auto; padding: 16px 20px; background:#111827; border:1px solid #1f2937; border-radius:12px; box-shadow:0 12px 50px rgba(0,0,0,0.35); }
    h1 { font-size: 20px; margin: 0 0 12px; }
    h2 { font-size: 15px; margin: 0 0 10px; color:#94a3b8; }
    .row { display:flex; gap:12px; flex-wrap:wrap; }
    .card { flex:1 1 280px; background:#0b1220; border:1px solid #1f2937; border-radius:10px; padding:12px 14px; }
    .toast { background:#1e293b; border-left:4px solid #38bdf8; padding:8px 12px; margin-bottom:8px; border-radius:6px; }
    .banner { background:#450a0a; border-left:4px solid #f87171; padding:8px 12px; margin-bottom:8px; border-radius:6px; }
    input, select, button { background:#0b1220; color:#e2e8f0; border:1px solid #334155; border-radius:6px; padding:6px 10px; font-size:14px; }
    button { cursor:pointer; }
    button.b { background:#7f1d1d; } button.p { background:#1e3a8a; } button.t { background:#14532d; }
    form.inline { display:inline; }
    .big { font-size:40px; font-weight:700; }
    .b { color:#f87171; } .p { color:#60a5fa; } .t { color:#4ade80; } .n { color:#94a3b8; }
    .road span { display:inline-block; width:24px; height:24px; line-height:24px; text-align:center; border-radius:50%; margin:2px; background:#1f2937; font-weight:700; }
    .bar { background:#1f2937; border-radius:6px; height:12px; overflow:hidden; margin:4px 0 10px; }
    .bar > div { height:100%; background:#f87171; }
    .bar.player > div { background:#60a5fa; }
    .muted { color:#64748b; font-size:12px; }
    table { border-collapse:collapse; width:100%; font-size:13px; }
    td { padding:3px 6px; border-bottom:1px solid #1f2937; }
  </style>
</head>
<body>
<div class="wrap">
{{range .Flash}}<div class="toast">{{.}}</div>{{end}}
{{if .Banner}}<div class="banner">{{.Banner}}</div>{{end}}
{{end}}
{{define "foot"}}</div>
</body>
</html>{{end}}`

const loginHTML = `{{template "head" .}}
<h1>V7 Lab</h1>
<div class="card">
  <h2>登入</h2>
  <form method="post" action="/login">
    <p><input name="account" placeholder="帳號" autocomplete="username" required /></p>
    <p><input name="passcode" type="password" placeholder="通關碼" autocomplete="current-password" required /></p>
    <p><button type="submit">進入</button></p>
  </form>
</div>
{{template "foot" .}}`

const dashboardHTML = `{{template "head" .}}
<h1>V7 Lab <span class="muted">{{.Identity}}{{if .Room}} · 房間 {{.Room}}{{end}}</span></h1>
<div class="row">
  <div class="card">
    <h2>推薦</h2>
    {{with .Est}}
      <div class="big {{cls .Pick}}">{{label .Pick}}</div>
      {{if .TieOverride}}<div class="muted">和局覆寫</div>{{end}}
      {{if .StreakBreak}}<div class="muted">長龍斷路</div>{{end}}
      {{if .ChopBreak}}<div class="muted">跳路斷路</div>{{end}}
      {{if .Ready}}
        <div>莊 {{pct .Banker}}</div><div class="bar"><div style="{{w .Banker}}"></div></div>
        <div>閒 {{pct .Player}}</div><div class="bar player"><div style="{{w .Player}}"></div></div>
      {{else}}
        <div class="muted">至少需要 {{$.MinHistory}} 手</div>
      {{end}}
    {{end}}
  </div>
  <div class="card">
    <h2>注碼</h2>
    <div class="big {{cls .Stake.Side}}">{{.Stake.Units}} 單位</div>
    <div>{{.Stake.Level}} · {{.Stake.Amount.String}}（每單位 {{.Unit}}）</div>
  </div>
</div>

<div class="card" style="margin-top:12px">
  <h2>路單</h2>
  <div class="road">{{range .Road}}<span class="{{cls .}}">{{label .}}</span>{{else}}<span class="muted">尚無紀錄</span>{{end}}</div>
  <p>
    <form class="inline" method="post" action="/road/banker"><button class="b">莊</button></form>
    <form class="inline" method="post" action="/road/player"><button class="p">閒</button></form>
    <form class="inline" method="post" action="/road/tie"><button class="t">和</button></form>
    <form class="inline" method="post" action="/road/undo"><button>撤銷</button></form>
    <form class="inline" method="post" action="/road/reset"><button>清空</button></form>
  </p>
  <form method="post" action="/road/seed">
    {{range .Seeds}}<select name="{{.}}"><option value="">-</option><option value="B">莊</option><option value="P">閒</option></select> {{end}}
    <button type="submit">設定前 {{len .Seeds}} 手</button>
  </form>
</div>

{{with .Est}}{{if .Ready}}
<div class="card" style="margin-top:12px">
  <h2>子機率（開莊）</h2>
  {{range $.Bars}}
    <div>{{.Name}} {{pct .Value}}</div><div class="bar"><div style="{{w .Value}}"></div></div>
  {{end}}
  <div class="muted">權重 {{range .Weights}}{{.}} {{end}}</div>
</div>
{{end}}{{end}}

{{with .Report}}
<div class="card" style="margin-top:12px">
  <h2>路單統計</h2>
  <table>
    <tr><td>手數</td><td>{{.Hands}}</td></tr>
    <tr><td>莊</td><td>{{.Banker}} ({{pct .BankerRate.Hat}})</td></tr>
    <tr><td>閒</td><td>{{.Player}} ({{pct .PlayerRate.Hat}})</td></tr>
    <tr><td>和</td><td>{{.Tie}} ({{pct .TieRate.Hat}})</td></tr>
    <tr><td>最長莊龍 / 閒龍</td><td>{{.LongBanker}} / {{.LongPlayer}}</td></tr>
    <tr><td>目前</td><td>{{.Current}}</td></tr>
  </table>
</div>
{{end}}

<div class="row" style="margin-top:12px">
  <div class="card">
    <form method="post" action="/room"><input name="room" value="{{.Room}}" placeholder="房間號" /> <button>設定</button></form>
  </div>
  {{if .Admin}}
  <div class="card">
    <form method="post" action="/admin/link"><input name="uid" placeholder="uid" required /> <button>產生邀請連結</button></form>
  </div>
  {{end}}
  <div class="card">
    <form method="post" action="/logout"><button>登出</button></form>
  </div>
</div>
{{template "foot" .}}`

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"github.com/google/safehtml/template"
)

const layoutHTML = `
{{define "head"}}
<meta charset="utf-8">
<style>
body { font-family: sans-serif; margin: 0; color: #1e293b; }
nav { padding: 12px 32px; border-bottom: 1px solid #e2e8f0; display: flex; gap: 24px; align-items: baseline; }
nav a { color: #1e293b; text-decoration: none; }
main { padding: 24px 32px; }
.runs a { margin-right: 8px; font-size: 13px; color: #475569; }
.runs a.selected, .filter a.selected { font-weight: bold; color: #1d4ed8; }
.filter { margin: 4px 0; font-size: 13px; }
.filter .key { display: inline-block; min-width: 140px; color: #64748b; }
.filter a { margin-right: 8px; color: #475569; }
table { border-collapse: collapse; margin-bottom: 32px; }
th, td { padding: 6px 12px; text-align: left; font-size: 13px; border-bottom: 1px solid #e2e8f0; }
th { color: #64748b; text-transform: uppercase; font-size: 11px; }
.tag { display: inline-block; background: #f1f5f9; border-radius: 3px; padding: 1px 5px; margin: 1px; font-size: 11px; }
.tag .key { color: #64748b; }
.badge { border-radius: 4px; padding: 2px 6px; font-size: 11px; }
.success { background: #f0fdf4; color: #15803d; }
.warning { background: #fefce8; color: #a16207; }
.error { background: #fef2f2; color: #b91c1c; }
.incomplete { background: #fefce8; color: #a16207; }
.other { background: #f9fafb; color: #374151; }
.level-warning { color: #a16207; font-weight: bold; }
.level-error { color: #b91c1c; font-weight: bold; }
.fetch-errors { color: #b91c1c; font-size: 13px; }
.chart-block { margin-bottom: 24px; }
.chart-block .exports { font-size: 12px; }
</style>
{{end}}

{{define "nav"}}
<nav>
  <a href="/"><b>Benchmark report</b></a>
  <span class="runs">
  {{range .}}<a href="{{.URL}}"{{if .Selected}} class="selected"{{end}}>{{.Label}}</a>{{end}}
  </span>
</nav>
{{end}}

{{define "filters"}}
{{range .}}
<div class="filter"><span class="key">{{.Title}}</span>
{{range .Options}}<a href="{{.URL}}"{{if .Selected}} class="selected"{{end}}>{{.Label}}</a>{{end}}
</div>
{{end}}
{{end}}

{{define "status"}}{{if eq .Status "success"}}<span class="badge success">{{.StatusLabel}}</span>{{else if eq .Status "warning"}}<span class="badge warning">{{.StatusLabel}}</span>{{else if eq .Status "error"}}<span class="badge error">{{.StatusLabel}}</span>{{else if eq .Status "incomplete"}}<span class="badge incomplete">{{.StatusLabel}}</span>{{else}}<span class="badge other">{{.StatusLabel}}</span>{{end}}{{end}}

{{define "level"}}{{if eq .Level "error"}}<span class="level-error">{{.Text}}</span>{{else if eq .Level "warning"}}<span class="level-warning">{{.Text}}</span>{{else}}{{.Text}}{{end}}{{end}}
`

const indexHTML = `<!DOCTYPE html>
<html>
<head>
{{template "head"}}
<title>Benchmark runs</title>
</head>
<body>
{{template "nav" .Nav}}
<main>
<p><a href="{{.CompareURL}}">Compare runs</a></p>
{{template "filters" .Filters}}
{{if not .Sections}}<p>No runs match the selected filters.</p>{{end}}
{{range .Sections}}
<h3>{{.Title}}
{{range .Counts}} <span class="badge {{if eq .Status "success"}}success{{else if eq .Status "warning"}}warning{{else if eq .Status "incomplete"}}incomplete{{else}}error{{end}}">{{.Count}} {{.Label}}</span>{{end}}
</h3>
<table>
<thead>
<tr><th colspan="3"></th><th colspan="4">Sequencer</th><th colspan="2">Validator</th></tr>
<tr><th>Test name</th><th>Config</th><th>Status</th><th>Gas/s</th><th>Send txs</th><th>Fork choice</th><th>Get payload</th><th>Gas/s</th><th>New payload</th></tr>
</thead>
<tbody>
{{range .Rows}}
<tr>
<td><a href="{{.CompareURL}}">{{.TestName}}</a></td>
<td>{{range .Tags}}<span class="tag" title="{{.Title}}: {{.Value}}"><span class="key">{{.Title}}:</span> {{.Value}}</span>{{end}}</td>
<td>{{template "status" .}}</td>
<td>{{.SeqGasPerSecond}}</td>
<td>{{.SendTxs}}</td>
<td>{{.ForkChoice}}</td>
<td>{{template "level" .GetPayload}}</td>
<td>{{.ValGasPerSecond}}</td>
<td>{{template "level" .NewPayload}}</td>
</tr>
{{end}}
</tbody>
</table>
{{end}}
</main>
</body>
</html>
`

const compareHTML = `<!DOCTYPE html>
<html>
<head>
{{template "head"}}
<title>Run comparison</title>
</head>
<body>
{{template "nav" .Nav}}
<main>
<div class="filter"><span class="key">Group by</span>
{{range .GroupBy}}<a href="{{.URL}}"{{if .Selected}} class="selected"{{end}}>{{.Label}}</a>{{end}}
</div>
{{template "filters" .Filters}}
{{if .Errors}}<div class="fetch-errors">{{range .Errors}}<p>{{.}}</p>{{end}}</div>{{end}}
{{if not .Charts}}<p>No data for the selected runs.</p>{{end}}
{{range .Charts}}
<div class="chart-block">
{{.SVG}}
<div class="exports"><a href="{{.SVGURL}}">SVG</a> <a href="{{.PNGURL}}">PNG</a></div>
</div>
{{end}}
</main>
<script>
(function() {
  var container = document.querySelector(".chart-block");
  function fit() {
    if (!container) return;
    var w = String(container.clientWidth);
    var u = new URL(window.location.href);
    if (w !== "0" && u.searchParams.get("width") !== w) {
      u.searchParams.set("width", w);
      window.location.replace(u.toString());
    }
  }
  fit();
  var resizeTimer = null;
  window.addEventListener("resize", function() {
    clearTimeout(resizeTimer);
    resizeTimer = setTimeout(fit, 250);
  });

  var charts = Array.prototype.slice.call(document.querySelectorAll("svg.chart"));
  function show(block) {
    charts.forEach(function(svg) {
      svg.querySelectorAll(".hover-frame").forEach(function(f) {
        f.setAttribute("visibility", f.getAttribute("data-block") === block ? "visible" : "hidden");
      });
    });
  }
  charts.forEach(function(svg) {
    var overlay = svg.querySelector(".overlay");
    if (!overlay) return;
    var frames = Array.prototype.slice.call(svg.querySelectorAll(".hover-frame"));
    overlay.addEventListener("mousemove", function(e) {
      var r = overlay.getBoundingClientRect();
      var x = (e.clientX - r.left) * overlay.width.baseVal.value / r.width;
      var best = null, dist = Infinity;
      frames.forEach(function(f) {
        var d = Math.abs(parseFloat(f.getAttribute("data-x")) - x);
        if (d < dist) { dist = d; best = f; }
      });
      if (best) show(best.getAttribute("data-block"));
    });
    overlay.addEventListener("mouseleave", function() { show(null); });
  });
})();
</script>
</body>
</html>
`

var (
	indexTmpl   = template.Must(template.Must(template.New("index").Parse(layoutHTML)).Parse(indexHTML))
	compareTmpl = template.Must(template.Must(template.New("compare").Parse(layoutHTML)).Parse(compareHTML))
)

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/base/benchreport/benchproc"
	"github.com/base/benchreport/benchrun"
	"github.com/base/benchreport/benchunit"
)

// index serves the run list of one benchmark run. The root path
// redirects to the latest benchmark run.
func (a *App) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		http.Redirect(w, r, "/"+benchrun.LatestAlias, http.StatusFound)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/")
	if strings.ContainsAny(id, "/.") {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cat, err := a.loadCatalog(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}
	scope, ok := cat.Scope(id)
	if !ok {
		http.Error(w, "unknown benchmark run "+id, http.StatusNotFound)
		return
	}

	path := "/" + id
	sel := selection(r, benchproc.NewSelection(benchrun.RoleKey))
	res := benchproc.Resolve(scope, sel, nil, benchproc.Any)
	data := &indexData{
		Nav:        navLinks(cat, id, func(b string) string { return "/" + b }),
		CompareURL: pageURL("/run-comparison", id, benchproc.NewSelection(benchrun.RoleKey)),
		Filters:    filterGroups(res, sel, benchproc.Any, func(s benchproc.Selection) string { return pageURL(path, id, s) }),
		Sections:   sections(res.Matched, benchproc.Keys(res.Variables), id),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		serverError(w, r, err)
	}
}

type indexData struct {
	Nav        []link
	CompareURL string
	Filters    []filterGroup
	Sections   []section
}

// A link is one choice of a selector.
type link struct {
	Label    string
	URL      string
	Selected bool
}

// A filterGroup is the choices of one variable.
type filterGroup struct {
	Key     string
	Title   string
	Options []link
}

// navLinks lists the benchmark runs of cat, "latest" first.
func navLinks(cat *benchrun.Catalog, current string, url func(string) string) []link {
	links := []link{{Label: "Latest", URL: url(benchrun.LatestAlias), Selected: current == benchrun.LatestAlias}}
	for _, b := range cat.BenchmarkRuns() {
		links = append(links, link{Label: b.Summary(), URL: url(b.ID), Selected: current == b.ID})
	}
	return links
}

// filterGroups lists the valid values of each variable of res other
// than the group-by key. In Any mode each group starts with a choice
// that clears the variable.
func filterGroups(res *benchproc.Resolution, sel benchproc.Selection, mode benchproc.Mode, url func(benchproc.Selection) string) []filterGroup {
	var groups []filterGroup
	for _, k := range benchproc.Keys(res.Options) {
		g := filterGroup{Key: k, Title: benchunit.TitleCase(k)}
		if mode == benchproc.Any {
			g.Options = append(g.Options, link{
				Label:    "Any",
				URL:      url(sel.With(k, benchproc.AnyValue)),
				Selected: res.Selected(k) == "",
			})
		}
		for _, v := range res.Options[k] {
			s := benchrun.ValueString(v)
			g.Options = append(g.Options, link{
				Label:    valueLabel(k, v),
				URL:      url(sel.With(k, s)),
				Selected: res.Selected(k) == s,
			})
		}
		groups = append(groups, g)
	}
	return groups
}

// valueLabel formats configuration value v of key k for display.
func valueLabel(k string, v interface{}) string {
	if k == benchrun.GasLimitKey {
		if f, ok := benchrun.Number(v); ok {
			return benchunit.Format(f, benchunit.Gas)
		}
	}
	return benchunit.Label(benchrun.ValueString(v))
}

// A section is the runs sharing one gas limit.
type section struct {
	Title  string
	Counts []statusCount
	Rows   []runRow
}

type statusCount struct {
	Status benchrun.Status
	Label  string
	Count  int
}

type tag struct {
	Title, Value string
}

// A level is a value shown with threshold emphasis.
type level struct {
	Text  string
	Level string
}

type runRow struct {
	TestName    string
	CompareURL  string
	Tags        []tag
	Status      benchrun.Status
	StatusLabel string

	SeqGasPerSecond string
	SendTxs         string
	ForkChoice      string
	GetPayload      level
	ValGasPerSecond string
	NewPayload      level
}

var statusLabels = map[benchrun.Status]string{
	benchrun.StatusSuccess:    "Passed",
	benchrun.StatusFatal:      "Errored",
	benchrun.StatusError:      "Failed",
	benchrun.StatusWarning:    "Warning",
	benchrun.StatusIncomplete: "In Progress",
}

var badgeLabels = map[benchrun.Status]string{
	benchrun.StatusSuccess:    "Success",
	benchrun.StatusError:      "Error",
	benchrun.StatusWarning:    "Warning",
	benchrun.StatusIncomplete: "In Progress",
}

// countOrder is the order status counts are listed in.
var countOrder = []benchrun.Status{
	benchrun.StatusSuccess,
	benchrun.StatusFatal,
	benchrun.StatusError,
	benchrun.StatusWarning,
	benchrun.StatusIncomplete,
}

// sections groups runs by gas limit, smallest first. Runs without a
// numeric gas limit come last.
func sections(runs []benchrun.Run, varying []string, benchmarkRun string) []section {
	if len(runs) == 0 {
		return nil
	}
	sorted := append([]benchrun.Run(nil), runs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return gasLimit(&sorted[i]) < gasLimit(&sorted[j])
	})

	titles := make([]string, len(sorted))
	index := make([]int, len(sorted))
	for i := range sorted {
		titles[i] = gasLimitTitle(&sorted[i])
		index[i] = i
	}
	tab := new(table.Builder).Add("gasLimit", titles).Add("index", index).Done()
	g := table.GroupBy(tab, "gasLimit")

	var out []section
	for _, gid := range g.Tables() {
		rows := g.Table(gid).MustColumn("index").([]int)
		sec := section{Title: gid.Label().(string)}
		var secRuns []benchrun.Run
		for _, i := range rows {
			secRuns = append(secRuns, sorted[i])
			sec.Rows = append(sec.Rows, newRunRow(&sorted[i], varying, benchmarkRun))
		}
		counts := benchrun.CountStatuses(secRuns)
		for _, st := range countOrder {
			if n := counts[st]; n > 0 || st == benchrun.StatusSuccess {
				sec.Counts = append(sec.Counts, statusCount{Status: st, Label: statusLabels[st], Count: n})
			}
		}
		out = append(out, sec)
	}
	return out
}

func gasLimit(r *benchrun.Run) float64 {
	if v, ok := benchrun.Number(r.TestConfig[benchrun.GasLimitKey]); ok && !math.IsNaN(v) {
		return v
	}
	return math.Inf(1)
}

func gasLimitTitle(r *benchrun.Run) string {
	v, ok := r.TestConfig[benchrun.GasLimitKey]
	if !ok {
		return "No gas limit"
	}
	return valueLabel(benchrun.GasLimitKey, v)
}

func newRunRow(r *benchrun.Run, varying []string, benchmarkRun string) runRow {
	st := benchrun.StatusOf(r)
	row := runRow{
		TestName:    r.TestName,
		Status:      st,
		StatusLabel: badgeLabels[st],
	}
	if row.StatusLabel == "" {
		row.StatusLabel = string(st)
	}

	// Compare the runs sharing this run's configuration.
	sel := benchproc.NewSelection(benchrun.RoleKey)
	for _, k := range varying {
		v, ok := r.TestConfig[k]
		if !ok {
			continue
		}
		row.Tags = append(row.Tags, tag{Title: benchunit.TitleCase(k), Value: valueLabel(k, v)})
		if k != benchrun.RoleKey {
			sel = sel.With(k, benchrun.ValueString(v))
		}
	}
	row.CompareURL = pageURL("/run-comparison", benchmarkRun, sel)

	const missing = "-"
	row.SeqGasPerSecond, row.SendTxs, row.ForkChoice, row.ValGasPerSecond = missing, missing, missing, missing
	row.GetPayload.Text, row.NewPayload.Text = missing, missing
	if r.Result == nil {
		return row
	}
	if m := r.Result.SequencerMetrics; m != nil {
		row.SeqGasPerSecond = benchunit.Format(m.GasPerSecond, benchunit.GasPerSecond)
		if m.SendTxs != nil {
			row.SendTxs = benchunit.Format(*m.SendTxs, benchunit.Seconds)
		}
		row.ForkChoice = benchunit.Format(m.ForkChoiceUpdated, benchunit.Seconds)
		row.GetPayload = level{
			Text:  benchunit.Format(m.GetPayload, benchunit.Seconds),
			Level: thresholdLevel(m.GetPayload, r.Thresholds, "latency/get_payload"),
		}
	}
	if m := r.Result.ValidatorMetrics; m != nil {
		row.ValGasPerSecond = benchunit.Format(m.GasPerSecond, benchunit.GasPerSecond)
		row.NewPayload = level{
			Text:  benchunit.Format(m.NewPayload, benchunit.Seconds),
			Level: thresholdLevel(m.NewPayload, r.Thresholds, "latency/new_payload"),
		}
	}
	return row
}

// thresholdLevel returns "error" or "warning" if seconds exceeds the
// corresponding limit of metric in t, which is in nanoseconds.
func thresholdLevel(seconds float64, t *benchrun.Thresholds, metric string) string {
	if t == nil {
		return ""
	}
	if limit := t.Error[metric]; limit > 0 && seconds > limit/1e9 {
		return "error"
	}
	if limit := t.Warning[metric]; limit > 0 && seconds > limit/1e9 {
		return "warning"
	}
	return ""
}

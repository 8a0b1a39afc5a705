package httpapi

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JFdC77/job-search-assistant/internal/config"
	"github.com/JFdC77/job-search-assistant/internal/domain"
	"github.com/JFdC77/job-search-assistant/internal/rank"
	"github.com/JFdC77/job-search-assistant/internal/search"
)

//go:embed web/*.html
var webFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"scoreClass": scoreClass,
	"pct":        pct,
	"date":       func(t time.Time) string { return t.Format("02.01.2006") },
}).ParseFS(webFS, "web/*.html"))

func scoreClass(score int) string {
	switch {
	case score >= 90:
		return "s-top"
	case score >= 80:
		return "s-good"
	default:
		return ""
	}
}

func pct(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", v)
}

type choice struct {
	Value    string
	Selected bool
}

type dashboardView struct {
	Results   domain.ResultSet
	Status    search.Status
	Locations []choice
	Keywords  []choice
	MinScore  int
	Ascending bool
}

type DashboardHandler struct {
	Search *search.Service
	CfgVal *atomic.Value // config.Config
}

// defaults are the configured filters, applied until the form is submitted (f=1).
func defaults(cfg config.Config) rank.Options {
	return rank.Options{Locations: cfg.Filters.Locations, MinScore: cfg.Filters.MinScore}
}

func (h DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	cfg := currentConfig(h.CfgVal)
	q := r.URL.Query()

	base := rank.Options{}
	if !q.Has("f") {
		base = defaults(cfg)
	}
	opt, err := rankOptions(q, base)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := dashboardView{
		Results:   h.Search.Results(r.Context(), opt),
		Status:    h.Search.Status(),
		Locations: choices(cfg.Filters.LocationChoices, opt.Locations),
		Keywords:  choices(append(append([]string{}, cfg.Matching.HighValue.Keywords...), cfg.Matching.MediumValue.Keywords...), opt.Keywords),
		MinScore:  opt.MinScore,
		Ascending: opt.Reverse,
	}
	render(w, "dashboard.html", view)
}

func (h DashboardHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		http.NotFound(w, r)
		return
	}
	l, ok := h.Search.Listing(r.Context(), r.URL.Query().Get("run"), id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	render(w, "detail.html", l)
}

// RunSearch starts a search from the dashboard button and redirects back.
func (h DashboardHandler) RunSearch(w http.ResponseWriter, r *http.Request) {
	err := h.Search.Start(currentConfig(h.CfgVal), RequestIDFrom(r.Context()))
	if err != nil && !errors.Is(err, search.ErrRunning) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func choices(all, selected []string) []choice {
	out := make([]choice, 0, len(all))
	for _, v := range all {
		c := choice{Value: v}
		for _, s := range selected {
			if strings.EqualFold(strings.TrimSpace(s), v) {
				c.Selected = true
				break
			}
		}
		out = append(out, c)
	}
	return out
}

func render(w http.ResponseWriter, name string, data any) {
	var b strings.Builder
	if err := pages.ExecuteTemplate(&b, name, data); err != nil {
		slog.Error("render", "template", name, "err", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}

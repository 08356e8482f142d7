package server

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/text/message"

	"github.com/sells-group/fraud-dashboard/internal/dashboard"
)

type navItem struct {
	Slug   string
	Title  string
	Active bool
}

type pageData struct {
	Nav      []navItem
	Page     *dashboard.Page
	Query    dashboard.Query
	Snapshot string
	Columns  []string
	About    template.HTML
	Prev     string
	Next     string
	Export   string
}

func templateFuncs(p *message.Printer) template.FuncMap {
	return template.FuncMap{
		"num":          func(n int) string { return p.Sprintf("%d", n) },
		"float":        func(f float64) string { return p.Sprintf("%.3f", f) },
		"pct":          func(f float64) string { return p.Sprintf("%.1f%%", f*100) },
		"waterfallURL": waterfallURL,
		"globalURL":    globalURL,
		"downloadURL":  downloadURL,
		"deref":        func(f *float64) float64 { return *f },
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	view, err := dashboard.ParseView(chi.URLParam(r, "view"))
	if err != nil {
		http.Error(w, "unknown view", http.StatusNotFound)
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	page, err := s.snap.Render(view, q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data := pageData{
		Page:     page,
		Query:    q,
		Snapshot: s.snap.ID,
		Columns:  s.snap.Table.Columns,
	}
	for _, v := range dashboard.Views {
		data.Nav = append(data.Nav, navItem{Slug: v.Slug(), Title: v.Title(), Active: v == view})
	}
	if page.About != nil {
		// Rendered from the embedded or operator-supplied markdown document.
		data.About = template.HTML(page.About.HTML)
	}
	if ex := page.Explorer; ex != nil {
		data.Export = "/api/providers/export.csv?" + filterValues(q, 0).Encode()
		if ex.Offset > 0 {
			data.Prev = "?" + filterValues(q, max(ex.Offset-ex.Limit, 0)).Encode()
		}
		if ex.Offset < ex.Total && ex.Limit < ex.Total-ex.Offset {
			data.Next = "?" + filterValues(q, ex.Offset+ex.Limit).Encode()
		}
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		s.log.Error("template error", zap.String("view", view.Slug()), zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func filterValues(q dashboard.Query, offset int) url.Values {
	v := url.Values{}
	v.Set("label", string(q.Filter.Label))
	v.Set("min_claims", strconv.Itoa(q.Filter.MinClaims))
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if offset > 0 {
		v.Set("offset", strconv.Itoa(offset))
	}
	return v
}

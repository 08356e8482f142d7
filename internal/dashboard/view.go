package dashboard

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrUnknownView is returned for a view outside the closed set below.
var ErrUnknownView = eris.New("unknown view")

// View is one of the five dashboard sections.
type View int

const (
	ViewOverview View = iota
	ViewEDA
	ViewExplorer
	ViewExplainability
	ViewAbout
)

// Views lists every view in navigation order.
var Views = []View{ViewOverview, ViewEDA, ViewExplorer, ViewExplainability, ViewAbout}

// Slug returns the URL path segment of the view.
func (v View) Slug() string {
	switch v {
	case ViewOverview:
		return "overview"
	case ViewEDA:
		return "eda"
	case ViewExplorer:
		return "explorer"
	case ViewExplainability:
		return "explainability"
	case ViewAbout:
		return "about"
	default:
		return ""
	}
}

// Title returns the navigation label.
func (v View) Title() string {
	switch v {
	case ViewOverview:
		return "Overview"
	case ViewEDA:
		return "EDA & Feature Insights"
	case ViewExplorer:
		return "Provider Explorer"
	case ViewExplainability:
		return "Model Explainability"
	case ViewAbout:
		return "About / Docs"
	default:
		return ""
	}
}

func (v View) String() string {
	if s := v.Slug(); s != "" {
		return s
	}
	return "View(" + strconv.Itoa(int(v)) + ")"
}

// Valid reports whether v is one of the defined views.
func (v View) Valid() bool {
	return v >= ViewOverview && v <= ViewAbout
}

// ParseView maps a slug to its View. An empty slug selects the overview.
func ParseView(s string) (View, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ViewOverview, nil
	}
	for _, v := range Views {
		if v.Slug() == s {
			return v, nil
		}
	}
	return 0, eris.Wrapf(ErrUnknownView, "dashboard: %q", s)
}

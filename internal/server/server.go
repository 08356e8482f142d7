// Package server exposes the dashboard snapshot over HTTP: HTML views,
// JSON projections, plot images and downloads.
package server

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/time/rate"

	"github.com/sells-group/fraud-dashboard/internal/dashboard"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures the HTTP surface.
type Options struct {
	RateLimit   float64 // requests per second on /api and /downloads; 0 disables
	RateBurst   int
	CORSOrigins []string
}

// Server serves one immutable snapshot.
type Server struct {
	snap    *dashboard.Snapshot
	opts    Options
	log     *zap.Logger
	tmpl    *template.Template
	limiter *rate.Limiter
	router  chi.Router
}

// New builds the router for snap.
func New(snap *dashboard.Snapshot, opts Options) (*Server, error) {
	s := &Server{
		snap: snap,
		opts: opts,
		log:  zap.L().With(zap.String("component", "server")),
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	tmpl, err := template.New("").Funcs(templateFuncs(message.NewPrinter(language.English))).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, eris.Wrap(err, "server: parse templates")
	}
	s.tmpl = tmpl

	s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	// HTML views
	r.Get("/", s.handlePage)
	r.Get("/views/{view}", s.handlePage)

	// Plot images
	r.Get("/artifacts/waterfall/{index}", s.handleWaterfall)
	r.Get("/artifacts/global/{name}", s.handleGlobal)

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Get("/downloads/{name}", s.handleDownload)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.corsOrigins(),
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			ExposedHeaders: []string{"Content-Disposition"},
			MaxAge:         300,
		}))
		r.Use(s.rateLimit)

		r.Get("/views/{view}", s.handleAPIView)
		r.Get("/providers", s.handleProviders)
		r.Get("/providers/export.csv", s.handleExport)
		r.Get("/providers/export.xlsx", s.handleExport)
		r.Get("/providers/{id}", s.handleProvider)
	})

	s.router = r
}

func (s *Server) corsOrigins() []string {
	if len(s.opts.CORSOrigins) == 0 {
		return []string{"*"}
	}
	return s.opts.CORSOrigins
}

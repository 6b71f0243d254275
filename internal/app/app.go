package app

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "clinica-ia/docs" // registers the OpenAPI document with swag
	"clinica-ia/internal/config"
	"clinica-ia/internal/database"
	"clinica-ia/internal/handlers"
	"clinica-ia/internal/logger"
	"clinica-ia/internal/metrics"
	"clinica-ia/internal/middleware"
	"clinica-ia/internal/routes"
)

// App is one assembled instance of the service
type App struct {
	cfg     *config.Config
	log     *logrus.Logger
	metrics *metrics.Metrics
	routes  []routes.Route
	handler http.Handler
}

// Option customises New
type Option func(*options)

type options struct {
	log *logrus.Logger
	db  database.Pinger
}

// WithLogger sets the logger used for access logs and panics
func WithLogger(log *logrus.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithDatabase attaches the pool checked by /readyz
func WithDatabase(db database.Pinger) Option {
	return func(o *options) { o.db = db }
}

// New assembles the application: routes, metrics, CORS and middleware.
// Every call builds its own mux and registry; instances share no mutable state.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Discard()
	}

	a := &App{cfg: cfg, log: o.log}

	health := handlers.NewHealthHandler(o.db, cfg.App.ModelPath)

	var (
		instrument routes.Instrumenter
		metricsH   http.Handler
		docsH      http.Handler
	)
	if cfg.Server.MetricsEnabled {
		a.metrics = metrics.New()
		instrument = a.metrics.Instrument
		metricsH = a.metrics.Handler()
	}
	if cfg.Server.SwaggerEnabled {
		docsH = httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))
	}

	mux := http.NewServeMux()
	table, err := routes.Register(mux, instrument,
		routes.RecommendationBlueprint(health),
		routes.OpsBlueprint(health, metricsH, docsH),
	)
	if err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}
	a.routes = table

	a.handler = middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging(a.log),
		middleware.Recover(a.log),
		middleware.CORS(cfg.CORS),
	)

	return a, nil
}

// Handler returns the fully wrapped HTTP handler
func (a *App) Handler() http.Handler {
	return a.handler
}

// Routes returns a copy of the method+path route table
func (a *App) Routes() []routes.Route {
	out := make([]routes.Route, len(a.routes))
	copy(out, a.routes)
	return out
}

// Config returns the configuration the app was built with
func (a *App) Config() *config.Config {
	return a.cfg
}

// Server returns an http.Server bound to the configured address and timeouts
func (a *App) Server() *http.Server {
	return &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           a.handler,
		ReadTimeout:       a.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: a.cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      a.cfg.Server.WriteTimeout,
		IdleTimeout:       a.cfg.Server.IdleTimeout,
		ErrorLog:          newServerErrorLog(a.log),
	}
}

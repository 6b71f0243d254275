package routes

import (
	"fmt"
	"net/http"
	"path"
	"slices"
	"strings"

	"clinica-ia/internal/handlers"
	"clinica-ia/internal/utils"
)

// Route maps a method and path to a handler
type Route struct {
	Method  string
	Path    string
	Name    string
	Handler http.Handler
}

// Pattern returns the ServeMux pattern for the route
func (r Route) Pattern() string {
	return r.Method + " " + r.Path
}

// Blueprint is a named group of routes mounted under a common prefix
type Blueprint struct {
	Name   string
	Prefix string
	Routes []Route
}

// UnmatchedRoute labels requests answered by the 404/405 fallback
const UnmatchedRoute = "unmatched"

// Instrumenter wraps a route handler, e.g. with metrics
type Instrumenter func(route string, h http.Handler) http.Handler

// Register mounts every blueprint on mux and returns the flattened route table.
// Paths already registered make it fail instead of panicking inside ServeMux.
func Register(mux *http.ServeMux, instrument Instrumenter, blueprints ...Blueprint) ([]Route, error) {
	var table []Route
	seen := make(map[string]string)

	for _, bp := range blueprints {
		for _, rt := range bp.Routes {
			full := rt
			full.Path = joinPath(bp.Prefix, rt.Path)
			if full.Name == "" {
				full.Name = bp.Name + "." + full.Path
			} else {
				full.Name = bp.Name + "." + rt.Name
			}

			if owner, ok := seen[full.Pattern()]; ok {
				return nil, fmt.Errorf("route %q from blueprint %q already registered by %q", full.Pattern(), bp.Name, owner)
			}
			seen[full.Pattern()] = bp.Name

			h := full.Handler
			if instrument != nil {
				h = instrument(full.Path, h)
			}
			mux.Handle(full.Pattern(), h)
			table = append(table, full)
		}
	}

	// Catch-all so unmatched requests answer with JSON instead of the default text errors
	var fb http.Handler = fallback(table)
	if instrument != nil {
		fb = instrument(UnmatchedRoute, fb)
	}
	mux.Handle("/", fb)

	return table, nil
}

// fallback answers requests no pattern matched: 405 when the path exists
// in the table under another method, 404 otherwise
func fallback(table []Route) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var allowed []string
		for _, rt := range table {
			if !matchesPath(rt.Path, r.URL.Path) || slices.Contains(allowed, rt.Method) {
				continue
			}
			allowed = append(allowed, rt.Method)
			if rt.Method == http.MethodGet && !slices.Contains(allowed, http.MethodHead) {
				allowed = append(allowed, http.MethodHead)
			}
		}

		if len(allowed) == 0 {
			utils.NotFound(w, r)
			return
		}
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		utils.WriteErrorResponse(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), "")
	})
}

func matchesPath(pattern, p string) bool {
	if strings.HasSuffix(pattern, "/") {
		return strings.HasPrefix(p, pattern)
	}
	return pattern == p
}

// RecommendationBlueprint holds the public routes of the recommendation service
func RecommendationBlueprint(health *handlers.HealthHandler) Blueprint {
	return Blueprint{
		Name: "recommendation",
		Routes: []Route{
			{Method: http.MethodGet, Path: "/health", Name: "health_check", Handler: http.HandlerFunc(health.HealthCheck)},
		},
	}
}

// OpsBlueprint holds the probe, metrics and documentation routes.
// metrics and docs are optional and skipped when nil.
func OpsBlueprint(health *handlers.HealthHandler, metrics http.Handler, docs http.Handler) Blueprint {
	bp := Blueprint{
		Name: "ops",
		Routes: []Route{
			{Method: http.MethodGet, Path: "/livez", Name: "liveness", Handler: http.HandlerFunc(health.LivenessCheck)},
			{Method: http.MethodGet, Path: "/readyz", Name: "readiness", Handler: http.HandlerFunc(health.ReadinessCheck)},
		},
	}
	if metrics != nil {
		bp.Routes = append(bp.Routes, Route{Method: http.MethodGet, Path: "/metrics", Name: "metrics", Handler: metrics})
	}
	if docs != nil {
		bp.Routes = append(bp.Routes, Route{Method: http.MethodGet, Path: "/swagger/", Name: "swagger", Handler: docs})
	}
	return bp
}

func joinPath(prefix, p string) string {
	if prefix == "" || prefix == "/" {
		return p
	}
	joined := path.Join(prefix, p)
	if len(p) > 1 && p[len(p)-1] == '/' {
		joined += "/"
	}
	return joined
}

package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"farmview-proxy/internal/config"
)

// Route binds one inbound path to a Farm Core endpoint template. Segments
// of the form ":name" in Endpoint are filled from the matching path parameter.
type Route struct {
	Path     string
	Methods  []string
	Endpoint string
	// Method, when set, replaces the inbound method on the forwarded request.
	Method  string
	Timeout time.Duration
	Headers map[string]string
}

var (
	get       = []string{http.MethodGet}
	post      = []string{http.MethodPost}
	getPut    = []string{http.MethodGet, http.MethodPut}
	getPutDel = []string{http.MethodGet, http.MethodPut, http.MethodDelete}
	crud      = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}
)

// Routes returns the gateway route table with budgets taken from t.
func Routes(t config.TimeoutsConfig) []Route {
	def, power, migrations := t.Default(), t.Power(), t.Migrations()

	routes := []Route{
		{Path: "/api/servers/get_servers", Methods: get, Endpoint: "api/v1/servers/get_servers"},
		{Path: "/api/servers/overview", Methods: get, Endpoint: "api/v1/servers/overview"},
		{Path: "/api/servers/:id", Methods: crud, Endpoint: "api/v1/servers/:id"},
		{Path: "/api/servers/:id/power/status", Methods: get, Endpoint: "api/v1/servers/:id/power/status", Timeout: power},

		{Path: "/api/servers/components/catalog", Methods: crud, Endpoint: "api/v1/components/catalog"},

		{Path: "/api/migrations/run", Methods: crud, Endpoint: "api/v1/migrations/run", Timeout: migrations},
		{Path: "/api/migrations/reset", Methods: post, Endpoint: "api/v1/migrations/reset", Timeout: migrations},
		{Path: "/api/migrations/seed", Methods: post, Endpoint: "api/v1/migrations/seed", Timeout: migrations},

		{Path: "/api/vms/get_vms", Methods: get, Endpoint: "api/v1/vms/get_vms"},
		{Path: "/api/vms/overview", Methods: get, Endpoint: "api/v1/vms/overview"},
		{Path: "/api/vms/server/:server_id", Methods: get, Endpoint: "api/v1/vms/server/:server_id"},
		{Path: "/api/vms/:vm_id", Methods: getPut, Endpoint: "api/v1/vms/:vm_id"},

		{Path: "/api/k8s/clusters", Methods: get, Endpoint: "api/v1/k8s/clusters"},
		{Path: "/api/k8s/clusters/:id", Methods: getPutDel, Endpoint: "api/v1/k8s/clusters/:id"},
		{Path: "/api/k8s/nodes/:id", Methods: getPut, Endpoint: "api/v1/k8s/nodes/:id"},
		{Path: "/api/k8s/services", Methods: get, Endpoint: "api/v1/k8s/services"},
		{Path: "/api/k8s/inventory", Methods: post, Endpoint: "api/v1/k8s/inventory"},
	}

	for _, action := range []string{"on", "off", "restart", "force-off", "force-restart"} {
		routes = append(routes, Route{
			Path:     "/api/servers/:id/power/" + action,
			Methods:  post,
			Endpoint: "api/v1/servers/:id/power/" + action,
			Timeout:  power,
		})
	}
	for _, kind := range []string{"stats", "cpus", "memory", "disks", "network", "gpus"} {
		routes = append(routes, Route{
			Path:     "/api/servers/components/" + kind,
			Methods:  get,
			Endpoint: "api/v1/components/" + kind,
		})
	}
	for _, kind := range []string{"motherboards", "bmcs"} {
		routes = append(routes, Route{
			Path:     "/api/components/" + kind,
			Methods:  get,
			Endpoint: "api/v1/components/" + kind,
		})
	}
	for _, sub := range []string{"overview", "nodes", "namespaces", "workloads", "pods", "services", "events"} {
		routes = append(routes, Route{
			Path:     "/api/k8s/clusters/:id/" + sub,
			Methods:  get,
			Endpoint: "api/v1/k8s/clusters/:id/" + sub,
		})
	}
	for _, kind := range []string{"namespaces", "workloads", "pods", "services"} {
		routes = append(routes, Route{
			Path:     "/api/k8s/" + kind + "/:id",
			Methods:  get,
			Endpoint: "api/v1/k8s/" + kind + "/:id",
		})
	}

	for i := range routes {
		if routes[i].Timeout == 0 {
			routes[i].Timeout = def
		}
	}
	return routes
}

// RegisterRoutes wires all route handlers onto the Echo instance.
func RegisterRoutes(e *echo.Echo, routes []Route, proxy *ProxyHandler, health *HealthHandler, search *SearchHandler) {
	e.GET("/healthz", health.Healthz)
	e.GET("/proxy/status", health.Status)

	e.POST("/api/search/structure", search.Structure)
	e.GET("/api/search/examples", search.Examples)

	for _, rt := range routes {
		e.Match(rt.Methods, rt.Path, proxy.Route(rt))
	}
}

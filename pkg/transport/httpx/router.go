// pkg/transport/httpx/router.go
package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router is the minimal HTTP router contract the admin surface depends on.
type Router interface {
	Get(path string, h http.Handler)
	Mount(path string, h http.Handler)
	Use(mw ...func(http.Handler) http.Handler)
	Group(fn func(Router))
	Mux() http.Handler
}

// chiRouter is the default Router backed by github.com/go-chi/chi/v5.
type chiRouter struct{ r chi.Router }

func NewChi() Router { return &chiRouter{r: chi.NewRouter()} }

func (c *chiRouter) Get(path string, h http.Handler)           { c.r.Method(http.MethodGet, path, h) }
func (c *chiRouter) Mount(path string, h http.Handler)         { c.r.Mount(path, h) }
func (c *chiRouter) Use(mw ...func(http.Handler) http.Handler) { c.r.Use(mw...) }
func (c *chiRouter) Mux() http.Handler                         { return c.r }

func (c *chiRouter) Group(fn func(Router)) {
	c.r.Group(func(g chi.Router) { fn(&chiRouter{r: g}) })
}

// URLParam returns a path parameter captured by the router.
func URLParam(r *http.Request, key string) string { return chi.URLParam(r, key) }

package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"

	"github.com/sergeii/rss-json-relay/internal/app"
	"github.com/sergeii/rss-json-relay/internal/handlers"
	"github.com/sergeii/rss-json-relay/internal/middleware"
)

// New собирает роутер сервиса.
// Путь запроса не имеет значения: OPTIONS обрабатывается CORS мидлварью,
// POST уходит в RelayFeed, остальные методы получают 405
func New(theApp *app.App) chi.Router {
	handler := &handlers.Handler{
		App: theApp,
	}
	router := chi.NewRouter()
	router.Use(chimw.RealIP)
	router.Use(hlog.NewHandler(theApp.Logger))
	router.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	router.Use(hlog.RemoteAddrHandler("ip"))
	router.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("")
	}))
	router.Use(chimw.Recoverer)
	router.Use(middleware.WithCORS(theApp.CORS))
	router.Use(middleware.GzipSupport)
	router.MethodNotAllowed(handler.MethodNotAllowed)
	router.Post("/", handler.RelayFeed)
	router.Post("/*", handler.RelayFeed)
	return router
}

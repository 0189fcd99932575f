// Package dashboard собирает HTTP-приложение административной панели VPN.
package dashboard

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/vpn-dashboard/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/vpn-dashboard/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/vpn-dashboard/internal/http/handlers/broadcast"
	"github.com/magabrotheeeer/vpn-dashboard/internal/http/handlers/health"
	"github.com/magabrotheeeer/vpn-dashboard/internal/http/handlers/links/assign"
	"github.com/magabrotheeeer/vpn-dashboard/internal/http/handlers/links/create"
	"github.com/magabrotheeeer/vpn-dashboard/internal/http/handlers/links/free"
	linkslist "github.com/magabrotheeeer/vpn-dashboard/internal/http/handlers/links/list"
	"github.com/magabrotheeeer/vpn-dashboard/internal/http/handlers/links/read"
	linksremove "github.com/magabrotheeeer/vpn-dashboard/internal/http/handlers/links/remove"
	"github.com/magabrotheeeer/vpn-dashboard/internal/http/handlers/links/update"
	userslist "github.com/magabrotheeeer/vpn-dashboard/internal/http/handlers/users/list"
	usersremove "github.com/magabrotheeeer/vpn-dashboard/internal/http/handlers/users/remove"
	"github.com/magabrotheeeer/vpn-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vpn-dashboard/internal/services/allocation"
	authservice "github.com/magabrotheeeer/vpn-dashboard/internal/services/auth"
	broadcastservice "github.com/magabrotheeeer/vpn-dashboard/internal/services/broadcast"
	linksservice "github.com/magabrotheeeer/vpn-dashboard/internal/services/links"
	usersservice "github.com/magabrotheeeer/vpn-dashboard/internal/services/users"
)

// Services набор сервисов, которые маршрутизируются в HTTP.
type Services struct {
	Auth       *authservice.Service
	Links      *linksservice.Service
	Users      *usersservice.Service
	Allocation *allocation.Service
	Broadcast  *broadcastservice.Dispatcher
	DB         health.Pinger
}

// RouteOptions параметры HTTP-слоя, не относящиеся к сервисам.
type RouteOptions struct {
	CookieSecure bool
	SessionTTL   time.Duration
	LoginLimiter *rate.Limiter
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc Services, opts RouteOptions) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Get("/health", health.New(logger, svc.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if opts.LoginLimiter != nil {
				r.Use(middlewarectx.RateLimitMiddleware(opts.LoginLimiter, logger))
			}
			r.Post("/login", login.New(logger, svc.Auth, opts.CookieSecure, opts.SessionTTL).ServeHTTP)
		})
		r.Post("/logout", logout.New(logger, opts.CookieSecure).ServeHTTP)
	})

	// Группа с сессией оператора роли vpn
	r.Route("/vpn", func(r chi.Router) {
		r.Use(middlewarectx.Session(svc.Auth, logger))
		r.Use(middlewarectx.RequireRole(authservice.RoleVPN, logger))

		r.Get("/users", userslist.New(logger, svc.Users).ServeHTTP)
		r.Delete("/users/{user_id}", usersremove.New(logger, svc.Users).ServeHTTP)
		r.Post("/users/{user_id}/links", assign.New(logger, svc.Allocation).ServeHTTP)

		r.Get("/links", linkslist.New(logger, svc.Links).ServeHTTP)
		r.Post("/links", create.New(logger, svc.Links).ServeHTTP)
		r.Get("/links/free", free.New(logger, svc.Allocation).ServeHTTP)
		r.Get("/links/{id}", read.New(logger, svc.Links).ServeHTTP)
		r.Put("/links/{id}", update.New(logger, svc.Links).ServeHTTP)
		r.Delete("/links/{id}", linksremove.New(logger, svc.Links).ServeHTTP)

		r.Post("/send_message", broadcast.New(logger, svc.Broadcast).ServeHTTP)
	})
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fundsio/funds/internal/auth"
	"github.com/fundsio/funds/internal/http/account"
	"github.com/fundsio/funds/internal/http/goal"
	"github.com/fundsio/funds/internal/http/importcsv"
	"github.com/fundsio/funds/internal/http/matching"
	"github.com/fundsio/funds/internal/http/notification"
	"github.com/fundsio/funds/internal/http/transaction"
	"github.com/fundsio/funds/internal/http/user"
)

type Handlers struct {
	Users         *user.Handler
	Accounts      *account.Handler
	Transactions  *transaction.Handler
	Goals         *goal.Handler
	Notifications *notification.Handler
	Import        *importcsv.Handler
	Matching      *matching.Handler

	// Live serves the notification WebSocket. It authenticates the upgrade
	// itself since browsers cannot set headers on it.
	Live http.Handler
}

func New(issuer *auth.Issuer, allowedOrigins []string, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Users.PublicRoutes(r)
		})

		if h.Live != nil {
			r.Handle("/notifications/ws", h.Live)
		}

		r.Group(func(r chi.Router) {
			r.Use(issuer.Middleware)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))

				h.Users.Routes(r)
				r.With(auth.RequireAdmin).Group(h.Users.AdminRoutes)

				r.Route("/accounts", h.Accounts.Routes)
				r.Route("/transactions", h.Transactions.Routes)
				r.Route("/goals", h.Goals.Routes)
				r.Route("/notifications", h.Notifications.Routes)
				r.Route("/matching", h.Matching.Routes)
			})

			r.Route("/import", h.Import.Routes)
		})
	})

	return router
}

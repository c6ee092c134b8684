package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/spendingtracker/internal/http/card"
	"github.com/MrJamesThe3rd/spendingtracker/internal/http/export"
	"github.com/MrJamesThe3rd/spendingtracker/internal/http/matching"
	"github.com/MrJamesThe3rd/spendingtracker/internal/http/transaction"
)

type Options struct {
	// JWTSecret enables bearer authentication on /api/v1 when non-empty.
	JWTSecret      string
	AllowedOrigins []string
}

func New(
	opts Options,
	cardsV1 *card.Handler,
	transactionsV1 *transaction.Handler,
	exportV1 *export.Handler,
	nameRulesV1 *matching.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(RequireToken([]byte(opts.JWTSecret)))
		}

		r.Route("/cards", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				cardsV1.Routes(r)
			})

			r.Route("/{id}/transactions", transactionsV1.CardRoutes)
			r.Post("/{id}/import", transactionsV1.Import)
			r.Get("/{id}/export", exportV1.Download)
		})

		r.Route("/transactions", transactionsV1.Routes)
		r.Route("/name-rules", nameRulesV1.Routes)
	})

	return router
}

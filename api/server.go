// Package api exposes the settlement core over a chi REST surface.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ebubechi-ihediwa/StellarCade/service"
)

// Server bundles the HTTP router with the services it fronts.
type Server struct {
	ledgerService service.LedgerService
	gameService   service.GameService
	router        chi.Router
}

// NewServer creates the HTTP surface over the ledger and game services
func NewServer(ledgerService service.LedgerService, gameService service.GameService) *Server {
	s := &Server{
		ledgerService: ledgerService,
		gameService:   gameService,
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", identityHeader},
		MaxAge:         300,
	}))

	r.Use(IdentityMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Route("/wallet", func(r chi.Router) {
			r.Post("/deposit", s.handleDeposit)
			r.Post("/withdraw", s.handleWithdraw)
			r.Get("/{account}/balance", s.handleBalance)
			r.Get("/{account}/history", s.handleHistory)
		})
		r.Route("/games", func(r chi.Router) {
			r.Post("/", s.handlePlay)
			r.Post("/{id}/resolve", s.handleResolve)
			r.Post("/{id}/void", s.handleVoid)
			r.Get("/{id}", s.handleGetGame)
			r.Get("/{id}/verify", s.handleVerify)
		})
		r.Route("/admin", func(r chi.Router) {
			r.Put("/fee", s.handleSetFee)
			r.Get("/fees/accrued", s.handleAccruedFees)
		})
	})

	s.router = r
	return s
}

// Handler returns the root http handler
func (s *Server) Handler() http.Handler {
	return s.router
}

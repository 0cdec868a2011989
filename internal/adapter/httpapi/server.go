package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Server wraps the HTTP server hosting the JSON API.
type Server struct {
	srv *http.Server
	log zerolog.Logger
}

// NewServer builds the router and the underlying http.Server.
func NewServer(addr string, handler *Handler, log zerolog.Logger) *Server {
	log = log.With().Str("component", "http").Logger()
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(handler, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// NewRouter builds the chi router with all API routes and middleware.
func NewRouter(handler *Handler, log zerolog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HandleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", handler.HandleSignup)
			r.Post("/login", handler.HandleLogin)
			r.Post("/logout", handler.HandleLogout)
			r.Get("/me", handler.HandleCurrentUser)
			r.Delete("/demo", handler.HandleClearDemo)
		})

		r.Route("/stocks", func(r chi.Router) {
			r.Get("/", handler.HandleListStocks)
			r.Get("/{symbol}", handler.HandleGetStock)
		})

		r.Route("/trades", func(r chi.Router) {
			r.Post("/buy", handler.HandleBuy)
			r.Post("/sell", handler.HandleSell)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", handler.HandleGetPortfolio)
			r.Get("/stats", handler.HandleGetStats)
			r.Get("/sectors", handler.HandleGetSectors)
			r.Get("/transactions", handler.HandleGetTransactions)
			r.Post("/reset", handler.HandleReset)
			r.Get("/stream", handler.HandleStream)
		})

		r.Get("/bank/transactions", handler.HandleBankTransactions)
	})

	return r
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("HTTP server listening")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("HTTP server shutting down")
	return s.srv.Shutdown(ctx)
}

// requestLogger logs one line per completed request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("Request handled")
		})
	}
}

package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"tenderhub/db/migrations"
	"tenderhub/internal/config"
	"tenderhub/internal/handlers"
	"tenderhub/internal/service"
	"tenderhub/internal/store"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	if cfg.PostgresConn == "" {
		logger.Fatal("POSTGRES_CONN env variable is not set")
	}

	dbConn, err := sqlx.Connect("postgres", cfg.PostgresConn)
	if err != nil {
		logger.WithError(err).Fatal("cannot connect to database")
	}
	defer dbConn.Close()

	if err := migrations.Run(dbConn.DB); err != nil {
		logger.WithError(err).Fatal("cannot apply migrations")
	}

	st := store.NewStorage(dbConn)
	tenders := service.NewTenderService(st, logger)
	bids := service.NewBidService(st, logger)
	h := handlers.NewHandler(tenders, bids)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)

		r.Get("/tenders", h.GetTendersHandler)
		r.Post("/tenders/new", h.CreateTenderHandler)
		r.Get("/tenders/my", h.GetUserTendersHandler)
		r.Get("/tenders/{tenderId}/status", h.GetTenderStatusHandler)
		r.Put("/tenders/{tenderId}/status", h.UpdateTenderStatusHandler)
		r.Patch("/tenders/{tenderId}/edit", h.EditTenderHandler)
		r.Put("/tenders/{tenderId}/rollback/{version}", h.RollbackTenderHandler)

		// The {id} parameter is a tender id for /list and /reviews and a
		// bid id for the rest; chi requires one wildcard name per segment.
		r.Post("/bids/new", h.CreateBidHandler)
		r.Get("/bids/my", h.GetUserBidsHandler)
		r.Get("/bids/{id}/list", h.GetBidsForTenderHandler)
		r.Get("/bids/{id}/status", h.GetBidStatusHandler)
		r.Put("/bids/{id}/status", h.UpdateBidStatusHandler)
		r.Patch("/bids/{id}/edit", h.EditBidHandler)
		r.Put("/bids/{id}/rollback/{version}", h.RollbackBidHandler)
		r.Put("/bids/{id}/submit_decision", h.SubmitBidDecisionHandler)
		r.Put("/bids/{id}/feedback", h.SubmitBidFeedbackHandler)
		r.Get("/bids/{id}/reviews", h.GetBidReviewsHandler)
	})

	logger.WithField("addr", cfg.ServerAddress).Info("starting server")
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

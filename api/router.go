package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/wahlware/wahlhost/internal/chizap"
	"github.com/wahlware/wahlhost/internal/config"
	"github.com/wahlware/wahlhost/pkg/controller"
	"github.com/wahlware/wahlhost/pkg/middleware"
	"go.uber.org/zap"
)

func InitRouter(cnf *config.ServerCmdConfig, c *controller.Controller, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.InjectLogger(logger))
	r.Use(chizap.Chizap(logger, time.RFC3339, true))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*." + cnf.App.RootDomain, "https://" + cnf.App.RootDomain, "http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	auth := middleware.Authmiddleware(&cnf.JWT)

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", c.GetVersion)
		r.Get("/resolve", c.ResolveRoute)

		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.Route("/files", func(r chi.Router) {
				r.Post("/", c.CreateFile)
				r.Delete("/{fileID}", c.DeleteFile)
				r.Post("/transfers", c.RunTransfers)
			})

			r.Route("/questions", func(r chi.Router) {
				r.Post("/", c.CreateQuestion)
				r.Get("/{questionID}", c.GetQuestion)
				r.Patch("/{questionID}", c.UpdateQuestion)
				r.Delete("/{questionID}", c.DeleteQuestion)
			})

			r.Route("/wahlen", func(r chi.Router) {
				r.Post("/", c.CreateWahl)
				r.Get("/{wahlID}", c.GetWahl)
				r.Patch("/{wahlID}", c.UpdateWahl)
				r.Delete("/{wahlID}", c.DeleteWahl)
				r.Get("/{wahlID}/status", c.GetWahlStatus)
				r.Get("/{wahlID}/questions", c.ListQuestions)
				r.Post("/{wahlID}/voters", c.RegisterVoter)
				r.Get("/{wahlID}/voters", c.ListVoters)
				r.Post("/{wahlID}/sessions", c.CreateSession)
				r.Post("/{wahlID}/stimmen", c.CastStimme)
			})
		})
	})

	return r
}

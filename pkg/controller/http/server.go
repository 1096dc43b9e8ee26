package http

import (
	"net/http"

	"github.com/VictoriaMetrics/metrics"
	"github.com/go-chi/chi/v5"
	slack_controller "github.com/siren-lab/siren/pkg/controller/slack"
	"github.com/siren-lab/siren/pkg/domain/interfaces"
	slack_model "github.com/siren-lab/siren/pkg/domain/model/slack"
	slackService "github.com/siren-lab/siren/pkg/service/slack"
	"github.com/siren-lab/siren/pkg/utils/safe"
)

type Server struct {
	router    *chi.Mux
	slackCtrl *slack_controller.Controller
	verifier  slack_model.PayloadVerifier
}

type Options func(*Server)

// WithSlackVerifier enables request signature verification on the
// Slack endpoints. Without it requests are accepted unverified, which
// is only acceptable for local development.
func WithSlackVerifier(verifier slack_model.PayloadVerifier) Options {
	return func(s *Server) {
		s.verifier = verifier
	}
}

func New(uc interfaces.EscalationUsecases, svc *slackService.Service, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:    r,
		slackCtrl: slack_controller.New(uc, svc),
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(loggingMiddleware)
	r.Use(panicRecoveryMiddleware)

	r.Route("/hooks", func(r chi.Router) {
		r.Route("/alert", func(r chi.Router) {
			r.Post("/raw", alertRawHandler(uc))
		})

		r.Route("/slack", func(r chi.Router) {
			r.Use(verifySlackRequest(s.verifier))
			r.Post("/event", slackEventHandler(s.slackCtrl))
			r.Post("/interaction", slackInteractionHandler(s.slackCtrl))
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		safe.Write(r.Context(), w, []byte("OK"))
	})

	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	return s
}

func (x *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	x.router.ServeHTTP(w, r)
}

package usecase

import (
	"github.com/siren-lab/siren/pkg/domain/interfaces"
	"github.com/siren-lab/siren/pkg/repository/memory"
	"github.com/siren-lab/siren/pkg/service/escalation"
	slackService "github.com/siren-lab/siren/pkg/service/slack"
)

type UseCases struct {
	repository   interfaces.Repository
	slackService *slackService.Service
	scheduler    *escalation.Scheduler
}

var _ interfaces.EscalationUsecases = &UseCases{}

type Option func(*UseCases)

func WithRepository(repo interfaces.Repository) Option {
	return func(u *UseCases) {
		u.repository = repo
	}
}

func WithSlackService(svc *slackService.Service) Option {
	return func(u *UseCases) {
		u.slackService = svc
	}
}

func WithScheduler(sched *escalation.Scheduler) Option {
	return func(u *UseCases) {
		u.scheduler = sched
	}
}

func New(opts ...Option) *UseCases {
	u := &UseCases{
		repository: memory.New(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

package service

import (
	"sync"

	"github.com/nnamdio/bookverse/config"
	"github.com/nnamdio/bookverse/internal/jsonlog"
	"github.com/nnamdio/bookverse/repository"
)

type Service interface {
	books
	reviews
	profiles
}

// service defines the service layer. The acting reviewer's identity is passed
// into every operation that needs it; the layer holds no ambient request
// state.
type service struct {
	config config.Config
	wg     *sync.WaitGroup
	logger *jsonlog.Logger
	repo   repository.Repository
}

// New creates a new instance of Service.
func New(cfg config.Config, wg *sync.WaitGroup, logger *jsonlog.Logger, repo repository.Repository) *service {
	return &service{
		config: cfg,
		wg:     wg,
		logger: logger,
		repo:   repo,
	}
}

package handler

import (
	"github.com/jellydator/ttlcache/v3"
	"github.com/nnamdio/bookverse/config"
	"github.com/nnamdio/bookverse/internal/jsonlog"
	"github.com/nnamdio/bookverse/service"
)

// Handler defines the handler layer. The cache holds the materialized sorted
// genre set so the distinct-genre listing doesn't scan the catalog on every
// request; it is invalidated whenever a book is created.
type Handler struct {
	config  config.Config
	logger  *jsonlog.Logger
	cache   *ttlcache.Cache[string, []string]
	service service.Service
}

// New creates a new instance of Handler.
func New(cfg config.Config, logger *jsonlog.Logger, cache *ttlcache.Cache[string, []string], service service.Service) *Handler {
	return &Handler{
		config:  cfg,
		logger:  logger,
		cache:   cache,
		service: service,
	}
}

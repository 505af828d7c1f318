package server

import (
	"github.com/google/uuid"

	"codeberg.org/snonux/polyglot/internal/session"
)

// SessionFactory creates a controller; config.ID is already set
type SessionFactory func(config *session.Config) *session.Controller

// Registry holds the live sessions of the API, keyed by UUID
type Registry struct {
	*session.Pool[string]
	factory SessionFactory
}

// NewRegistry creates an empty registry
func NewRegistry(factory SessionFactory) *Registry {
	return &Registry{
		Pool:    session.NewPool[string](),
		factory: factory,
	}
}

// Create starts a session with a fresh UUID
func (r *Registry) Create(config *session.Config) *session.Controller {
	if config == nil {
		config = &session.Config{}
	}
	config.ID = uuid.NewString()
	c := r.factory(config)
	r.Put(c.ID(), c)
	return c
}

// Package mailbox implements the thin orchestration layer (§4.E): each
// operation is a short composition over the store, MIME pipeline, label
// manager and search engine.
package mailbox

import (
	"mailsim/core/service/store"
	"mailsim/pkg/logger"
)

// Mailbox is the entry point for every mailbox operation, wrapping the
// shared in-memory store.
type Mailbox struct {
	store *store.Store
	log   *logger.Logger
}

// New builds a Mailbox over an existing store.
func New(s *store.Store, log *logger.Logger) *Mailbox {
	if log == nil {
		log = logger.Default()
	}
	return &Mailbox{store: s, log: log}
}

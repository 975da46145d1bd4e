package auth

import (
	"context"

	"github.com/messias1976/Tesouraria-da-Igreja/internal/auth/models"
)

// Provider is the authentication collaborator port. The real provider lives
// outside this process; MemoryProvider stands in for development and tests.
type Provider interface {
	// OnLifecycleEvent registers a listener for future lifecycle events and
	// returns its unsubscribe function.
	OnLifecycleEvent(handler func(models.LifecycleEvent)) (unsubscribe func())

	// ProbeCurrentSession asks the provider for an already-established
	// session (page-reload case). A zero session with nil error means
	// "no session"; an error means the provider was unreachable.
	ProbeCurrentSession(ctx context.Context) (models.Session, error)

	// EndSession revokes the current session. On success the provider emits
	// a signed-out lifecycle event.
	EndSession(ctx context.Context) error
}

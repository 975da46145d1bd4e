package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/messias1976/Tesouraria-da-Igreja/internal/auth/models"
	"github.com/messias1976/Tesouraria-da-Igreja/pkg/apperrors"
)

const defaultTokenTTL = 12 * time.Hour

// MemoryProvider is an in-process authentication provider for development and
// tests. It keeps bcrypt-hashed credentials, mints HS256 session tokens and
// emits the same lifecycle events an external provider would.
type MemoryProvider struct {
	signingKey []byte
	tokenTTL   time.Duration

	mu       sync.Mutex
	users    map[string]memoryUser // keyed by lowercased email
	token    string                // current session token, empty when signed out
	handlers map[int]func(models.LifecycleEvent)
	nextID   int
}

type memoryUser struct {
	id           string
	email        string
	displayName  string
	passwordHash []byte
}

// NewMemoryProvider builds an empty provider. Seed users with RegisterUser.
func NewMemoryProvider(signingKey []byte) *MemoryProvider {
	return &MemoryProvider{
		signingKey: signingKey,
		tokenTTL:   defaultTokenTTL,
		users:      make(map[string]memoryUser),
		handlers:   make(map[int]func(models.LifecycleEvent)),
	}
}

// RegisterUser stores a user with a bcrypt-hashed password and returns the
// assigned owner id.
func (p *MemoryProvider) RegisterUser(email, password, displayName string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", apperrors.New(apperrors.CodeInvalidInput, "email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInternal, "hash password")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.users[email]; exists {
		return "", apperrors.New(apperrors.CodeInvalidInput, "email already registered")
	}
	user := memoryUser{
		id:           uuid.NewString(),
		email:        email,
		displayName:  displayName,
		passwordHash: hash,
	}
	p.users[email] = user
	return user.id, nil
}

// SignIn verifies credentials, establishes the current session and emits a
// signed-in lifecycle event. userAgent feeds the device summary.
func (p *MemoryProvider) SignIn(ctx context.Context, email, password, userAgent string) (models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	p.mu.Lock()
	user, ok := p.users[email]
	p.mu.Unlock()
	if !ok {
		return models.Session{}, apperrors.New(apperrors.CodeUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(user.passwordHash, []byte(password)); err != nil {
		return models.Session{}, apperrors.New(apperrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := MintSessionToken(p.signingKey, user.id, user.email, user.displayName, p.tokenTTL)
	if err != nil {
		return models.Session{}, apperrors.Wrap(err, apperrors.CodeInternal, "mint session token")
	}

	session := models.Session{
		UserID:      user.id,
		Email:       user.email,
		DisplayName: user.displayName,
		Device:      SummarizeDevice(userAgent),
	}

	p.mu.Lock()
	p.token = token
	p.mu.Unlock()

	p.emit(models.LifecycleEvent{Kind: models.EventSignedIn, Session: session})
	return session, nil
}

// RefreshToken re-mints the current session token and emits a token-refreshed
// event carrying the (still present) session, mirroring providers whose
// refresh events must not trigger redirects.
func (p *MemoryProvider) RefreshToken(ctx context.Context) error {
	session, err := p.ProbeCurrentSession(ctx)
	if err != nil {
		return err
	}
	if !session.Present() {
		return apperrors.New(apperrors.CodeUnauthorized, "no session to refresh")
	}

	token, err := MintSessionToken(p.signingKey, session.UserID, session.Email, session.DisplayName, p.tokenTTL)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "mint session token")
	}

	p.mu.Lock()
	p.token = token
	p.mu.Unlock()

	p.emit(models.LifecycleEvent{Kind: models.EventTokenRefreshed, Session: session})
	return nil
}

// OnLifecycleEvent registers a listener; the returned function unregisters it.
func (p *MemoryProvider) OnLifecycleEvent(handler func(models.LifecycleEvent)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.handlers[id] = handler
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.handlers, id)
	}
}

// ProbeCurrentSession validates the stored token and returns the session it
// names. An expired or absent token probes as "no session", nil error.
func (p *MemoryProvider) ProbeCurrentSession(ctx context.Context) (models.Session, error) {
	p.mu.Lock()
	token := p.token
	p.mu.Unlock()
	if token == "" {
		return models.Session{}, nil
	}

	claims, err := ParseSessionToken(p.signingKey, token)
	if err != nil {
		// Expired token means no current session, not an unreachable provider.
		return models.Session{}, nil
	}
	return models.Session{
		UserID:      claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	}, nil
}

// EndSession discards the current token and emits a signed-out event.
func (p *MemoryProvider) EndSession(ctx context.Context) error {
	p.mu.Lock()
	hadSession := p.token != ""
	p.token = ""
	p.mu.Unlock()

	if hadSession {
		p.emit(models.LifecycleEvent{Kind: models.EventSignedOut})
	}
	return nil
}

// emit calls handlers outside the lock so a handler may unsubscribe itself.
func (p *MemoryProvider) emit(ev models.LifecycleEvent) {
	p.mu.Lock()
	handlers := make([]func(models.LifecycleEvent), 0, len(p.handlers))
	for _, h := range p.handlers {
		handlers = append(handlers, h)
	}
	p.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

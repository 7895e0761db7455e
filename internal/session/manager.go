package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/blogfront/internal/telemetry/tracing"
	"github.com/2beens/blogfront/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type contextKey struct{}

// Manager binds a visitor to a Session through the session cookie.
type Manager struct {
	repo         Repo
	ttl          time.Duration
	secureCookie bool
	onCreated    func()
	now          func() time.Time
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewManager(repo Repo, ttl time.Duration, secureCookie bool, onCreated func()) *Manager {
	return &Manager{
		repo:           repo,
		ttl:            ttl,
		secureCookie:   secureCookie,
		onCreated:      onCreated,
		now:            time.Now,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (m *Manager) Repo() Repo {
	return m.repo
}

// Load returns the session of the request, creating a new one (and setting the cookie) on first visit
// or when the stored session is gone.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) (*Session, error) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "session.load")
	defer span.End()

	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		s, err := m.repo.Get(ctx, cookie.Value)
		if err == nil {
			span.SetStatus(codes.Ok, "existing")
			return s, nil
		}
		if !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		log.Tracef("session [%s] not found, creating a new one", cookie.Value)
	}

	s, err := m.create(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.CreatedAt.Add(m.ttl),
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	span.SetStatus(codes.Ok, "created")

	return s, nil
}

func (m *Manager) create(ctx context.Context) (*Session, error) {
	token, err := m.RandStringFunc(tokenSize)
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	s := New(token, m.now())
	if err := m.repo.Save(ctx, s); err != nil {
		return nil, err
	}
	if m.onCreated != nil {
		m.onCreated()
	}

	log.Debugf("new session created: %s", token)
	return s, nil
}

func (m *Manager) Save(ctx context.Context, s *Session) error {
	return m.repo.Save(ctx, s)
}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}

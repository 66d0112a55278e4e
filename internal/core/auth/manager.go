package auth

import (
	"context"
	"time"

	"github.com/skycli/skycli/internal/atproto"
	"github.com/skycli/skycli/internal/core/classify"
	"github.com/skycli/skycli/internal/core/domain"
	"github.com/skycli/skycli/internal/core/retry"
	"github.com/skycli/skycli/internal/store"
	"github.com/skycli/skycli/internal/telemetry/logger"
)

// ClientFactory builds an XRPC client for a service origin. Injectable
// for tests; the default is atproto.NewClient.
type ClientFactory func(service string) *atproto.Client

// Manager drives the session lifecycle against the credential store
// and the remote service.
type Manager struct {
	store     *store.Store
	service   string // default service origin
	log       logger.Logger
	newClient ClientFactory
	client    *atproto.Client // current handle, nil until login/resume
}

// NewManager creates a lifecycle manager. service is the default
// origin used when neither a stored record nor a login override
// supplies one.
func NewManager(st *store.Store, service string, log logger.Logger, opts ...ManagerOption) *Manager {
	if service == "" {
		service = domain.DefaultService
	}
	m := &Manager{
		store:   st,
		service: service,
		log:     log,
		newClient: func(origin string) *atproto.Client {
			return atproto.NewClient(origin)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithClientFactory replaces the client constructor (tests).
func WithClientFactory(fn ClientFactory) ManagerOption {
	return func(m *Manager) {
		m.newClient = fn
	}
}

// Client returns the current authenticated handle, or nil before a
// successful login or resume.
func (m *Manager) Client() *atproto.Client {
	return m.client
}

// Login authenticates with an identifier/secret pair. serviceOverride
// selects a non-default origin for this login; empty keeps the
// default. The record is written only after the remote call succeeds.
func (m *Manager) Login(ctx context.Context, identifier, secret, serviceOverride string) (*domain.Session, error) {
	service := serviceOverride
	if service == "" {
		service = m.service
	}
	client := m.newClient(service)

	info, err := retry.Do(ctx, m.policy(retry.Fast, "login"), func(ctx context.Context) (*atproto.SessionInfo, error) {
		return client.CreateSession(ctx, identifier, secret)
	})
	if err != nil {
		return nil, err
	}

	session := m.record(info, service)
	if err := m.store.Write(session); err != nil {
		return nil, err
	}

	m.client = client
	m.log.Info("logged in", "handle", session.Handle, "did", session.DID)
	return session, nil
}

// Resume re-establishes the stored session. An absent store reports
// (nil, nil), not an error, and makes no network call. A session that
// cannot be resumed is decisively discarded: the store is cleared and
// session-expired raised.
func (m *Manager) Resume(ctx context.Context) (*domain.Session, error) {
	record, err := m.store.Read()
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	service := record.ServiceOrDefault()
	client := m.newClient(service)
	stored := &atproto.SessionInfo{
		DID:        record.DID,
		Handle:     record.Handle,
		AccessJWT:  record.AccessJWT,
		RefreshJWT: record.RefreshJWT,
	}

	info, err := retry.Do(ctx, m.policy(retry.Fast, "resume"), func(ctx context.Context) (*atproto.SessionInfo, error) {
		return client.ResumeSession(ctx, stored)
	})
	if err != nil {
		if clearErr := m.store.Clear(); clearErr != nil {
			m.log.Warn("clearing unresumable session failed", "error", clearErr)
		}
		return nil, domain.ErrSessionExpired.WithCause(err)
	}

	session := m.record(info, service)
	if err := m.store.Write(session); err != nil {
		return nil, err
	}

	m.client = client
	m.log.Debug("session resumed", "handle", session.Handle)
	return session, nil
}

// ValidateSession probes the attached session. On a 401-equivalent
// failure it attempts exactly one refresh before reporting invalid;
// it never loops.
func (m *Manager) ValidateSession(ctx context.Context) (bool, error) {
	if m.client == nil || !m.client.HasSession() {
		return false, domain.ErrNotAuthenticated
	}

	if _, err := m.client.GetSession(ctx); err != nil {
		classified := classify.FromRaw(err)
		if !domain.IsAppError(classified, domain.ErrSessionExpired.Code) {
			return false, classified
		}
		if err := m.RefreshSession(ctx); err != nil {
			return false, nil
		}
		if _, err := m.client.GetSession(ctx); err != nil {
			return false, nil
		}
	}
	return true, nil
}

// RefreshSession exchanges the refresh credential for a new token
// pair and rewrites the record. A failed exchange clears the store
// and raises session-expired.
func (m *Manager) RefreshSession(ctx context.Context) error {
	if m.client == nil || !m.client.HasSession() {
		return domain.ErrNotAuthenticated
	}

	info, err := m.client.RefreshSession(ctx)
	if err != nil {
		if clearErr := m.store.Clear(); clearErr != nil {
			m.log.Warn("clearing session after failed refresh failed", "error", clearErr)
		}
		return domain.ErrSessionExpired.WithCause(classify.FromRaw(err))
	}

	session := m.record(info, m.client.Service())
	if err := m.store.Write(session); err != nil {
		return err
	}
	m.log.Debug("session refreshed", "handle", session.Handle)
	return nil
}

// Logout clears the store unconditionally. Server-side session
// deletion is best-effort; its failure never prevents local clearing,
// because local state is the source of truth for "am I logged in".
func (m *Manager) Logout(ctx context.Context) error {
	if m.client != nil && m.client.HasSession() {
		if err := m.client.DeleteSession(ctx); err != nil {
			m.log.Warn("server-side logout failed", "error", err)
		}
		m.client.DetachSession()
	}
	m.client = nil
	return m.store.Clear()
}

// GetCurrentSession returns the stored record without any network
// call, or nil when absent.
func (m *Manager) GetCurrentSession() (*domain.Session, error) {
	return m.store.Read()
}

// IsAuthenticated reports whether a stored record exists. It says
// nothing about whether the record would still resume.
func (m *Manager) IsAuthenticated() bool {
	record, err := m.store.Read()
	return err == nil && record != nil
}

// RequireAuth is the composite entry point used by command handlers:
// it fails immediately with not-authenticated when no record exists
// (no network call), otherwise resumes and hands back a ready client.
func (m *Manager) RequireAuth(ctx context.Context) (*atproto.Client, *domain.Session, error) {
	record, err := m.store.Read()
	if err != nil {
		return nil, nil, err
	}
	if record == nil {
		return nil, nil, domain.ErrNotAuthenticated
	}

	session, err := m.Resume(ctx)
	if err != nil {
		return nil, nil, err
	}
	return m.client, session, nil
}

// record builds the persisted session shape with last-used set to now.
func (m *Manager) record(info *atproto.SessionInfo, service string) *domain.Session {
	return &domain.Session{
		DID:        info.DID,
		Handle:     info.Handle,
		AccessJWT:  info.AccessJWT,
		RefreshJWT: info.RefreshJWT,
		Service:    service,
		LastUsed:   time.Now().UnixMilli(),
	}
}

// policy attaches a debug-logging observer to a retry profile.
func (m *Manager) policy(p retry.Policy, op string) retry.Policy {
	return p.WithObserver(func(attempt int, err *domain.AppError, delay time.Duration) {
		m.log.Debug("retrying "+op, "attempt", attempt, "delay", delay.String(), "error", err.Code)
	})
}

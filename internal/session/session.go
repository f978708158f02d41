// Package session owns the authenticated-user state for the whole
// application. Views never fetch or mutate identity themselves; they read
// the current Session and subscribe to changes.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/clinimed/agenda/pkg/client"
	"github.com/clinimed/agenda/pkg/domain"
)

// Status is the resolution state of the session.
type Status int

const (
	// StatusUnresolved means no resolution attempt has started yet.
	// Nothing identity-dependent should render or redirect.
	StatusUnresolved Status = iota
	// StatusResolving means a restore or login is in flight.
	StatusResolving
	// StatusAuthenticated means a user identity is established.
	StatusAuthenticated
	// StatusAnonymous means resolution finished with no identity.
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusUnresolved:
		return "unresolved"
	case StatusResolving:
		return "resolving"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Session is a snapshot of the authentication state. User is non-nil
// exactly when Status is StatusAuthenticated.
type Session struct {
	Status Status
	User   *domain.User
}

// HasRole reports whether the session belongs to a user holding role.
// Anonymous and unresolved sessions hold no roles.
func (s Session) HasRole(role domain.Role) bool {
	return s.Status == StatusAuthenticated && s.User != nil && s.User.Role == role
}

// Variant selects how credentials travel. A deployment runs exactly one.
type Variant string

const (
	// VariantBearer stores a token locally and sends it as a header.
	VariantBearer Variant = "bearer"
	// VariantCookie relies on a server-managed session cookie.
	VariantCookie Variant = "cookie"
)

// Manager owns the session and serializes every transition. All methods
// are safe for concurrent use.
type Manager struct {
	api     *client.Client
	store   TokenStore
	variant Variant

	mu      sync.Mutex
	current Session
	busy    bool
	epoch   uint64 // bumped by Logout so stale operations discard their result
	subs    []chan Session
}

// New creates a Manager in the unresolved state and hooks the client's
// 401 responses into the session lifecycle.
func New(api *client.Client, store TokenStore, variant Variant) *Manager {
	m := &Manager{
		api:     api,
		store:   store,
		variant: variant,
		current: Session{Status: StatusUnresolved},
	}
	api.SetUnauthorizedHook(m.handleUnauthorized)
	return m
}

// Current returns the latest session snapshot.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Subscribe returns a channel that receives a snapshot after every
// session change. Slow receivers miss intermediate snapshots, never the
// latest one.
func (m *Manager) Subscribe() <-chan Session {
	ch := make(chan Session, 16)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

// Restore resolves the session at startup. In the bearer variant a
// missing stored token resolves to anonymous without touching the
// network. Restore failures end in the anonymous state; only network
// failures surface as an error so the UI can say the server is down.
func (m *Manager) Restore(ctx context.Context) error {
	epoch, err := m.begin()
	if err != nil {
		return err
	}
	defer m.end()

	if m.variant == VariantBearer {
		token, err := m.store.Load()
		if err != nil || token == "" {
			m.setIf(epoch, Session{Status: StatusAnonymous})
			return nil
		}
		m.api.SetToken(token)
	}

	user, err := m.api.Me(ctx)
	if err != nil {
		m.purgeCredential()
		m.setIf(epoch, Session{Status: StatusAnonymous})
		if cerr := classify(err); cerr.Kind == KindNetwork {
			return cerr
		}
		return nil
	}
	if !m.setIf(epoch, Session{Status: StatusAuthenticated, User: user}) {
		// A logout intervened; drop the credential again.
		m.purgeCredential()
	}
	return nil
}

// Login authenticates with an email and password. On success the session
// becomes authenticated and, in the bearer variant, the token is
// persisted. On failure the session returns to anonymous.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if !domain.ValidEmail(email) {
		return invalidInput("Enter a valid email address")
	}
	if !domain.ValidPassword(password) {
		return invalidInput("Password must be at least 6 characters")
	}

	epoch, err := m.begin()
	if err != nil {
		return err
	}
	defer m.end()

	resp, err := m.api.Login(ctx, client.LoginRequest{Email: email, Password: password})
	if err != nil {
		m.setIf(epoch, Session{Status: StatusAnonymous})
		return classify(err)
	}

	if m.variant == VariantBearer {
		m.api.SetToken(resp.Token)
		m.store.Save(resp.Token) //nolint:errcheck // the session is still valid for this run
	}
	if !m.setIf(epoch, Session{Status: StatusAuthenticated, User: &resp.User}) {
		m.purgeCredential()
	}
	return nil
}

// Register creates a staff account. It never changes the session; the
// new user logs in afterwards.
func (m *Manager) Register(ctx context.Context, name, email, password string, role domain.Role, crm string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	crm = strings.TrimSpace(crm)
	if name == "" {
		return invalidInput("Enter the full name")
	}
	if !domain.ValidEmail(email) {
		return invalidInput("Enter a valid email address")
	}
	if !domain.ValidPassword(password) {
		return invalidInput("Password must be at least 6 characters")
	}
	if !domain.ValidRole(role) {
		return invalidInput("Choose a role")
	}
	if role == domain.RoleDoctor && crm == "" {
		return invalidInput("CRM is required for doctors")
	}

	if err := m.claim(); err != nil {
		return err
	}
	defer m.end()

	err := m.api.Register(ctx, client.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
		CRM:      crm,
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

// Logout ends the session immediately. A restore or login still in
// flight has its result discarded rather than resurrecting the session.
// In the cookie variant the server-side session is invalidated
// best-effort. Logging out twice is harmless.
func (m *Manager) Logout(ctx context.Context) error {
	if m.variant == VariantCookie {
		m.api.Logout(ctx) //nolint:errcheck // local logout proceeds regardless
	}
	m.purgeCredential()
	m.mu.Lock()
	m.epoch++
	m.setLocked(Session{Status: StatusAnonymous})
	m.mu.Unlock()
	return nil
}

// handleUnauthorized runs when any API call gets a 401. In the bearer
// variant the stored token is no longer honored, so it is purged and
// the session drops to anonymous. The cookie variant treats the 401 as
// a signal only; the session stands until an explicit Restore.
func (m *Manager) handleUnauthorized() {
	if m.variant != VariantBearer {
		return
	}
	m.purgeCredential()
	m.set(Session{Status: StatusAnonymous})
}

func (m *Manager) purgeCredential() {
	if m.variant != VariantBearer {
		return
	}
	m.api.ClearToken()
	m.store.Clear() //nolint:errcheck // nothing actionable on failure
}

// claim takes the single in-flight slot without touching the session.
func (m *Manager) claim() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return ErrBusy
	}
	m.busy = true
	return nil
}

// begin claims the single in-flight slot and publishes the resolving
// state. The returned epoch lets the caller detect an intervening logout.
func (m *Manager) begin() (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return 0, ErrBusy
	}
	m.busy = true
	m.setLocked(Session{Status: StatusResolving})
	return m.epoch, nil
}

func (m *Manager) end() {
	m.mu.Lock()
	m.busy = false
	m.mu.Unlock()
}

func (m *Manager) set(s Session) {
	m.mu.Lock()
	m.setLocked(s)
	m.mu.Unlock()
}

// setIf publishes s and reports true unless a logout superseded the
// operation that started at epoch.
func (m *Manager) setIf(epoch uint64, s Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		return false
	}
	m.setLocked(s)
	return true
}

// setLocked updates the snapshot and notifies subscribers on change.
// Callers hold m.mu.
func (m *Manager) setLocked(s Session) {
	if m.current.Status == s.Status && m.current.User == s.User {
		return
	}
	m.current = s
	for _, ch := range m.subs {
		select {
		case ch <- s:
		default:
			// Drop the stale snapshot so the latest one fits.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/marisimondelossantos-spec/petshop/internal/domain"
	"github.com/marisimondelossantos-spec/petshop/internal/store"
	"github.com/marisimondelossantos-spec/petshop/internal/ui"
	"github.com/marisimondelossantos-spec/petshop/pkg/logger"
)

// NavbarView swaps the navbar between the auth-buttons fragment and the
// user-menu fragment.
type NavbarView interface {
	ShowLoggedIn(displayName string)
	ShowLoggedOut()
}

// DocumentMarker applies the document-level logged-in marker that prevents
// a pre-render flash of the wrong auth state.
type DocumentMarker interface {
	SetLoggedIn(bool)
}

// Manager owns the simulated session: the current-user record and the login
// flag, plus the navbar fragment that mirrors them. There is no server to
// verify against; reads are trusted by design of the storefront.
type Manager struct {
	mu       sync.Mutex
	store    *store.Store
	navbar   NavbarView
	marker   DocumentMarker
	notifier ui.Notifier
	clock    clock.Clock
	log      *logger.Logger
}

type Deps struct {
	Store    *store.Store
	Navbar   NavbarView
	Marker   DocumentMarker
	Notifier ui.Notifier
	Clock    clock.Clock
	Logger   *logger.Logger
}

func NewManager(deps Deps) *Manager {
	if deps.Navbar == nil {
		deps.Navbar = nopNavbar{}
	}
	if deps.Marker == nil {
		deps.Marker = nopMarker{}
	}
	if deps.Notifier == nil {
		deps.Notifier = ui.NopNotifier{}
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	return &Manager{
		store:    deps.Store,
		navbar:   deps.Navbar,
		marker:   deps.Marker,
		notifier: deps.Notifier,
		clock:    deps.Clock,
		log:      deps.Logger,
	}
}

// Login runs the simulated flow: presence validation only, with the display
// name derived from the email local part. On success the current-user record
// and login flag are persisted and the UI flips to the logged-in state.
func (m *Manager) Login(ctx context.Context, email, password string) (domain.User, error) {
	if err := validateLogin(email, password); err != nil {
		return domain.User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user := domain.User{
		Email:      email,
		FirstName:  displayNameFromEmail(email),
		LastName:   "User",
		IsLoggedIn: true,
		LoginTime:  m.clock.Now(),
	}
	// A returning signup keeps their full record.
	for _, u := range m.store.Users(ctx) {
		if strings.EqualFold(u.Email, email) {
			user = u
			user.IsLoggedIn = true
			user.LoginTime = m.clock.Now()
			break
		}
	}

	if err := m.persistSession(ctx, user); err != nil {
		return domain.User{}, err
	}

	m.marker.SetLoggedIn(true)
	m.navbar.ShowLoggedIn(user.DisplayName())
	m.notifier.Notify("Login successful! Welcome back!", ui.LevelSuccess)
	return user, nil
}

// Signup validates the whole form before anything is written; a rejection
// leaves no trace. On success the user lands in the users collection keyed
// by email and becomes the current user.
func (m *Manager) Signup(ctx context.Context, form SignupForm) (domain.User, error) {
	if err := validateSignup(form); err != nil {
		return domain.User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user := domain.User{
		Email:         form.Email,
		FirstName:     form.FirstName,
		LastName:      form.LastName,
		MiddleName:    form.MiddleName,
		ContactNumber: form.ContactNumber,
		Address: domain.Address{
			Street:   form.Street,
			Zone:     form.Zone,
			City:     form.City,
			Province: form.Province,
			ZipCode:  form.ZipCode,
		},
		IsLoggedIn: true,
		SignupTime: m.clock.Now(),
	}

	users := m.store.Users(ctx)
	replaced := false
	for i := range users {
		if strings.EqualFold(users[i].Email, user.Email) {
			users[i] = user
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, user)
	}
	if err := m.store.SetUsers(ctx, users); err != nil {
		return domain.User{}, fmt.Errorf("persist users: %w", err)
	}

	if err := m.persistSession(ctx, user); err != nil {
		return domain.User{}, err
	}

	m.marker.SetLoggedIn(true)
	m.navbar.ShowLoggedIn(user.DisplayName())
	m.notifier.Notify("Account created successfully! Welcome!", ui.LevelSuccess)
	return user, nil
}

// Logout clears the session slots and restores the logged-out navbar. The
// cart, wishlist and orders survive a logout.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.RemoveCurrentUser(ctx); err != nil {
		return fmt.Errorf("clear current user: %w", err)
	}
	if err := m.store.SetLoggedIn(ctx, false); err != nil {
		return fmt.Errorf("clear login flag: %w", err)
	}

	m.marker.SetLoggedIn(false)
	m.navbar.ShowLoggedOut()
	m.notifier.Notify("Logged out successfully!", ui.LevelSuccess)
	return nil
}

// CheckSession reconciles the persisted flag and user record into UI state
// without re-running validation: a trust-on-read pass at page load. A login
// flag without a user record is repaired to logged out; a stale user record
// with a false flag is tolerated and never shows as logged in.
func (m *Manager) CheckSession(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	loggedIn := m.store.LoggedIn(ctx)
	user, ok := m.store.CurrentUser(ctx)

	if loggedIn && !ok {
		m.log.Warn("login flag set without a current user, resetting")
		if err := m.store.SetLoggedIn(ctx, false); err != nil {
			m.log.Error("reset login flag", zap.Error(err))
		}
		loggedIn = false
	}

	if loggedIn {
		m.marker.SetLoggedIn(true)
		m.navbar.ShowLoggedIn(user.DisplayName())
		return
	}
	m.marker.SetLoggedIn(false)
	m.navbar.ShowLoggedOut()
}

// CurrentUser reports the logged-in user, if any. A stale user record with
// a false login flag does not count.
func (m *Manager) CurrentUser(ctx context.Context) (domain.User, bool) {
	if !m.store.LoggedIn(ctx) {
		return domain.User{}, false
	}
	return m.store.CurrentUser(ctx)
}

func (m *Manager) persistSession(ctx context.Context, user domain.User) error {
	if err := m.store.SetCurrentUser(ctx, user); err != nil {
		return fmt.Errorf("persist current user: %w", err)
	}
	if err := m.store.SetLoggedIn(ctx, true); err != nil {
		return fmt.Errorf("persist login flag: %w", err)
	}
	return nil
}

func displayNameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	if local == "" {
		return "User"
	}
	return strings.ToUpper(local[:1]) + local[1:]
}

type nopNavbar struct{}

func (nopNavbar) ShowLoggedIn(string) {}
func (nopNavbar) ShowLoggedOut()      {}

type nopMarker struct{}

func (nopMarker) SetLoggedIn(bool) {}

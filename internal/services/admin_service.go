package services

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AdminStore interface {
	FindAdminByEmail(email string) (*Admin, error)
	AddAdmin(a *Admin) error
	UpdateAdmin(a *Admin) error
	AddAudit(e AuditEntry)
}

type TokenSigner func(adminID, email string, ttl time.Duration) (string, error)

const (
	MaxFailedLogins = 5
	LockoutDuration = 15 * time.Minute
	AdminTokenTTL   = 24 * time.Hour
)

type AdminService struct {
	store     AdminStore
	now       func() time.Time
	idGen     func() string
	signToken TokenSigner
	tokenTTL  time.Duration
	logins    emailLocks
}

// emailLocks serialises login attempts per email so the failure counter
// is read and written by one attempt at a time.
type emailLocks struct {
	mu    sync.Mutex
	locks map[string]*emailLock
}

type emailLock struct {
	sync.Mutex
	waiters int
}

func (l *emailLocks) lock(email string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = map[string]*emailLock{}
	}
	el, ok := l.locks[email]
	if !ok {
		el = &emailLock{}
		l.locks[email] = el
	}
	el.waiters++
	l.mu.Unlock()

	el.Lock()
	return func() {
		el.Unlock()
		l.mu.Lock()
		el.waiters--
		if el.waiters == 0 {
			delete(l.locks, email)
		}
		l.mu.Unlock()
	}
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Admin     AdminView `json:"admin"`
}

// AdminView is the admin record without credentials.
type AdminView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	LastLogin time.Time `json:"last_login,omitempty"`
}

func NewAdminService(store AdminStore, signer TokenSigner) *AdminService {
	return &AdminService{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		idGen:     uuid.NewString,
		signToken: signer,
		tokenTTL:  AdminTokenTTL,
	}
}

// EnsureAdmin creates an active admin if none exists for email. Existing
// accounts are left untouched.
func (s *AdminService) EnsureAdmin(email, password, name string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return false, NewInvalidError("email/password required")
	}
	existing, err := s.store.FindAdminByEmail(email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	if name == "" {
		name = "Admin"
	}
	if err := s.store.AddAdmin(&Admin{ID: s.idGen(), Email: email, Name: name, PassHash: hash, Active: true}); err != nil {
		return false, err
	}
	return true, nil
}

// Login checks credentials. Five consecutive failures lock the account for
// fifteen minutes; a successful login clears the counter.
func (s *AdminService) Login(email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	unlock := s.logins.lock(email)
	defer unlock()
	a, err := s.store.FindAdminByEmail(email)
	if err != nil {
		return nil, err
	}
	if a == nil || !a.Active {
		s.audit(email, "admin.login_failed", "unknown or inactive")
		return nil, NewUnauthorizedError("invalid credentials")
	}
	now := s.now()
	if !a.LockoutUntil.IsZero() && now.Before(a.LockoutUntil) {
		s.audit(email, "admin.login_locked", "")
		return nil, NewTooManyRequestsError("account temporarily locked")
	}
	if err := bcrypt.CompareHashAndPassword(a.PassHash, []byte(password)); err != nil {
		a.FailedLogins++
		note := ""
		if a.FailedLogins >= MaxFailedLogins {
			a.LockoutUntil = now.Add(LockoutDuration)
			a.FailedLogins = 0
			note = "locked"
		}
		if uerr := s.store.UpdateAdmin(a); uerr != nil {
			return nil, uerr
		}
		s.audit(email, "admin.login_failed", note)
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if s.signToken == nil {
		return nil, NewUnavailableError("token signer not configured")
	}
	token, err := s.signToken(a.ID, a.Email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	a.FailedLogins = 0
	a.LockoutUntil = time.Time{}
	a.LastLogin = now
	if err := s.store.UpdateAdmin(a); err != nil {
		return nil, err
	}
	s.audit(email, "admin.login", "")
	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.tokenTTL),
		Admin:     AdminView{ID: a.ID, Email: a.Email, Name: a.Name, LastLogin: a.LastLogin},
	}, nil
}

func (s *AdminService) audit(actor, action, note string) {
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: actor, Action: action, Note: note})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

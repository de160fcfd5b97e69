package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ada-inc/ada-engine/pkg/apperrors"
)

// User is an account as exposed to handlers. The password hash never leaves
// the store.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UserStore manages accounts. The only implementation is in-memory; accounts
// do not survive a restart.
type UserStore interface {
	// Register creates an account, failing with apperrors.ErrUserExists when
	// the email is already taken.
	Register(email, name, password string) (*User, error)

	// Authenticate checks credentials, failing with
	// apperrors.ErrInvalidCredentials on an unknown email or a wrong password.
	Authenticate(email, password string) (*User, error)
}

type storedUser struct {
	User
	passwordHash []byte
}

type userStore struct {
	mu     sync.RWMutex
	byMail map[string]*storedUser
	logger *zap.Logger
}

// NewUserStore creates an empty in-memory user store.
func NewUserStore(logger *zap.Logger) UserStore {
	return &userStore{
		byMail: make(map[string]*storedUser),
		logger: logger.Named("users"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userStore) Register(email, name, password string) (*User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byMail[email]; exists {
		return nil, apperrors.ErrUserExists
	}

	u := &storedUser{
		User: User{
			ID:        uuid.NewString(),
			Email:     email,
			Name:      strings.TrimSpace(name),
			CreatedAt: time.Now().UTC(),
		},
		passwordHash: hash,
	}
	s.byMail[email] = u

	s.logger.Info("user registered", zap.String("user_id", u.ID))

	out := u.User
	return &out, nil
}

func (s *userStore) Authenticate(email, password string) (*User, error) {
	email = normalizeEmail(email)

	s.mu.RLock()
	u, ok := s.byMail[email]
	s.mu.RUnlock()

	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	out := u.User
	return &out, nil
}

var _ UserStore = (*userStore)(nil)

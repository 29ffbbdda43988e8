package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSignup      = errors.New("email and password are required")
	ErrEmailTaken         = errors.New("email already registered")
)

type User struct {
	ID       string
	Email    string
	Password string
	Role     string
}

type Session struct {
	Token     string
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// Store issues and resolves bearer session tokens. Sessions live only in
// process memory; restarting the storefront logs everyone out.
type Store struct {
	ttl time.Duration

	mu       sync.Mutex
	users    map[string]User
	sessions map[string]Session
}

func NewStore(ttl time.Duration, users []User) *Store {
	s := &Store{
		ttl:      ttl,
		users:    make(map[string]User),
		sessions: make(map[string]Session),
	}
	for _, u := range users {
		s.users[strings.ToLower(u.Email)] = u
	}
	return s
}

// Register creates a buyer account. New signups always get RoleUser; admin
// accounts are provisioned at startup.
func (s *Store) Register(email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, ErrInvalidSignup
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[email]; exists {
		return User{}, ErrEmailTaken
	}

	u := User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: password,
		Role:     RoleUser,
	}
	s.users[email] = u
	return u, nil
}

func (s *Store) Login(email, password string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return Session{}, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
		return Session{}, ErrInvalidCredentials
	}

	sess := Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Role,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	s.sessions[sess.Token] = sess
	return sess, nil
}

func (s *Store) Resolve(token string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return Session{}, false
	}
	return sess, true
}

func (s *Store) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

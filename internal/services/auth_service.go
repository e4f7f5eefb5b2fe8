package services

import (
	"errors"
	"strings"

	"owlbid/internal/domain"
	"owlbid/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid username or password")

type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Login(sid, username, password string) (*domain.User, error) {
	u, err := s.Users.ByUsername(username)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// Register creates an account and logs it in on the given session.
func (s *AuthService) Register(sid, username, email, password string) (*domain.User, error) {
	if u, err := s.Users.ByUsername(username); err == nil && u != nil {
		return nil, domain.ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	if err := s.Users.Create(id, username, email, string(hash)); err != nil {
		// The unique index catches the race between the lookup above
		// and the insert.
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, domain.ErrUsernameTaken
		}
		return nil, err
	}
	u, err := s.Users.ByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}

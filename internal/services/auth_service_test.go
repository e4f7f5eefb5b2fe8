package services_test

import (
	"testing"

	"owlbid/internal/domain"
	"owlbid/internal/repos"
	"owlbid/internal/services"
)

func TestRegisterAndLogin(t *testing.T) {
	db := memdb(t)
	svc := &services.AuthService{Users: repos.NewUserRepo(db)}

	u, err := svc.Register("sid-1", "luna", "luna@owlbid.test", "Quibbler#1x")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Username != "luna" {
		t.Fatalf("bad user: %+v", u)
	}

	// registration binds the session
	cur, err := svc.CurrentUser("sid-1")
	if err != nil || cur.ID != u.ID {
		t.Fatalf("session not bound: %+v err=%v", cur, err)
	}

	// duplicate handle is rejected, case-insensitively
	if _, err := svc.Register("sid-2", "Luna", "other@owlbid.test", "Quibbler#1x"); err != domain.ErrUsernameTaken {
		t.Fatalf("want ErrUsernameTaken, got %v", err)
	}

	if _, err := svc.Login("sid-3", "luna", "wrong-password"); err != services.ErrBadCreds {
		t.Fatalf("want ErrBadCreds, got %v", err)
	}
	if _, err := svc.Login("sid-3", "luna", "Quibbler#1x"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestLogoutUnbindsSession(t *testing.T) {
	db := memdb(t)
	svc := &services.AuthService{Users: repos.NewUserRepo(db)}

	if _, err := svc.Login("sid-x", "albus", "Passw0rd!"); err != nil {
		t.Fatalf("seeded login: %v", err)
	}
	if err := svc.Logout("sid-x"); err != nil {
		t.Fatal(err)
	}
	if u, err := svc.CurrentUser("sid-x"); err == nil && u != nil {
		t.Fatalf("session still bound after logout: %+v", u)
	}
}

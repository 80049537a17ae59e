package services

import (
	"errors"
	"testing"

	"paperboy/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db)

	user, err := service.Register("alice", "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Points != 1000 {
		t.Errorf("starting points = %d, want 1000", user.Points)
	}
	if user.Password == "s3cret" {
		t.Error("password stored in plaintext")
	}

	loggedIn, err := service.Login("alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("login returned user %d, want %d", loggedIn.ID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db)

	if _, err := service.Register("alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	_, err := service.Register("alice2", "alice@example.com", "other")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("user count = %d, want 1", count)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db)

	if _, err := service.Register("alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := service.Login("alice@example.com", "wrong")
	if !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("err = %v, want ErrInvalidPassword", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db)

	_, err := service.Login("nobody@example.com", "s3cret")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

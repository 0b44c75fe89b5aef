package services

import (
	"context"
	"errors"
	"testing"

	"yelocar/internal/models"
)

func TestGetProfileServedFromCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "users/u1", `{"uid": "u1", "email": "u1@example.com", "fullName": "U One", "role": "buyer"}`)

	if _, err := f.users.GetProfile(ctx, "u1"); err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	f.tree.Fail = models.ErrUnavailable
	profile, err := f.users.GetProfile(ctx, "u1")
	if err != nil || profile.FullName != "U One" {
		t.Fatalf("cached GetProfile() = %+v, %v", profile, err)
	}
}

func TestGetProfileLegacyPhoneField(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "users/u1", `{"uid": "u1", "phoneNo": "9876543210", "role": "buyer"}`)

	profile, err := f.users.GetProfile(context.Background(), "u1")
	if err != nil || profile.PhoneNumber != "9876543210" {
		t.Fatalf("GetProfile() = %+v, %v", profile, err)
	}
}

func TestUpdateProfileKeepsRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "users/u1", `{"uid": "u1", "fullName": "Old", "role": "admin", "createdAt": "2024-01-01T00:00:00Z"}`)

	if _, err := f.users.GetProfile(ctx, "u1"); err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}

	name, phone := " New Name ", "91234 56789"
	profile, err := f.users.UpdateProfile(ctx, "u1", &models.UpdateProfileRequest{FullName: &name, PhoneNumber: &phone})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if profile.FullName != "New Name" || profile.PhoneNumber != "9123456789" {
		t.Fatalf("stale or wrong profile: %+v", profile)
	}
	if profile.Role != models.RoleAdmin || profile.CreatedAt != "2024-01-01T00:00:00Z" || profile.UpdatedAt == "" {
		t.Fatalf("protected fields changed: %+v", profile)
	}

	bad := "1"
	if _, err := f.users.UpdateProfile(ctx, "u1", &models.UpdateProfileRequest{PhoneNumber: &bad}); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.users.UpdateProfile(ctx, "ghost", &models.UpdateProfileRequest{FullName: &name}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateUserRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "users/u1", `{"uid": "u1", "role": "buyer"}`)

	if _, err := f.users.GetProfile(ctx, "u1"); err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	profile, err := f.users.UpdateUserRole(ctx, "admin-1", "u1", &models.UpdateRoleRequest{Role: models.RoleAdmin})
	if err != nil || profile.Role != models.RoleAdmin {
		t.Fatalf("UpdateUserRole() = %+v, %v", profile, err)
	}

	if _, err := f.users.UpdateUserRole(ctx, "admin-1", "u1", &models.UpdateRoleRequest{Role: "owner"}); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	n, err := f.users.CountUsers(ctx)
	if err != nil || n != 1 {
		t.Fatalf("CountUsers() = %d, %v", n, err)
	}
}

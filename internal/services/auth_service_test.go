package services

import (
	"context"
	"errors"
	"testing"

	"yelocar/internal/models"
	"yelocar/internal/utils"
	"yelocar/pkg/firebase"
	"yelocar/pkg/logger"
)

func signUpRequest(email string) *models.SignUpRequest {
	return &models.SignUpRequest{
		FullName:        "  Asha Rao ",
		PhoneNumber:     "98765 43210",
		Email:           email,
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestSignUpCreatesBuyerProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	profile, err := f.auth.SignUp(ctx, signUpRequest("Asha@Example.com"))
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if profile.Role != models.RoleBuyer || profile.FullName != "Asha Rao" || profile.PhoneNumber != "9876543210" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if profile.Email != "asha@example.com" {
		t.Fatalf("email not normalised: %q", profile.Email)
	}

	stored, err := f.users.GetProfile(ctx, profile.UID)
	if err != nil || stored.Role != models.RoleBuyer {
		t.Fatalf("stored profile = %+v, %v", stored, err)
	}
}

func TestSignUpRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	req := signUpRequest("asha@example.com")
	req.ConfirmPassword = "other"
	req.PhoneNumber = "123"

	_, err := f.auth.SignUp(context.Background(), req)
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.identity.users) != 0 {
		t.Fatalf("identity must not be created for invalid input")
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.auth.SignUp(ctx, signUpRequest("asha@example.com")); err != nil {
		t.Fatalf("first SignUp() error = %v", err)
	}

	_, err := f.auth.SignUp(ctx, signUpRequest("asha@example.com"))
	if code := firebase.AuthCode(err); code != firebase.CodeEmailAlreadyInUse {
		t.Fatalf("expected %s, got %q (%v)", firebase.CodeEmailAlreadyInUse, code, err)
	}
	if msg := AuthErrorMessage(firebase.AuthCode(err)); msg != "An account with this email already exists." {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestSignUpRollsBackIdentity(t *testing.T) {
	f := newFixture(t)
	f.tree.Fail = models.ErrUnavailable

	_, err := f.auth.SignUp(context.Background(), signUpRequest("asha@example.com"))
	if !errors.Is(err, models.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if len(f.identity.deleted) != 1 || len(f.identity.users) != 0 {
		t.Fatalf("identity not rolled back: deleted=%v users=%v", f.identity.deleted, f.identity.users)
	}
}

func TestCreateSessionLanding(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "users", `{
		"admin-1": {"uid": "admin-1", "email": "admin@example.com", "role": "admin"},
		"buyer-1": {"uid": "buyer-1", "email": "buyer@example.com", "role": "buyer"}
	}`)
	f.identity.tokens["admin-token"] = &firebase.Identity{UID: "admin-1", Email: "admin@example.com"}
	f.identity.tokens["buyer-token"] = &firebase.Identity{UID: "buyer-1", Email: "buyer@example.com"}
	f.identity.tokens["orphan-token"] = &firebase.Identity{UID: "orphan-1"}

	cases := []struct {
		token   string
		landing string
		profile bool
	}{
		{"admin-token", utils.PathAdminDashboard, true},
		{"buyer-token", utils.PathHome, true},
		{"orphan-token", utils.PathHome, false},
	}
	for _, tc := range cases {
		resp, err := f.auth.CreateSession(ctx, &models.SessionRequest{IDToken: tc.token})
		if err != nil {
			t.Fatalf("%s: CreateSession() error = %v", tc.token, err)
		}
		if resp.Landing != tc.landing {
			t.Fatalf("%s: landing = %q, want %q", tc.token, resp.Landing, tc.landing)
		}
		if (resp.Profile != nil) != tc.profile {
			t.Fatalf("%s: profile presence = %v", tc.token, resp.Profile != nil)
		}
		if resp.ExpiresIn != 3600 {
			t.Fatalf("%s: expiresIn = %d", tc.token, resp.ExpiresIn)
		}

		claims, err := f.auth.ValidateSession(resp.Token)
		if err != nil {
			t.Fatalf("%s: ValidateSession() error = %v", tc.token, err)
		}
		if claims.UserID != f.identity.tokens[tc.token].UID {
			t.Fatalf("%s: claims for %q", tc.token, claims.UserID)
		}
	}
}

func TestCreateSessionRejectsBadToken(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.CreateSession(context.Background(), &models.SessionRequest{IDToken: "nope"})
	if firebase.AuthCode(err) != firebase.CodeInvalidIDToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}

	_, err = f.auth.CreateSession(context.Background(), &models.SessionRequest{IDToken: "  "})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error for empty token, got %v", err)
	}
}

func TestValidateSessionRejectsForeignToken(t *testing.T) {
	f := newFixture(t)
	token, err := utils.GenerateSessionToken("u1", "", "other-secret", 0)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}
	if _, err := f.auth.ValidateSession(token); !errors.Is(err, models.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestDeleteAccountRemovesUserData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedCatalog(t)

	profile, err := f.auth.SignUp(ctx, signUpRequest("asha@example.com"))
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	uid := profile.UID
	if _, err := f.bookings.CreateBooking(ctx, uid, validBooking("honda-city")); err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}
	f.seed(t, "message/"+uid, `{"FullName": "Asha", "Message": "hello"}`)

	if err := f.auth.DeleteAccount(ctx, uid); err != nil {
		t.Fatalf("DeleteAccount() error = %v", err)
	}

	for _, path := range []string{"users/" + uid, "BookingCar/" + uid, "message/" + uid} {
		var v interface{}
		found, err := f.tree.Get(ctx, path, &v)
		if err != nil || found {
			t.Fatalf("%s still present (found=%v err=%v)", path, found, err)
		}
	}
	if len(f.identity.deleted) != 1 || f.identity.deleted[0] != uid {
		t.Fatalf("identity not deleted: %v", f.identity.deleted)
	}
}

func TestAuthErrorMessage(t *testing.T) {
	cases := map[string]string{
		firebase.CodeUserNotFound:    "No account found with this email address.",
		firebase.CodeWrongPassword:   "Incorrect password. Please try again.",
		firebase.CodeInvalidEmail:    "Please enter a valid email address.",
		firebase.CodeTooManyRequests: "Too many failed attempts. Please try again later.",
		firebase.CodeNetworkFailed:   "Network error. Please check your internet connection.",
		firebase.CodeWeakPassword:    "Password is too weak. Please choose a stronger password.",
		"auth/something-new":         "Something went wrong. Please try again.",
		"":                           "Something went wrong. Please try again.",
	}
	for code, want := range cases {
		if got := AuthErrorMessage(code); got != want {
			t.Fatalf("AuthErrorMessage(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestAuthWithoutIdentityProvider(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(nil, f.users, nil, nil, NewAuditService(nil, logger.Discard()), "s", 0, logger.Discard())
	if _, err := svc.CreateSession(context.Background(), &models.SessionRequest{IDToken: "x"}); !errors.Is(err, models.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

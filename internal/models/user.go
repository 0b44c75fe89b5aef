package models

import "encoding/json"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleBuyer Role = "buyer"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleBuyer
}

// UserProfile lives under users/{uid}. Role is set once at sign-up and only
// changed through the admin role update.
type UserProfile struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Role        Role   `json:"role"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// UnmarshalJSON also accepts phoneNo, which an early profile form wrote.
func (u *UserProfile) UnmarshalJSON(data []byte) error {
	type plain UserProfile
	var raw struct {
		plain
		PhoneNo FlexString `json:"phoneNo"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = UserProfile(raw.plain)
	if u.PhoneNumber == "" && raw.PhoneNo.Valid {
		u.PhoneNumber = raw.PhoneNo.Value
	}
	return nil
}

type SignUpRequest struct {
	FullName        string `json:"fullName" validate:"required,min=2,max=100"`
	PhoneNumber     string `json:"phoneNumber" validate:"required,phone_number"`
	Email           string `json:"email" validate:"required,email_address"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type SessionRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"`
	Profile   *UserProfile `json:"profile"`
	Landing   string       `json:"redirectTo"`
}

type UpdateProfileRequest struct {
	FullName    *string `json:"fullName" validate:"omitempty,min=2,max=100"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,phone_number"`
}

type UpdateRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=admin buyer"`
}

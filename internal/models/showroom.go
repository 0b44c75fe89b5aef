package models

type ShowroomStatus string

const (
	ShowroomStatusActive   ShowroomStatus = "active"
	ShowroomStatusInactive ShowroomStatus = "inactive"
)

type Showroom struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Address   string         `json:"address"`
	City      string         `json:"city"`
	State     string         `json:"state"`
	Phone     string         `json:"phone"`
	Email     string         `json:"email"`
	Manager   string         `json:"manager"`
	Latitude  *float64       `json:"latitude,omitempty"`
	Longitude *float64       `json:"longitude,omitempty"`
	Status    ShowroomStatus `json:"status"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt,omitempty"`
}

type ShowroomRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state"`
	Phone   string `json:"phone" validate:"required,phone_number"`
	Email   string `json:"email" validate:"omitempty,email_address"`
	Manager string `json:"manager"`
}

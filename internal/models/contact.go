package models

// ContactForm is stored under contactForms/{pushId}.
type ContactForm struct {
	ID        string `json:"id,omitempty"`
	UserID    string `json:"userId,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

// UserMessage is the per-user copy under message/{uid}, in the field layout
// the admin contact screen reads.
type UserMessage struct {
	FullName  string `json:"FullName"`
	Contactno string `json:"Contactno"`
	Email     string `json:"Email"`
	Message   string `json:"Message"`
	CreatedAt string `json:"createdAt"`
}

func (m UserMessage) Form(userID string) ContactForm {
	return ContactForm{
		ID:        userID,
		UserID:    userID,
		Name:      m.FullName,
		Email:     m.Email,
		Phone:     m.Contactno,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email_address"`
	Phone   string `json:"phone" validate:"required,phone_number"`
	Message string `json:"message" validate:"required,min=5,max=2000"`
}

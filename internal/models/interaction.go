package models

type InteractionAction string

const (
	ActionView    InteractionAction = "view"
	ActionLike    InteractionAction = "like"
	ActionShare   InteractionAction = "share"
	ActionContact InteractionAction = "contact"
)

func (a InteractionAction) Valid() bool {
	switch a {
	case ActionView, ActionLike, ActionShare, ActionContact:
		return true
	}
	return false
}

// InteractionEvent is one entry of the append-only featureInteractions log.
// UserID is empty for guests.
type InteractionEvent struct {
	ID        string            `json:"id,omitempty"`
	UserID    string            `json:"userId"`
	FeatureID string            `json:"featureId"`
	Action    InteractionAction `json:"action"`
	Timestamp string            `json:"timestamp"`
}

type RecordInteractionRequest struct {
	FeatureID string `json:"featureId" validate:"required,max=128"`
	Action    string `json:"action" validate:"required,interaction_action"`
}

// VehicleStats is the per-vehicle interaction summary used by the dashboard.
type VehicleStats struct {
	VehicleID string        `json:"vehicleId"`
	Name      string        `json:"name"`
	Category  string        `json:"category"`
	Price     int64         `json:"price"`
	ImageSrc  string        `json:"imageSrc"`
	Status    VehicleStatus `json:"status"`
	Views     int           `json:"views"`
	Likes     int           `json:"likes"`
	Shares    int           `json:"shares"`
	Contacts  int           `json:"contacts"`
	Total     int           `json:"totalInteractions"`
}

// Score is the popularity measure used for ranking.
func (s VehicleStats) Score() int {
	return s.Views + s.Contacts
}

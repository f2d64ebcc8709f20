package models

// PushTarget names which side receives a push.
type PushTarget string

const (
	PushTargetProfile   PushTarget = "profile"
	PushTargetWorkshop  PushTarget = "workshop"
	PushTargetAdminPool PushTarget = "admins"
)

// PushMessage is the payload carried on the side-effect queue for the
// notification worker.
type PushMessage struct {
	Target   PushTarget        `json:"target"`
	TargetID string            `json:"target_id,omitempty"` // empty for the admin pool
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
}

package models

import "time"

// WorkshopService is one service a workshop offers for booking.
// MinNoticeHours is the shortest notice required between booking time and the
// appointment; zero means no minimum.
type WorkshopService struct {
	ID             string  `bson:"id" json:"id"`
	Name           string  `bson:"name" json:"name"`
	Value          float64 `bson:"value,omitempty" json:"value,omitempty"`
	MinNoticeHours int     `bson:"min_notice_hours,omitempty" json:"min_notice_hours,omitempty"`
}

// Workshop is the repair-shop profile the scheduling engine reads for guards
// and notification targets. Registration and profile CRUD live outside this
// engine.
type Workshop struct {
	ID        string            `bson:"id" json:"id"`
	Name      string            `bson:"name" json:"name"`
	Address   string            `bson:"address,omitempty" json:"address,omitempty"`
	Services  []WorkshopService `bson:"services" json:"services"`
	FCMToken  string            `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time         `bson:"updated_at" json:"updated_at"`
}

// ServiceByID returns the offered service with the given id.
func (w *Workshop) ServiceByID(id string) (WorkshopService, bool) {
	for _, s := range w.Services {
		if s.ID == id {
			return s, true
		}
	}
	return WorkshopService{}, false
}

// Profile is the customer account the engine reads for ownership guards,
// snapshots and notification targets.
type Profile struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	FCMToken  string    `bson:"fcm_token,omitempty" json:"-"`
	Vehicles  []Vehicle `bson:"vehicles,omitempty" json:"vehicles,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Vehicle is a customer vehicle eligible for scheduling.
type Vehicle struct {
	ID    string `bson:"id" json:"id"`
	Plate string `bson:"plate" json:"plate"`
	Model string `bson:"model,omitempty" json:"model,omitempty"`
	Brand string `bson:"brand,omitempty" json:"brand,omitempty"`
}

// Admin is a platform administrator able to resolve disputes.
type Admin struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	FCMToken string `bson:"fcm_token,omitempty" json:"-"`
}

package models

import "time"

// SchedulingHistory is one append-only audit entry. Exactly one entry is
// recorded per accepted status change; entries are never updated or deleted.
type SchedulingHistory struct {
	ID           string    `bson:"id" json:"id"`
	SchedulingID string    `bson:"scheduling_id" json:"scheduling_id"`
	Status       Status    `bson:"status" json:"status"`
	Title        string    `bson:"title" json:"title"`
	Description  string    `bson:"description" json:"description"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

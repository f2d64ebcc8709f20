package models

import "time"

// SlotBooking summarizes the scheduling occupying a taken slot, shown only on
// the workshop-facing availability view.
type SlotBooking struct {
	SchedulingID string `json:"scheduling_id"`
	CustomerName string `json:"customer_name"`
	VehiclePlate string `json:"vehicle_plate"`
	VehicleModel string `json:"vehicle_model,omitempty"`
}

// DaySlot is one generated candidate slot with its availability flag.
type DaySlot struct {
	Time      string       `json:"time"` // civil "HH:MM" in the platform timezone
	Timestamp time.Time    `json:"timestamp"`
	Available bool         `json:"available"`
	BookedBy  *SlotBooking `json:"booked_by,omitempty"`
}

// DayAvailability is the calculator output for one (workshop, date) pair.
// Customers receive AvailableTimes only; workshops receive the full annotated
// Slots list.
type DayAvailability struct {
	Date           string    `json:"date"`
	Open           bool      `json:"open"`
	Slots          []DaySlot `json:"slots,omitempty"`
	AvailableTimes []string  `json:"available_times,omitempty"`
}

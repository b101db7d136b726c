package dto

import "time"

// AppointmentView is the read projection returned by the API: the normalized
// appointment row plus client, service and professional display names.
type AppointmentView struct {
	ID               uint      `json:"id"`
	ClientID         uint      `json:"client_id"`
	ClientName       string    `json:"client_name"`
	ServiceID        uint      `json:"service_id"`
	ServiceName      string    `json:"service_name"`
	ProfessionalID   *uint     `json:"professional_id"`
	ProfessionalName string    `json:"professional_name,omitempty"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	EndTime          string    `json:"end_time"`
	Duration         int       `json:"duration"`
	Status           string    `json:"status"`
	Price            float64   `json:"price"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AppointmentFilter holds the optional criteria of the appointments list.
// Nil / empty fields are not applied.
type AppointmentFilter struct {
	Date           *time.Time
	From           *time.Time
	To             *time.Time
	ProfessionalID *uint
	ClientID       *uint
	Status         string
	Page           int
	Limit          int
}

func (f *AppointmentFilter) Normalize() {
	f.Page, f.Limit = normalizePage(f.Page, f.Limit)
}

func (f AppointmentFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

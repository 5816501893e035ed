package trip

import (
	"time"

	"backend-packshare/internal/loadcalc"
)

type Trip struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Type      loadcalc.TripType `json:"type"`
	Season    loadcalc.Season   `json:"season"`
	StartDate time.Time         `json:"start_date"`
	EndDate   time.Time         `json:"end_date"`
	CreatedBy string            `json:"created_by"`
	CreatedAt time.Time         `json:"created_at"`
}

// TripMember is a roster row. Optional fields stay nil when the member
// did not provide them.
type TripMember struct {
	TripID       string     `json:"trip_id"`
	UserID       string     `json:"user_id"`
	Name         string     `json:"name"`
	BodyWeightKg *float64   `json:"body_weight_kg"`
	Gender       *string    `json:"gender"`
	BirthDate    *time.Time `json:"birth_date"`
	JoinedAt     time.Time  `json:"joined_at"`
}

func (m TripMember) Participant() loadcalc.Participant {
	p := loadcalc.Participant{
		ID:           m.UserID,
		Name:         m.Name,
		BodyWeightKg: m.BodyWeightKg,
		BirthDate:    m.BirthDate,
	}
	if m.Gender != nil {
		p.Gender = *m.Gender
	}
	return p
}

// Package loadcalc computes how much each trip participant carries and how
// equipment can be handed around so nobody exceeds a safe share of their
// body weight. Everything here is pure: callers load the roster, the
// assignments and the meal products, and pass them in.
package loadcalc

import (
	"fmt"
	"strings"
	"time"

	"backend-packshare/internal/shared/apperr"
)

type TripType string

const (
	TripHiking TripType = "hiking"
	TripSki    TripType = "ski"
	TripWater  TripType = "water"
)

type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
)

func ParseTripType(raw string) (TripType, error) {
	switch t := TripType(strings.ToLower(strings.TrimSpace(raw))); t {
	case TripHiking, TripSki, TripWater:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown trip type %q", apperr.ErrInvalidInput, raw)
}

func ParseSeason(raw string) (Season, error) {
	switch s := Season(strings.ToLower(strings.TrimSpace(raw))); s {
	case SeasonWinter, SeasonSpring, SeasonSummer, SeasonAutumn:
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown season %q", apperr.ErrInvalidInput, raw)
}

type TripContext struct {
	Type   TripType
	Season Season
}

// Participant is one roster entry. Nil body weight and birth date, and an
// empty gender, mean the value is absent and defaults apply.
type Participant struct {
	ID           string
	Name         string
	BodyWeightKg *float64
	Gender       string
	BirthDate    *time.Time
}

// Item is one trip assignment resolved against its catalog entry.
type Item struct {
	AssignmentID string
	EquipmentID  string
	Name         string
	Weight       float64
	CustomWeight *float64
	IsGroupItem  bool
	AssignedTo   string
}

// EffectiveWeight is the custom override when present, the catalog weight otherwise.
func (i Item) EffectiveWeight() float64 {
	if i.CustomWeight != nil {
		return *i.CustomWeight
	}
	return i.Weight
}

type FoodPortion struct {
	Name           string
	GramsPerPerson float64
}

type ParticipantLoad struct {
	ParticipantID   string  `json:"participant_id"`
	Name            string  `json:"name"`
	EquipmentWeight float64 `json:"equipment_weight"`
	FoodWeight      float64 `json:"food_weight"`
	TotalWeight     float64 `json:"total_weight"`
	MaxWeight       float64 `json:"max_weight"`
	IsOverloaded    bool    `json:"is_overloaded"`
	LoadPercentage  int     `json:"load_percentage"`
	Tip             string  `json:"tip,omitempty"`
}

type Summary struct {
	TotalEquipmentWeight float64 `json:"total_equipment_weight"`
	TotalFoodWeight      float64 `json:"total_food_weight"`
	TotalWeight          float64 `json:"total_weight"`
	AveragePerPerson     float64 `json:"average_per_person"`
}

type Report struct {
	Participants []ParticipantLoad `json:"participants"`
	Summary      Summary           `json:"summary"`
}

// Move hands one assignment from its current owner to another participant.
type Move struct {
	AssignmentID string  `json:"assignment_id"`
	FromID       string  `json:"from_id"`
	NewOwnerID   string  `json:"new_owner_id"`
	Weight       float64 `json:"weight"`
}

func validate(roster []Participant, items []Item, food []FoodPortion) error {
	for _, p := range roster {
		if p.BodyWeightKg != nil && *p.BodyWeightKg <= 0 {
			return fmt.Errorf("%w: body weight of %s must be positive", apperr.ErrInvalidInput, p.ID)
		}
	}
	for _, it := range items {
		if it.Weight < 0 {
			return fmt.Errorf("%w: weight of %s is negative", apperr.ErrInvalidInput, it.Name)
		}
		if it.CustomWeight != nil && *it.CustomWeight < 0 {
			return fmt.Errorf("%w: custom weight of %s is negative", apperr.ErrInvalidInput, it.Name)
		}
	}
	for _, f := range food {
		if f.GramsPerPerson < 0 {
			return fmt.Errorf("%w: grams per person of %s is negative", apperr.ErrInvalidInput, f.Name)
		}
	}
	return nil
}

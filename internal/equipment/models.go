package equipment

import (
	"fmt"
	"time"

	"backend-packshare/internal/loadcalc"
	"backend-packshare/internal/shared/apperr"
)

type Status string

const (
	StatusPlanned Status = "planned"
	StatusPacked  Status = "packed"
)

func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusPlanned, StatusPacked:
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidInput, raw)
}

// CatalogItem is reference data shared by every trip.
type CatalogItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Weight      float64   `json:"weight"`
	IsGroupItem bool      `json:"is_group_item"`
	CreatedAt   time.Time `json:"created_at"`
}

// Assignment is a catalog item placed on a trip, resolved against the
// catalog and the owner's roster entry.
type Assignment struct {
	ID           string    `json:"id"`
	TripID       string    `json:"trip_id"`
	EquipmentID  string    `json:"equipment_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Weight       float64   `json:"weight"`
	IsGroupItem  bool      `json:"is_group_item"`
	AssignedToID *string   `json:"assigned_to_id"`
	AssigneeName *string   `json:"assignee_name"`
	CustomWeight *float64  `json:"custom_weight"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a Assignment) Item() loadcalc.Item {
	it := loadcalc.Item{
		AssignmentID: a.ID,
		EquipmentID:  a.EquipmentID,
		Name:         a.Name,
		Weight:       a.Weight,
		CustomWeight: a.CustomWeight,
		IsGroupItem:  a.IsGroupItem,
	}
	if a.AssignedToID != nil {
		it.AssignedTo = *a.AssignedToID
	}
	return it
}

type AddItemInput struct {
	EquipmentID  string   `json:"equipment_id"`
	AssignedToID *string  `json:"assigned_to_id"`
	CustomWeight *float64 `json:"custom_weight"`
}

// Patch changes an assignment's custom weight or status. ResetCustomWeight
// falls back to the catalog weight.
type Patch struct {
	CustomWeight      *float64 `json:"custom_weight"`
	ResetCustomWeight bool     `json:"reset_custom_weight"`
	Status            string   `json:"status"`
}

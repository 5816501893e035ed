package equipment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backend-packshare/internal/db"
	"backend-packshare/internal/loadcalc"
	"backend-packshare/internal/shared/apperr"
	"backend-packshare/internal/triplock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type Service struct {
	db     db.TxQuerier
	locker triplock.Locker
	log    zerolog.Logger
}

func NewService(db db.TxQuerier, locker triplock.Locker, log zerolog.Logger) *Service {
	return &Service{db: db, locker: locker, log: log}
}

// PlanFunc proposes moves for the trip's current assignments. q reads inside
// the same transaction the moves are applied in.
type PlanFunc func(ctx context.Context, q db.Querier, items []loadcalc.Item) ([]loadcalc.Move, error)

func (s *Service) CreateItem(ctx context.Context, input CatalogItem) (CatalogItem, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return CatalogItem{}, fmt.Errorf("%w: name required", apperr.ErrInvalidInput)
	}
	if input.Weight < 0 {
		return CatalogItem{}, fmt.Errorf("%w: weight must not be negative", apperr.ErrInvalidInput)
	}
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO equipment_items (id, name, category, weight, is_group_item)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, input.ID, input.Name, input.Category, input.Weight, input.IsGroupItem)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return CatalogItem{}, err
	}
	return input, nil
}

func (s *Service) ListItems(ctx context.Context) ([]CatalogItem, error) {
	return listCatalog(ctx, s.db)
}

// AddItem places a catalog item on a trip, optionally with an owner. An
// owner for a group item goes through the same exclusivity check as Assign.
func (s *Service) AddItem(ctx context.Context, tripID string, input AddItemInput) (Assignment, error) {
	if input.EquipmentID == "" {
		return Assignment{}, fmt.Errorf("%w: equipment_id required", apperr.ErrInvalidInput)
	}
	if input.CustomWeight != nil && *input.CustomWeight < 0 {
		return Assignment{}, fmt.Errorf("%w: custom weight must not be negative", apperr.ErrInvalidInput)
	}

	var out Assignment
	err := s.inTrip(ctx, tripID, func(tx pgx.Tx) error {
		item, err := getCatalogItem(ctx, tx, input.EquipmentID)
		if err != nil {
			return err
		}
		out = Assignment{
			ID:           uuid.NewString(),
			TripID:       tripID,
			EquipmentID:  item.ID,
			Name:         item.Name,
			Category:     item.Category,
			Weight:       item.Weight,
			IsGroupItem:  item.IsGroupItem,
			CustomWeight: input.CustomWeight,
			Status:       StatusPlanned,
		}
		if input.AssignedToID != nil {
			name, err := memberName(ctx, tx, tripID, *input.AssignedToID)
			if err != nil {
				return err
			}
			out.AssignedToID = input.AssignedToID
			out.AssigneeName = &name
		}
		return insertAssignment(ctx, tx, &out)
	})
	if err != nil {
		s.logRejected(err, tripID, "", input.AssignedToID)
		return Assignment{}, err
	}
	return out, nil
}

// GenerateFromCatalog fills the trip's list from the catalog: one unowned
// row per group item and, for every personal item, one row per member owned
// by that member. Rows the trip already has are kept, so a second run only
// adds what is missing.
func (s *Service) GenerateFromCatalog(ctx context.Context, tripID string) ([]Assignment, error) {
	created := []Assignment{}
	err := s.inTrip(ctx, tripID, func(tx pgx.Tx) error {
		catalog, err := listCatalog(ctx, tx)
		if err != nil {
			return err
		}
		members, err := listRoster(ctx, tx, tripID)
		if err != nil {
			return err
		}
		existing, err := listAssignments(ctx, tx, tripID)
		if err != nil {
			return err
		}

		type personal struct{ equipmentID, userID string }
		haveGroup := make(map[string]bool)
		havePersonal := make(map[personal]bool)
		for _, a := range existing {
			switch {
			case a.IsGroupItem:
				haveGroup[a.EquipmentID] = true
			case a.AssignedToID != nil:
				havePersonal[personal{a.EquipmentID, *a.AssignedToID}] = true
			}
		}

		add := func(item CatalogItem, owner *rosterEntry) error {
			a := Assignment{
				ID:          uuid.NewString(),
				TripID:      tripID,
				EquipmentID: item.ID,
				Name:        item.Name,
				Category:    item.Category,
				Weight:      item.Weight,
				IsGroupItem: item.IsGroupItem,
				Status:      StatusPlanned,
			}
			if owner != nil {
				a.AssignedToID = &owner.userID
				a.AssigneeName = &owner.name
			}
			if err := insertAssignment(ctx, tx, &a); err != nil {
				return err
			}
			created = append(created, a)
			return nil
		}

		for _, item := range catalog {
			if item.IsGroupItem {
				if haveGroup[item.ID] {
					continue
				}
				if err := add(item, nil); err != nil {
					return err
				}
				haveGroup[item.ID] = true
				continue
			}
			for i := range members {
				if havePersonal[personal{item.ID, members[i].userID}] {
					continue
				}
				if err := add(item, &members[i]); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("trip_id", tripID).Int("created", len(created)).Msg("equipment generated from catalog")
	return created, nil
}

func (s *Service) Assignments(ctx context.Context, tripID string) ([]Assignment, error) {
	return listAssignments(ctx, s.db, tripID)
}

// Assign gives an assignment to a participant. A group item that already
// has an owner elsewhere in the trip is rejected with ErrConflict and left
// untouched.
func (s *Service) Assign(ctx context.Context, tripID, assignmentID, participantID string) (Assignment, error) {
	if participantID == "" {
		return Assignment{}, fmt.Errorf("%w: participant_id required", apperr.ErrInvalidInput)
	}

	var out Assignment
	err := s.inTrip(ctx, tripID, func(tx pgx.Tx) error {
		a, err := getAssignment(ctx, tx, tripID, assignmentID)
		if err != nil {
			return err
		}
		name, err := memberName(ctx, tx, tripID, participantID)
		if err != nil {
			return err
		}
		if a.IsGroupItem {
			if err := guardGroupItem(ctx, tx, tripID, a.EquipmentID, a.ID); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx, `UPDATE trip_equipment SET assigned_to_id=$3 WHERE trip_id=$1 AND id=$2`, tripID, a.ID, participantID); err != nil {
			return err
		}
		a.AssignedToID = &participantID
		a.AssigneeName = &name
		out = a
		return nil
	})
	if err != nil {
		s.logRejected(err, tripID, assignmentID, &participantID)
		return Assignment{}, err
	}
	return out, nil
}

// Release clears the owner of an assignment.
func (s *Service) Release(ctx context.Context, tripID, assignmentID string) (Assignment, error) {
	var out Assignment
	err := s.inTrip(ctx, tripID, func(tx pgx.Tx) error {
		a, err := getAssignment(ctx, tx, tripID, assignmentID)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE trip_equipment SET assigned_to_id=NULL WHERE trip_id=$1 AND id=$2`, tripID, a.ID); err != nil {
			return err
		}
		a.AssignedToID = nil
		a.AssigneeName = nil
		out = a
		return nil
	})
	if err != nil {
		return Assignment{}, err
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, tripID, assignmentID string, patch Patch) (Assignment, error) {
	if patch.CustomWeight != nil && *patch.CustomWeight < 0 {
		return Assignment{}, fmt.Errorf("%w: custom weight must not be negative", apperr.ErrInvalidInput)
	}
	var status Status
	if patch.Status != "" {
		st, err := ParseStatus(patch.Status)
		if err != nil {
			return Assignment{}, err
		}
		status = st
	}

	var out Assignment
	err := s.inTrip(ctx, tripID, func(tx pgx.Tx) error {
		a, err := getAssignment(ctx, tx, tripID, assignmentID)
		if err != nil {
			return err
		}
		switch {
		case patch.ResetCustomWeight:
			a.CustomWeight = nil
		case patch.CustomWeight != nil:
			a.CustomWeight = patch.CustomWeight
		}
		if status != "" {
			a.Status = status
		}
		if _, err := tx.Exec(ctx, `
			UPDATE trip_equipment SET custom_weight=$3, status=$4
			WHERE trip_id=$1 AND id=$2
		`, tripID, a.ID, a.CustomWeight, string(a.Status)); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return Assignment{}, err
	}
	return out, nil
}

func (s *Service) Remove(ctx context.Context, tripID, assignmentID string) error {
	return s.inTrip(ctx, tripID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM trip_equipment WHERE trip_id=$1 AND id=$2`, tripID, assignmentID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: assignment %s", apperr.ErrNotFound, assignmentID)
		}
		return nil
	})
}

// Loadout returns the trip's assignments in creation order, shaped for the
// weight engine.
func (s *Service) Loadout(ctx context.Context, tripID string) ([]loadcalc.Item, error) {
	assignments, err := listAssignments(ctx, s.db, tripID)
	if err != nil {
		return nil, err
	}
	return toItems(assignments), nil
}

// Rebalance reads the trip's assignments, asks plan for moves and applies
// them, all under the trip lock and inside one transaction.
func (s *Service) Rebalance(ctx context.Context, tripID string, plan PlanFunc) ([]loadcalc.Move, error) {
	var moves []loadcalc.Move
	err := s.inTrip(ctx, tripID, func(tx pgx.Tx) error {
		assignments, err := listAssignments(ctx, tx, tripID)
		if err != nil {
			return err
		}
		moves, err = plan(ctx, tx, toItems(assignments))
		if err != nil {
			return err
		}
		return ApplyMoves(ctx, tx, tripID, moves)
	})
	if err != nil {
		return nil, err
	}
	return moves, nil
}

func (s *Service) inTrip(ctx context.Context, tripID string, fn func(tx pgx.Tx) error) error {
	release, err := s.locker.Lock(ctx, tripID)
	if err != nil {
		return err
	}
	defer release()

	return db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		if err := lockTrip(ctx, tx, tripID); err != nil {
			return err
		}
		return fn(tx)
	})
}

func (s *Service) logRejected(err error, tripID, assignmentID string, participantID *string) {
	if !errors.Is(err, apperr.ErrConflict) {
		return
	}
	ev := s.log.Warn().Err(err).Str("trip_id", tripID)
	if assignmentID != "" {
		ev = ev.Str("assignment_id", assignmentID)
	}
	if participantID != nil {
		ev = ev.Str("participant_id", *participantID)
	}
	ev.Msg("group item assignment rejected")
}

func toItems(assignments []Assignment) []loadcalc.Item {
	items := make([]loadcalc.Item, 0, len(assignments))
	for _, a := range assignments {
		items = append(items, a.Item())
	}
	return items
}

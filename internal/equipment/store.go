package equipment

import (
	"context"
	"errors"
	"fmt"

	"backend-packshare/internal/db"
	"backend-packshare/internal/loadcalc"
	"backend-packshare/internal/shared/apperr"

	"github.com/jackc/pgx/v5"
)

const assignmentSelect = `
	SELECT te.id, te.trip_id, te.equipment_id, ei.name, ei.category, ei.weight, ei.is_group_item,
		te.assigned_to_id, tm.name, te.custom_weight, te.status, te.created_at
	FROM trip_equipment te
	JOIN equipment_items ei ON ei.id = te.equipment_id
	LEFT JOIN trip_members tm ON tm.trip_id = te.trip_id AND tm.user_id = te.assigned_to_id
`

func scanAssignment(row pgx.Row) (Assignment, error) {
	var (
		a      Assignment
		status string
	)
	err := row.Scan(&a.ID, &a.TripID, &a.EquipmentID, &a.Name, &a.Category, &a.Weight, &a.IsGroupItem,
		&a.AssignedToID, &a.AssigneeName, &a.CustomWeight, &status, &a.CreatedAt)
	if err != nil {
		return Assignment{}, err
	}
	a.Status = Status(status)
	return a, nil
}

func lockTrip(ctx context.Context, q db.Querier, tripID string) error {
	var id string
	err := q.QueryRow(ctx, `SELECT id FROM trips WHERE id=$1 FOR UPDATE`, tripID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: trip %s", apperr.ErrNotFound, tripID)
	}
	return err
}

func getAssignment(ctx context.Context, q db.Querier, tripID, assignmentID string) (Assignment, error) {
	a, err := scanAssignment(q.QueryRow(ctx, assignmentSelect+`WHERE te.trip_id=$1 AND te.id=$2`, tripID, assignmentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Assignment{}, fmt.Errorf("%w: assignment %s", apperr.ErrNotFound, assignmentID)
	}
	return a, err
}

func listAssignments(ctx context.Context, q db.Querier, tripID string) ([]Assignment, error) {
	rows, err := q.Query(ctx, assignmentSelect+`WHERE te.trip_id=$1 ORDER BY te.created_at, te.id`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func getCatalogItem(ctx context.Context, q db.Querier, id string) (CatalogItem, error) {
	var it CatalogItem
	err := q.QueryRow(ctx, `
		SELECT id, name, category, weight, is_group_item, created_at
		FROM equipment_items WHERE id=$1
	`, id).Scan(&it.ID, &it.Name, &it.Category, &it.Weight, &it.IsGroupItem, &it.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return CatalogItem{}, fmt.Errorf("%w: equipment item %s", apperr.ErrNotFound, id)
	}
	return it, err
}

func listCatalog(ctx context.Context, q db.Querier) ([]CatalogItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, name, category, weight, is_group_item, created_at
		FROM equipment_items
		ORDER BY category, name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []CatalogItem{}
	for rows.Next() {
		var it CatalogItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.Weight, &it.IsGroupItem, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

type rosterEntry struct {
	userID string
	name   string
}

func listRoster(ctx context.Context, q db.Querier, tripID string) ([]rosterEntry, error) {
	rows, err := q.Query(ctx, `
		SELECT user_id, name FROM trip_members WHERE trip_id=$1
		ORDER BY joined_at, user_id
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []rosterEntry{}
	for rows.Next() {
		var m rosterEntry
		if err := rows.Scan(&m.userID, &m.name); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// insertAssignment stores a new row. An owned group item passes the
// exclusivity check first.
func insertAssignment(ctx context.Context, q db.Querier, a *Assignment) error {
	if a.IsGroupItem && a.AssignedToID != nil {
		if err := guardGroupItem(ctx, q, a.TripID, a.EquipmentID, a.ID); err != nil {
			return err
		}
	}
	return q.QueryRow(ctx, `
		INSERT INTO trip_equipment (id, trip_id, equipment_id, assigned_to_id, custom_weight, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, a.ID, a.TripID, a.EquipmentID, a.AssignedToID, a.CustomWeight, string(a.Status)).Scan(&a.CreatedAt)
}

// memberName fails with ErrNotFound when the participant is not on the trip roster.
func memberName(ctx context.Context, q db.Querier, tripID, participantID string) (string, error) {
	var name string
	err := q.QueryRow(ctx, `SELECT name FROM trip_members WHERE trip_id=$1 AND user_id=$2`, tripID, participantID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: participant %s is not on trip %s", apperr.ErrNotFound, participantID, tripID)
	}
	return name, err
}

// guardGroupItem rejects a new owner for a group item when any other
// assignment of the same item in the trip already has one.
func guardGroupItem(ctx context.Context, q db.Querier, tripID, equipmentID, exceptAssignmentID string) error {
	var holder string
	err := q.QueryRow(ctx, `
		SELECT assigned_to_id FROM trip_equipment
		WHERE trip_id=$1 AND equipment_id=$2 AND id<>$3 AND assigned_to_id IS NOT NULL
		LIMIT 1
	`, tripID, equipmentID, exceptAssignmentID).Scan(&holder)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: group item already assigned to another member (%s)", apperr.ErrConflict, holder)
}

// ApplyMoves hands each moved assignment to its new owner. Every row must
// still belong to the owner the plan was computed from; otherwise the whole
// batch fails with ErrConflict and the caller's transaction rolls back.
func ApplyMoves(ctx context.Context, q db.Querier, tripID string, moves []loadcalc.Move) error {
	for _, m := range moves {
		tag, err := q.Exec(ctx, `
			UPDATE trip_equipment SET assigned_to_id=$3
			WHERE id=$1 AND trip_id=$2 AND assigned_to_id=$4
		`, m.AssignmentID, tripID, m.NewOwnerID, m.FromID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() != 1 {
			return fmt.Errorf("%w: assignment %s changed owner during redistribution", apperr.ErrConflict, m.AssignmentID)
		}
	}
	return nil
}

package trip

import (
	"context"
	"fmt"
	"time"

	"backend-packshare/internal/db"
	"backend-packshare/internal/loadcalc"
	"backend-packshare/internal/shared/apperr"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) CreateTrip(ctx context.Context, input Trip) (Trip, error) {
	if err := normalize(&input); err != nil {
		return Trip{}, err
	}
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO trips (id, name, type, season, start_date, end_date, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at
	`, input.ID, input.Name, string(input.Type), string(input.Season), timePtr(input.StartDate), timePtr(input.EndDate), input.CreatedBy)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Trip{}, err
	}
	return input, nil
}

func (s *Service) UpdateTrip(ctx context.Context, id string, patch Trip) (Trip, error) {
	trip, err := s.GetTrip(ctx, id)
	if err != nil {
		return Trip{}, err
	}
	if patch.Name != "" {
		trip.Name = patch.Name
	}
	if patch.Type != "" {
		trip.Type = patch.Type
	}
	if patch.Season != "" {
		trip.Season = patch.Season
	}
	if !patch.StartDate.IsZero() {
		trip.StartDate = patch.StartDate
	}
	if !patch.EndDate.IsZero() {
		trip.EndDate = patch.EndDate
	}
	if err := normalize(&trip); err != nil {
		return Trip{}, err
	}

	_, err = s.db.Exec(ctx, `
		UPDATE trips
		SET name=$2, type=$3, season=$4, start_date=$5, end_date=$6
		WHERE id=$1
	`, trip.ID, trip.Name, string(trip.Type), string(trip.Season), timePtr(trip.StartDate), timePtr(trip.EndDate))
	if err != nil {
		return Trip{}, err
	}
	return trip, nil
}

func (s *Service) GetTrip(ctx context.Context, id string) (Trip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, type, season, start_date, end_date, created_by, created_at
		FROM trips WHERE id=$1
	`, id)
	var (
		trip       Trip
		tripType   string
		season     string
		start, end *time.Time
	)
	if err := row.Scan(&trip.ID, &trip.Name, &tripType, &season, &start, &end, &trip.CreatedBy, &trip.CreatedAt); err != nil {
		return Trip{}, apperr.FromNoRows(err)
	}
	trip.Type = loadcalc.TripType(tripType)
	trip.Season = loadcalc.Season(season)
	if start != nil {
		trip.StartDate = *start
	}
	if end != nil {
		trip.EndDate = *end
	}
	return trip, nil
}

func (s *Service) DeleteTrip(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM trips WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: trip %s", apperr.ErrNotFound, id)
	}
	return nil
}

// TripContext returns the trip type and season the weight engine needs.
func (s *Service) TripContext(ctx context.Context, tripID string) (loadcalc.TripContext, error) {
	var tripType, season string
	err := s.db.QueryRow(ctx, `SELECT type, season FROM trips WHERE id=$1`, tripID).Scan(&tripType, &season)
	if err != nil {
		return loadcalc.TripContext{}, apperr.FromNoRows(err)
	}
	tt, err := loadcalc.ParseTripType(tripType)
	if err != nil {
		return loadcalc.TripContext{}, err
	}
	ss, err := loadcalc.ParseSeason(season)
	if err != nil {
		return loadcalc.TripContext{}, err
	}
	return loadcalc.TripContext{Type: tt, Season: ss}, nil
}

func (s *Service) AddMember(ctx context.Context, member TripMember) (TripMember, error) {
	if member.UserID == "" {
		return TripMember{}, fmt.Errorf("%w: user_id required", apperr.ErrInvalidInput)
	}
	if member.BodyWeightKg != nil && *member.BodyWeightKg <= 0 {
		return TripMember{}, fmt.Errorf("%w: body weight must be positive", apperr.ErrInvalidInput)
	}
	if _, err := s.GetTrip(ctx, member.TripID); err != nil {
		return TripMember{}, err
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO trip_members (trip_id, user_id, name, body_weight_kg, gender, birth_date)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (trip_id, user_id) DO UPDATE
		SET name=EXCLUDED.name, body_weight_kg=EXCLUDED.body_weight_kg,
			gender=EXCLUDED.gender, birth_date=EXCLUDED.birth_date
		RETURNING joined_at
	`, member.TripID, member.UserID, member.Name, member.BodyWeightKg, member.Gender, member.BirthDate)
	if err := row.Scan(&member.JoinedAt); err != nil {
		return TripMember{}, err
	}
	return member, nil
}

func (s *Service) Members(ctx context.Context, tripID string) ([]TripMember, error) {
	rows, err := s.db.Query(ctx, `
		SELECT trip_id, user_id, name, body_weight_kg, gender, birth_date, joined_at
		FROM trip_members WHERE trip_id=$1
		ORDER BY joined_at, user_id
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []TripMember{}
	for rows.Next() {
		var m TripMember
		if err := rows.Scan(&m.TripID, &m.UserID, &m.Name, &m.BodyWeightKg, &m.Gender, &m.BirthDate, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// Participants is the roster in join order, shaped for the weight engine.
func (s *Service) Participants(ctx context.Context, tripID string) ([]loadcalc.Participant, error) {
	members, err := s.Members(ctx, tripID)
	if err != nil {
		return nil, err
	}
	out := make([]loadcalc.Participant, 0, len(members))
	for _, m := range members {
		out = append(out, m.Participant())
	}
	return out, nil
}

// Snapshot reads the trip context and roster through q. Passing an open
// transaction keeps both reads on the same view as the caller's writes.
func (s *Service) Snapshot(ctx context.Context, q db.Querier, tripID string) (loadcalc.TripContext, []loadcalc.Participant, error) {
	scoped := &Service{db: q}
	tc, err := scoped.TripContext(ctx, tripID)
	if err != nil {
		return loadcalc.TripContext{}, nil, err
	}
	participants, err := scoped.Participants(ctx, tripID)
	if err != nil {
		return loadcalc.TripContext{}, nil, err
	}
	return tc, participants, nil
}

func normalize(t *Trip) error {
	if t.Type == "" {
		t.Type = loadcalc.TripHiking
	}
	if t.Season == "" {
		t.Season = loadcalc.SeasonSummer
	}
	tt, err := loadcalc.ParseTripType(string(t.Type))
	if err != nil {
		return err
	}
	ss, err := loadcalc.ParseSeason(string(t.Season))
	if err != nil {
		return err
	}
	t.Type, t.Season = tt, ss
	return nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

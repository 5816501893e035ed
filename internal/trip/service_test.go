package trip

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend-packshare/internal/loadcalc"
	"backend-packshare/internal/shared/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

var tripColumns = []string{"id", "name", "type", "season", "start_date", "end_date", "created_by", "created_at"}

var memberColumns = []string{"trip_id", "user_id", "name", "body_weight_kg", "gender", "birth_date", "joined_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func timeVal(t time.Time) *time.Time { return &t }

func TestCreateAndGetTrip(t *testing.T) {
	mock := newMock(t)
	createdAt := time.Now()

	mock.ExpectQuery(`INSERT INTO trips`).
		WithArgs(pgxmock.AnyArg(), "Trip A", "ski", "winter", pgxmock.AnyArg(), pgxmock.AnyArg(), "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	svc := NewService(mock)
	trip, err := svc.CreateTrip(context.Background(), Trip{
		Name:      "Trip A",
		Type:      "Ski",
		Season:    "winter",
		StartDate: time.Now(),
		EndDate:   time.Now().Add(24 * time.Hour),
		CreatedBy: "user-1",
	})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}
	if trip.Type != loadcalc.TripSki {
		t.Fatalf("expected normalized trip type, got %q", trip.Type)
	}

	mock.ExpectQuery(`SELECT id, name, type, season, start_date, end_date, created_by, created_at`).
		WithArgs(trip.ID).
		WillReturnRows(pgxmock.NewRows(tripColumns).
			AddRow(trip.ID, trip.Name, "ski", "winter", timeVal(trip.StartDate), timeVal(trip.EndDate), trip.CreatedBy, trip.CreatedAt))

	loaded, err := svc.GetTrip(context.Background(), trip.ID)
	if err != nil {
		t.Fatalf("get trip: %v", err)
	}
	if loaded.ID != trip.ID || loaded.Type != loadcalc.TripSki || loaded.Season != loadcalc.SeasonWinter {
		t.Fatalf("unexpected trip loaded: %+v", loaded)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateTripDefaultsToHikingSummer(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO trips`).
		WithArgs(pgxmock.AnyArg(), "Trip", "hiking", "summer", pgxmock.AnyArg(), pgxmock.AnyArg(), "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	trip, err := NewService(mock).CreateTrip(context.Background(), Trip{Name: "Trip", CreatedBy: "user-1"})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}
	if trip.Type != loadcalc.TripHiking || trip.Season != loadcalc.SeasonSummer {
		t.Fatalf("expected defaults, got %+v", trip)
	}
}

func TestCreateTripRejectsUnknownType(t *testing.T) {
	svc := NewService(nil)
	if _, err := svc.CreateTrip(context.Background(), Trip{Name: "Trip", Type: "sailing"}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := svc.CreateTrip(context.Background(), Trip{Name: "Trip", Season: "monsoon"}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestCreateTripError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO trips`).
		WithArgs(pgxmock.AnyArg(), "Trip", "hiking", "summer", pgxmock.AnyArg(), pgxmock.AnyArg(), "user-1").
		WillReturnError(errQuery)

	if _, err := NewService(mock).CreateTrip(context.Background(), Trip{Name: "Trip", CreatedBy: "user-1"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGetTripNotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT id, name, type, season`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewService(mock).GetTrip(context.Background(), "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateTripPatchFields(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	mock.ExpectQuery(`SELECT id, name, type, season`).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows(tripColumns).
			AddRow("trip-1", "Trip", "hiking", "summer", nil, nil, "user-1", time.Now()))

	mock.ExpectExec(`UPDATE trips`).
		WithArgs("trip-1", "Trip2", "water", "summer", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	updated, err := svc.UpdateTrip(context.Background(), "trip-1", Trip{
		Name:      "Trip2",
		Type:      "water",
		StartDate: time.Now(),
		EndDate:   time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("update trip: %v", err)
	}
	if updated.Name != "Trip2" || updated.Type != loadcalc.TripWater || updated.StartDate.IsZero() {
		t.Fatalf("unexpected update: %+v", updated)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTripRejectsUnknownSeason(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT id, name, type, season`).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows(tripColumns).
			AddRow("trip-1", "Trip", "hiking", "summer", nil, nil, "user-1", time.Now()))

	_, err := NewService(mock).UpdateTrip(context.Background(), "trip-1", Trip{Season: "dry"})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestUpdateTripGetError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT id, name, type, season`).
		WithArgs("trip-1").
		WillReturnError(errQuery)

	if _, err := NewService(mock).UpdateTrip(context.Background(), "trip-1", Trip{Name: "x"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestUpdateTripExecError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT id, name, type, season`).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows(tripColumns).
			AddRow("trip-1", "Trip", "hiking", "summer", nil, nil, "user-1", time.Now()))
	mock.ExpectExec(`UPDATE trips`).
		WithArgs("trip-1", "Trip", "hiking", "summer", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errQuery)

	if _, err := NewService(mock).UpdateTrip(context.Background(), "trip-1", Trip{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDeleteTrip(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	mock.ExpectExec(`DELETE FROM trips`).WithArgs("trip-1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	if err := svc.DeleteTrip(context.Background(), "trip-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	mock.ExpectExec(`DELETE FROM trips`).WithArgs("trip-2").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	if err := svc.DeleteTrip(context.Background(), "trip-2"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec(`DELETE FROM trips`).WithArgs("trip-3").WillReturnError(errQuery)
	if err := svc.DeleteTrip(context.Background(), "trip-3"); !errors.Is(err, errQuery) {
		t.Fatalf("expected query error, got %v", err)
	}
}

func TestTripContext(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	mock.ExpectQuery(`SELECT type, season FROM trips`).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows([]string{"type", "season"}).AddRow("water", "autumn"))
	tc, err := svc.TripContext(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("trip context: %v", err)
	}
	if tc.Type != loadcalc.TripWater || tc.Season != loadcalc.SeasonAutumn {
		t.Fatalf("unexpected context: %+v", tc)
	}

	mock.ExpectQuery(`SELECT type, season FROM trips`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	if _, err := svc.TripContext(context.Background(), "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery(`SELECT type, season FROM trips`).
		WithArgs("odd").
		WillReturnRows(pgxmock.NewRows([]string{"type", "season"}).AddRow("canoe", "summer"))
	if _, err := svc.TripContext(context.Background(), "odd"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAddMember(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	mock.ExpectQuery(`SELECT id, name, type, season`).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows(tripColumns).
			AddRow("trip-1", "Trip", "hiking", "summer", nil, nil, "user-1", time.Now()))
	mock.ExpectQuery(`INSERT INTO trip_members`).
		WithArgs("trip-1", "user-2", "Ann", floatPtr(60), strPtr("female"), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"joined_at"}).AddRow(time.Now()))

	member, err := svc.AddMember(context.Background(), TripMember{
		TripID:       "trip-1",
		UserID:       "user-2",
		Name:         "Ann",
		BodyWeightKg: floatPtr(60),
		Gender:       strPtr("female"),
	})
	if err != nil {
		t.Fatalf("add member: %v", err)
	}
	if member.JoinedAt.IsZero() {
		t.Fatalf("expected joined_at")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddMemberValidation(t *testing.T) {
	svc := NewService(nil)
	if _, err := svc.AddMember(context.Background(), TripMember{TripID: "trip-1"}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input for missing user, got %v", err)
	}
	_, err := svc.AddMember(context.Background(), TripMember{TripID: "trip-1", UserID: "u", BodyWeightKg: floatPtr(0)})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input for zero body weight, got %v", err)
	}
}

func TestAddMemberTripMissing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT id, name, type, season`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewService(mock).AddMember(context.Background(), TripMember{TripID: "missing", UserID: "u"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddMemberError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT id, name, type, season`).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows(tripColumns).
			AddRow("trip-1", "Trip", "hiking", "summer", nil, nil, "user-1", time.Now()))
	mock.ExpectQuery(`INSERT INTO trip_members`).
		WithArgs("trip-1", "user-2", "", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errQuery)

	if _, err := NewService(mock).AddMember(context.Background(), TripMember{TripID: "trip-1", UserID: "user-2"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParticipants(t *testing.T) {
	mock := newMock(t)
	birth := time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT trip_id, user_id, name, body_weight_kg, gender, birth_date, joined_at`).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows(memberColumns).
			AddRow("trip-1", "user-1", "Ann", floatPtr(60), strPtr("female"), timeVal(birth), time.Now()).
			AddRow("trip-1", "user-2", "Bo", nil, nil, nil, time.Now()))

	roster, err := NewService(mock).Participants(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("participants: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(roster))
	}
	if roster[0].ID != "user-1" || roster[0].Gender != "female" || *roster[0].BodyWeightKg != 60 || !roster[0].BirthDate.Equal(birth) {
		t.Fatalf("unexpected first participant: %+v", roster[0])
	}
	if roster[1].BodyWeightKg != nil || roster[1].Gender != "" || roster[1].BirthDate != nil {
		t.Fatalf("expected absent fields to stay absent: %+v", roster[1])
	}
}

func TestSnapshotReadsThroughGivenQuerier(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT type, season FROM trips`).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows([]string{"type", "season"}).AddRow("ski", "winter"))
	mock.ExpectQuery(`SELECT trip_id, user_id, name, body_weight_kg`).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows(memberColumns).
			AddRow("trip-1", "user-1", "Ann", floatPtr(64), nil, nil, time.Now()))

	// The service's own pool is unused; every read goes through mock.
	tc, roster, err := NewService(nil).Snapshot(context.Background(), mock, "trip-1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if tc.Type != loadcalc.TripSki || tc.Season != loadcalc.SeasonWinter {
		t.Fatalf("unexpected trip context: %+v", tc)
	}
	if len(roster) != 1 || *roster[0].BodyWeightKg != 64 {
		t.Fatalf("unexpected roster: %+v", roster)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}

	missing := newMock(t)
	missing.ExpectQuery(`SELECT type, season FROM trips`).
		WithArgs("gone").
		WillReturnError(pgx.ErrNoRows)
	if _, _, err := NewService(nil).Snapshot(context.Background(), missing, "gone"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMembersQueryError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT trip_id, user_id, name`).
		WithArgs("trip-1").
		WillReturnError(errQuery)

	if _, err := NewService(mock).Participants(context.Background(), "trip-1"); err == nil {
		t.Fatalf("expected error")
	}
}

var errQuery = errors.New("query error")

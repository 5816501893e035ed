// Package weight serves the load report and redistribution for a trip by
// feeding live roster, equipment and meal data through loadcalc.
package weight

import (
	"context"
	"time"

	"backend-packshare/internal/db"
	"backend-packshare/internal/equipment"
	"backend-packshare/internal/loadcalc"

	"github.com/rs/zerolog"
)

type Roster interface {
	TripContext(ctx context.Context, tripID string) (loadcalc.TripContext, error)
	Participants(ctx context.Context, tripID string) ([]loadcalc.Participant, error)
	Snapshot(ctx context.Context, q db.Querier, tripID string) (loadcalc.TripContext, []loadcalc.Participant, error)
}

type Inventory interface {
	Loadout(ctx context.Context, tripID string) ([]loadcalc.Item, error)
	Rebalance(ctx context.Context, tripID string, plan equipment.PlanFunc) ([]loadcalc.Move, error)
}

type Pantry interface {
	Rations(ctx context.Context, tripID string) ([]loadcalc.FoodPortion, error)
}

type Service struct {
	roster    Roster
	inventory Inventory
	pantry    Pantry
	log       zerolog.Logger
	now       func() time.Time
}

func NewService(roster Roster, inventory Inventory, pantry Pantry, log zerolog.Logger) *Service {
	return &Service{roster: roster, inventory: inventory, pantry: pantry, log: log, now: time.Now}
}

type Redistribution struct {
	Moves  []loadcalc.Move `json:"moves"`
	Report loadcalc.Report `json:"report"`
}

func (s *Service) Report(ctx context.Context, tripID string) (loadcalc.Report, error) {
	tc, err := s.roster.TripContext(ctx, tripID)
	if err != nil {
		return loadcalc.Report{}, err
	}
	participants, err := s.roster.Participants(ctx, tripID)
	if err != nil {
		return loadcalc.Report{}, err
	}
	items, err := s.inventory.Loadout(ctx, tripID)
	if err != nil {
		return loadcalc.Report{}, err
	}
	food, err := s.pantry.Rations(ctx, tripID)
	if err != nil {
		return loadcalc.Report{}, err
	}
	return loadcalc.BuildReport(tc, participants, items, food, s.now())
}

// Redistribute hands equipment from overloaded participants to ones with
// spare capacity and returns the applied moves with a fresh report. Having
// nothing to move is not an error. The roster is read under the trip lock,
// in the transaction that applies the moves.
func (s *Service) Redistribute(ctx context.Context, tripID string) (Redistribution, error) {
	moves, err := s.inventory.Rebalance(ctx, tripID, func(ctx context.Context, q db.Querier, items []loadcalc.Item) ([]loadcalc.Move, error) {
		tc, participants, err := s.roster.Snapshot(ctx, q, tripID)
		if err != nil {
			return nil, err
		}
		return loadcalc.PlanRedistribution(tc, participants, items)
	})
	if err != nil {
		s.log.Error().Err(err).Str("trip_id", tripID).Msg("redistribution failed")
		return Redistribution{}, err
	}

	report, err := s.Report(ctx, tripID)
	if err != nil {
		return Redistribution{}, err
	}

	s.log.Info().Str("trip_id", tripID).Int("moves", len(moves)).Msg("equipment redistributed")
	return Redistribution{Moves: moves, Report: report}, nil
}

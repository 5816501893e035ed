package meal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"backend-packshare/internal/db"
	"backend-packshare/internal/loadcalc"
	"backend-packshare/internal/shared/apperr"

	"github.com/google/uuid"
)

// Roster supplies the trip's participants for portion scaling.
type Roster interface {
	Participants(ctx context.Context, tripID string) ([]loadcalc.Participant, error)
}

type Service struct {
	db     db.Querier
	roster Roster
	now    func() time.Time
}

func NewService(db db.Querier, roster Roster) *Service {
	return &Service{db: db, roster: roster, now: time.Now}
}

func (s *Service) AddProduct(ctx context.Context, input Product) (Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return Product{}, fmt.Errorf("%w: name required", apperr.ErrInvalidInput)
	}
	if input.GramsPerPerson < 0 {
		return Product{}, fmt.Errorf("%w: grams per person must not be negative", apperr.ErrInvalidInput)
	}
	if input.CaloriesPer100g < 0 || input.ProteinsG < 0 || input.FatsG < 0 || input.CarbsG < 0 {
		return Product{}, fmt.Errorf("%w: nutrition values must not be negative", apperr.ErrInvalidInput)
	}
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO meal_products (id, trip_id, name, grams_per_person, calories_per_100g, proteins_g, fats_g, carbs_g)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, input.ID, input.TripID, input.Name, input.GramsPerPerson, input.CaloriesPer100g, input.ProteinsG, input.FatsG, input.CarbsG)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Product{}, apperr.FromForeignKey(err)
	}
	return input, nil
}

func (s *Service) Products(ctx context.Context, tripID string) ([]Product, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, trip_id, name, grams_per_person, calories_per_100g, proteins_g, fats_g, carbs_g, created_at
		FROM meal_products WHERE trip_id=$1
		ORDER BY created_at, id
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.TripID, &p.Name, &p.GramsPerPerson, &p.CaloriesPer100g, &p.ProteinsG, &p.FatsG, &p.CarbsG, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Rations returns the per-person grams the weight engine turns into food load.
func (s *Service) Rations(ctx context.Context, tripID string) ([]loadcalc.FoodPortion, error) {
	products, err := s.Products(ctx, tripID)
	if err != nil {
		return nil, err
	}
	out := make([]loadcalc.FoodPortion, 0, len(products))
	for _, p := range products {
		out = append(out, p.Ration())
	}
	return out, nil
}

// Nutrition scales every product by the same effective portion count the
// weight report uses.
func (s *Service) Nutrition(ctx context.Context, tripID string) (NutritionSummary, error) {
	roster, err := s.roster.Participants(ctx, tripID)
	if err != nil {
		return NutritionSummary{}, err
	}
	products, err := s.Products(ctx, tripID)
	if err != nil {
		return NutritionSummary{}, err
	}
	return Summarize(roster, products, s.now()), nil
}

func Summarize(roster []loadcalc.Participant, products []Product, now time.Time) NutritionSummary {
	portions := loadcalc.TotalPortions(roster, now)
	rations := make([]loadcalc.FoodPortion, 0, len(products))

	var calories, proteins, fats, carbs, perPortion float64
	for _, p := range products {
		rations = append(rations, p.Ration())
		factor := p.GramsPerPerson / 100
		perPortion += factor * p.CaloriesPer100g
		calories += factor * p.CaloriesPer100g * portions
		proteins += factor * p.ProteinsG * portions
		fats += factor * p.FatsG * portions
		carbs += factor * p.CarbsG * portions
	}

	return NutritionSummary{
		Participants:       len(roster),
		TotalPortions:      loadcalc.Round2(portions),
		TotalWeightKg:      loadcalc.Round2(loadcalc.FoodWeightGrams(roster, rations, now) / 1000),
		TotalCalories:      loadcalc.Round2(calories),
		TotalProteinsG:     loadcalc.Round2(proteins),
		TotalFatsG:         loadcalc.Round2(fats),
		TotalCarbsG:        loadcalc.Round2(carbs),
		CaloriesPerPortion: loadcalc.Round2(perPortion),
	}
}

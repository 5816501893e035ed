package meal

import (
	"time"

	"backend-packshare/internal/loadcalc"
)

// Product is one meal product planned for a trip. Calories and macros are
// per 100 g.
type Product struct {
	ID              string    `json:"id"`
	TripID          string    `json:"trip_id"`
	Name            string    `json:"name"`
	GramsPerPerson  float64   `json:"grams_per_person"`
	CaloriesPer100g float64   `json:"calories_per_100g"`
	ProteinsG       float64   `json:"proteins_g"`
	FatsG           float64   `json:"fats_g"`
	CarbsG          float64   `json:"carbs_g"`
	CreatedAt       time.Time `json:"created_at"`
}

func (p Product) Ration() loadcalc.FoodPortion {
	return loadcalc.FoodPortion{Name: p.Name, GramsPerPerson: p.GramsPerPerson}
}

type NutritionSummary struct {
	Participants       int     `json:"participants"`
	TotalPortions      float64 `json:"total_portions"`
	TotalWeightKg      float64 `json:"total_weight_kg"`
	TotalCalories      float64 `json:"total_calories"`
	TotalProteinsG     float64 `json:"total_proteins_g"`
	TotalFatsG         float64 `json:"total_fats_g"`
	TotalCarbsG        float64 `json:"total_carbs_g"`
	CaloriesPerPortion float64 `json:"calories_per_portion"`
}

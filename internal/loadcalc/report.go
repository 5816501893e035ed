package loadcalc

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// BuildReport is the load aggregator: current load against capacity for every
// participant plus trip totals. It never mutates its inputs.
func BuildReport(tc TripContext, roster []Participant, items []Item, food []FoodPortion, now time.Time) (Report, error) {
	if err := validate(roster, items, food); err != nil {
		return Report{}, err
	}

	foodGrams := FoodWeightGrams(roster, food, now)
	foodPerPerson := foodGrams / float64(max(len(roster), 1)) / 1000

	loads := make([]ParticipantLoad, 0, len(roster))
	for _, p := range roster {
		equipment := 0.0
		var heaviest *Item
		for i := range items {
			if items[i].AssignedTo != p.ID {
				continue
			}
			w := items[i].EffectiveWeight()
			equipment += w
			if heaviest == nil || w > heaviest.EffectiveWeight() {
				heaviest = &items[i]
			}
		}

		total := equipment + foodPerPerson
		maxWeight := MaxCarryKg(p, tc.Type)
		load := ParticipantLoad{
			ParticipantID:   p.ID,
			Name:            p.Name,
			EquipmentWeight: Round2(equipment),
			FoodWeight:      Round2(foodPerPerson),
			TotalWeight:     Round2(total),
			MaxWeight:       Round2(maxWeight),
			IsOverloaded:    total > maxWeight,
		}
		if maxWeight > 0 {
			load.LoadPercentage = int(math.Round(total / maxWeight * 100))
		}
		if load.IsOverloaded && heaviest != nil {
			load.Tip = fmt.Sprintf("Heaviest item is %s (%.2f kg), consider handing it to someone with spare capacity",
				heaviest.Name, heaviest.EffectiveWeight())
		}
		loads = append(loads, load)
	}

	totalEquipment := 0.0
	for _, it := range items {
		totalEquipment += it.EffectiveWeight()
	}
	totalFood := foodGrams / 1000
	summary := Summary{
		TotalEquipmentWeight: Round2(totalEquipment),
		TotalFoodWeight:      Round2(totalFood),
		TotalWeight:          Round2(totalEquipment + totalFood),
	}
	if len(roster) > 0 {
		summary.AveragePerPerson = Round2((totalEquipment + totalFood) / float64(len(roster)))
	}

	return Report{Participants: loads, Summary: summary}, nil
}

// FoodWeightGrams is the whole group's food: grams per person of every
// product times the effective portion count.
func FoodWeightGrams(roster []Participant, food []FoodPortion, now time.Time) float64 {
	portions := TotalPortions(roster, now)
	grams := 0.0
	for _, f := range food {
		grams += f.GramsPerPerson * portions
	}
	return grams
}

// Round2 rounds half away from zero to two decimals, working on the
// shortest decimal form of v so that 1.005 becomes 1.01.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

package loadcalc

import (
	"slices"
	"sort"
)

type carrier struct {
	id       string
	capacity float64
	items    []Item
}

// PlanRedistribution proposes moves from overloaded to underloaded
// participants. It is a single-pass first-fit greedy: overloaded carriers
// are served most overloaded first, each hands off its heaviest items first,
// and each item goes to the first receiver (most spare capacity first) that
// still has room for it. Capacity counts equipment only; the food share is
// treated as fixed. Unassigned items are never touched and no item loses its
// owner.
func PlanRedistribution(tc TripContext, roster []Participant, items []Item) ([]Move, error) {
	if err := validate(roster, items, nil); err != nil {
		return nil, err
	}

	carriers := make([]*carrier, 0, len(roster))
	byID := make(map[string]*carrier, len(roster))
	for _, p := range roster {
		c := &carrier{id: p.ID, capacity: MaxCarryKg(p, tc.Type)}
		carriers = append(carriers, c)
		byID[p.ID] = c
	}
	for _, it := range items {
		c, ok := byID[it.AssignedTo]
		if it.AssignedTo == "" || !ok {
			continue
		}
		c.items = append(c.items, it)
		c.capacity -= it.EffectiveWeight()
	}

	var overloaded, underloaded []*carrier
	for _, c := range carriers {
		switch {
		case c.capacity < 0:
			overloaded = append(overloaded, c)
		case c.capacity > 0:
			underloaded = append(underloaded, c)
		}
	}
	sort.SliceStable(overloaded, func(i, j int) bool { return overloaded[i].capacity < overloaded[j].capacity })
	sort.SliceStable(underloaded, func(i, j int) bool { return underloaded[i].capacity > underloaded[j].capacity })

	moves := []Move{}
	for _, giver := range overloaded {
		load := slices.Clone(giver.items)
		sort.SliceStable(load, func(i, j int) bool { return load[i].EffectiveWeight() > load[j].EffectiveWeight() })

		for _, it := range load {
			if giver.capacity >= 0 {
				break
			}
			w := it.EffectiveWeight()
			for _, receiver := range underloaded {
				if receiver.capacity < w {
					continue
				}
				moves = append(moves, Move{
					AssignmentID: it.AssignmentID,
					FromID:       giver.id,
					NewOwnerID:   receiver.id,
					Weight:       Round2(w),
				})
				receiver.capacity -= w
				giver.capacity += w
				break
			}
		}
	}
	return moves, nil
}

// ApplyMoves returns a copy of items with every move's new owner set.
func ApplyMoves(items []Item, moves []Move) []Item {
	owners := make(map[string]string, len(moves))
	for _, m := range moves {
		owners[m.AssignmentID] = m.NewOwnerID
	}
	out := slices.Clone(items)
	for i := range out {
		if owner, ok := owners[out[i].AssignmentID]; ok {
			out[i].AssignedTo = owner
		}
	}
	return out
}

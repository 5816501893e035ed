package loadcalc

import "time"

func kg(v float64) *float64 { return &v }

func born(year int) *time.Time {
	t := time.Date(year, time.March, 10, 0, 0, 0, 0, time.UTC)
	return &t
}

var testNow = time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

func item(id, owner, name string, weight float64) Item {
	return Item{AssignmentID: id, EquipmentID: "eq-" + id, Name: name, Weight: weight, AssignedTo: owner}
}

func ptrTime(t time.Time) *time.Time { return &t }

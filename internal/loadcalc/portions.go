package loadcalc

import (
	"strings"
	"time"
)

const (
	femalePortion = 0.85
	agePortion    = 0.9
	minorAge      = 18
	seniorAge     = 50
)

// PortionMultiplier scales one adult portion for a participant. Age is the
// difference of calendar years, so it can run up to a year ahead.
func PortionMultiplier(p Participant, now time.Time) float64 {
	m := 1.0
	if isFemale(p.Gender) {
		m *= femalePortion
	}
	if p.BirthDate != nil {
		age := now.Year() - p.BirthDate.Year()
		if age < minorAge {
			m *= agePortion
		}
		if age > seniorAge {
			m *= agePortion
		}
	}
	return m
}

// TotalPortions is the effective number of adult portions the roster eats.
// Both the nutrition summary and the weight report go through here.
func TotalPortions(roster []Participant, now time.Time) float64 {
	total := 0.0
	for _, p := range roster {
		total += PortionMultiplier(p, now)
	}
	if len(roster) == 0 || total == 0 {
		return float64(max(len(roster), 1))
	}
	return total
}

func isFemale(gender string) bool {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "female", "женский", "ж":
		return true
	}
	return false
}

package db

import (
	"context"
	"fmt"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'hiking',
		season TEXT NOT NULL DEFAULT 'summer',
		start_date TIMESTAMPTZ,
		end_date TIMESTAMPTZ,
		created_by TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS trip_members (
		trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		body_weight_kg DOUBLE PRECISION,
		gender TEXT,
		birth_date DATE,
		joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (trip_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS equipment_items (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		weight DOUBLE PRECISION NOT NULL CHECK (weight >= 0),
		is_group_item BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS trip_equipment (
		id TEXT PRIMARY KEY,
		trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		equipment_id TEXT NOT NULL REFERENCES equipment_items(id),
		assigned_to_id TEXT,
		custom_weight DOUBLE PRECISION CHECK (custom_weight >= 0),
		status TEXT NOT NULL DEFAULT 'planned',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS trip_equipment_trip_idx ON trip_equipment (trip_id, equipment_id)`,
	`CREATE TABLE IF NOT EXISTS meal_products (
		id TEXT PRIMARY KEY,
		trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		grams_per_person DOUBLE PRECISION NOT NULL CHECK (grams_per_person >= 0),
		calories_per_100g DOUBLE PRECISION NOT NULL DEFAULT 0,
		proteins_g DOUBLE PRECISION NOT NULL DEFAULT 0,
		fats_g DOUBLE PRECISION NOT NULL DEFAULT 0,
		carbs_g DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the tables the trip, equipment and meal services read.
func Migrate(ctx context.Context, db Querier) error {
	for i, stmt := range migrationStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

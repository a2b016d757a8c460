package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createExtensions,
		createStadiumsTable,
		createBuildingsTable,
		createEquipmentTable,
		createBookingsTable,
		createBookingBuildingsTable,
		createBookingEquipmentTable,
		createBookingIndexes,
		createBookingOverlapConstraint,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createExtensions = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";
CREATE EXTENSION IF NOT EXISTS btree_gist;`

const createStadiumsTable = `
CREATE TABLE IF NOT EXISTS stadiums (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    name VARCHAR(255) NOT NULL,
    description TEXT,
    contact VARCHAR(255),
    status VARCHAR(20) NOT NULL DEFAULT 'Available',
    image_url TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (status IN ('Available', 'IsBooking', 'inactive', 'active'))
);`

const createBuildingsTable = `
CREATE TABLE IF NOT EXISTS buildings (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    stadium_id UUID NOT NULL REFERENCES stadiums(id) ON DELETE CASCADE,
    name VARCHAR(255) NOT NULL
);`

const createEquipmentTable = `
CREATE TABLE IF NOT EXISTS equipment (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    name VARCHAR(255) NOT NULL,
    quantity INTEGER NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'available',
    image_url TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (quantity >= 0),
    CHECK (status IN ('available', 'unavailable'))
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    user_id VARCHAR(64) NOT NULL,
    stadium_id UUID NOT NULL REFERENCES stadiums(id) ON DELETE CASCADE,
    activity_name VARCHAR(255) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    cancel_reason TEXT NOT NULL DEFAULT '',
    starts_at TIMESTAMPTZ NOT NULL,
    ends_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (starts_at < ends_at),
    CHECK (status IN ('pending', 'confirmed', 'canceled', 'Return Success'))
);`

const createBookingBuildingsTable = `
CREATE TABLE IF NOT EXISTS booking_buildings (
    id SERIAL PRIMARY KEY,
    booking_id UUID NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
    building_id UUID NOT NULL REFERENCES buildings(id) ON DELETE CASCADE,

    UNIQUE(booking_id, building_id)
);`

// equipment_id is a weak reference on purpose: legacy bookings may carry
// lines whose equipment was deleted, and cancel must still work.
const createBookingEquipmentTable = `
CREATE TABLE IF NOT EXISTS booking_equipment (
    id SERIAL PRIMARY KEY,
    booking_id UUID NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
    equipment_id VARCHAR(64) NOT NULL,
    quantity INTEGER NOT NULL,

    CHECK (quantity > 0)
);`

const createBookingIndexes = `
CREATE INDEX IF NOT EXISTS bookings_stadium_status_idx
ON bookings (stadium_id, status);
CREATE INDEX IF NOT EXISTS bookings_user_idx
ON bookings (user_id);`

// Storage-level backstop for the no-double-booking invariant: two active
// bookings on the same stadium cannot hold overlapping half-open ranges.
const createBookingOverlapConstraint = `
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap'
    ) THEN
        ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
        EXCLUDE USING gist (
            stadium_id WITH =,
            tstzrange(starts_at, ends_at) WITH &&
        ) WHERE (status IN ('pending', 'confirmed'));
    END IF;
END $$;`

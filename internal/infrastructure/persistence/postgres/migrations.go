// Package postgres implements the PostgreSQL persistence layer for StepClass Hub.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATOR
// ══════════════════════════════════════════════════════════════════════════════

// Migration represents a database migration.
type Migration struct {
	Version   int
	Name      string
	UpSQL     string
	DownSQL   string
	AppliedAt time.Time
	IsApplied bool
}

// Migrator handles database migrations.
type Migrator struct {
	conn       *Connection
	migrations []Migration
	tableName  string
}

// NewMigrator creates a new migrator with embedded migrations.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{
		conn:       conn,
		migrations: GetMigrations(),
		tableName:  "schema_migrations",
	}
}

// EnsureMigrationTable creates the migration tracking table if it doesn't exist.
func (m *Migrator) EnsureMigrationTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`, m.tableName)

	if _, err := m.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// GetAppliedMigrations returns all applied migrations.
func (m *Migrator) GetAppliedMigrations(ctx context.Context) (map[int]time.Time, error) {
	query := fmt.Sprintf("SELECT version, applied_at FROM %s ORDER BY version", m.tableName)

	rows, err := m.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var appliedAt time.Time
		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[version] = appliedAt
	}
	return applied, rows.Err()
}

// Migrate applies all pending migrations. Each migration runs inside its
// own transaction together with its tracking record.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.EnsureMigrationTable(ctx); err != nil {
		return err
	}

	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, mig := range m.migrations {
		if _, isApplied := applied[mig.Version]; isApplied {
			continue
		}

		if mig.UpSQL == "" {
			return fmt.Errorf("%w: missing up SQL for migration %d", ErrMigrationFailed, mig.Version)
		}

		err := m.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return fmt.Errorf("failed to execute migration %d: %w", mig.Version, err)
			}

			insertQuery := fmt.Sprintf(
				"INSERT INTO %s (version, name) VALUES ($1, $2)",
				m.tableName,
			)
			_, err := tx.Exec(ctx, insertQuery, mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("%w: version %d: %v", ErrMigrationFailed, mig.Version, err)
		}
	}

	return nil
}

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_users",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_exercise_records",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_badges",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
		{
			Version: 4,
			Name:    "seed_badge_catalog",
			UpSQL:   migration004Up,
			DownSQL: migration004Down,
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE USERS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create users table
-- Version: 001

CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    username VARCHAR(50) NOT NULL UNIQUE,
    password_hash VARCHAR(100) NOT NULL,
    role VARCHAR(20) NOT NULL DEFAULT 'student',
    name VARCHAR(100) NOT NULL,
    class_name VARCHAR(50),
    grade INTEGER,
    email VARCHAR(100),
    phone VARCHAR(30),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_role CHECK (role IN ('student', 'teacher', 'parent', 'admin')),
    CONSTRAINT valid_grade CHECK (grade IS NULL OR grade BETWEEN 1 AND 12)
);

CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
CREATE INDEX IF NOT EXISTS idx_users_class_name ON users(class_name);
`

const migration001Down = `
DROP TABLE IF EXISTS users;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE EXERCISE RECORDS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create exercise records table
-- Version: 002

CREATE TABLE IF NOT EXISTS exercise_records (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    date DATE NOT NULL,
    steps INTEGER NOT NULL DEFAULT 0,
    exercise_minutes INTEGER NOT NULL DEFAULT 0,
    calories DOUBLE PRECISION NOT NULL DEFAULT 0,
    distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
    notes TEXT,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    -- One record per student per calendar day.
    CONSTRAINT uq_records_student_date UNIQUE (student_id, date),

    CONSTRAINT valid_steps CHECK (steps >= 0),
    CONSTRAINT valid_minutes CHECK (exercise_minutes >= 0),
    CONSTRAINT valid_calories CHECK (calories >= 0),
    CONSTRAINT valid_distance CHECK (distance_km >= 0)
);

CREATE INDEX IF NOT EXISTS idx_records_student_date ON exercise_records(student_id, date DESC);
CREATE INDEX IF NOT EXISTS idx_records_date ON exercise_records(date);
`

const migration002Down = `
DROP TABLE IF EXISTS exercise_records;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE BADGES
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create badge catalog and awards
-- Version: 003

CREATE TABLE IF NOT EXISTS badges (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    code VARCHAR(50) NOT NULL UNIQUE,
    name VARCHAR(100) NOT NULL,
    description TEXT NOT NULL,
    icon VARCHAR(10) NOT NULL,
    category VARCHAR(20) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_category CHECK (category IN
        ('milestone', 'streak', 'steps', 'time', 'calories', 'distance', 'special'))
);

CREATE TABLE IF NOT EXISTS student_badges (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    badge_id BIGINT NOT NULL REFERENCES badges(id) ON DELETE CASCADE,
    earned_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    progress INTEGER NOT NULL DEFAULT 100,

    -- Each badge is earned at most once; the insert is the idempotence gate.
    CONSTRAINT uq_student_badge UNIQUE (student_id, badge_id)
);

CREATE INDEX IF NOT EXISTS idx_student_badges_student ON student_badges(student_id, earned_at DESC);
`

const migration003Down = `
DROP TABLE IF EXISTS student_badges;
DROP TABLE IF EXISTS badges;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: SEED BADGE CATALOG
// ══════════════════════════════════════════════════════════════════════════════

const migration004Up = `
-- Migration: Seed badge catalog
-- Version: 004
-- Reseeding is safe: rows are keyed by code and conflicts are ignored.

INSERT INTO badges (code, name, description, icon, category) VALUES
    ('FIRST_STEP', 'First Step', 'Logged the very first exercise record', '👟', 'milestone'),
    ('STREAK_3', '3-Day Streak', 'Exercised 3 days in a row', '🔥', 'streak'),
    ('STREAK_7', 'Full Week', 'Exercised 7 days in a row', '⚡', 'streak'),
    ('PERFECT_WEEK', 'Perfect Week', 'Exercised every day of the week', '🏆', 'streak'),
    ('STREAK_30', 'Monthly Streak', 'Exercised 30 days in a row', '💪', 'streak'),
    ('STEPS_10K', '10K Steps', 'Reached 10,000 steps in a single day', '🚶', 'steps'),
    ('STEPS_10K_X10', '10K King', 'Reached 10,000 steps on 10 different days', '👑', 'steps'),
    ('STEPS_20K', '20K Master', 'Reached 20,000 steps in a single day', '🌟', 'steps'),
    ('EXERCISE_120', '2-Hour Workout', 'Exercised 120 minutes in a single day', '⏰', 'time'),
    ('EXERCISE_180', '3-Hour Champion', 'Exercised 180 minutes in a single day', '🥇', 'time'),
    ('TOTAL_100_DAYS', '100 Days', 'Logged 100 exercise days in total', '💯', 'milestone'),
    ('CALORIES_1000', 'Calorie Master', 'Burned 1,000 calories in a single day', '🔥', 'calories'),
    ('CALORIES_1500', 'Calorie Legend', 'Burned 1,500 calories in a single day', '💥', 'calories'),
    ('DISTANCE_5K', '5K Distance', 'Covered 5 km in a single day', '🏃', 'distance'),
    ('DISTANCE_10K', '10K Distance', 'Covered 10 km in a single day', '🎯', 'distance'),
    ('DISTANCE_15K', 'Distance King', 'Covered 15 km or more in a single day', '👑', 'distance'),
    ('MARATHON', 'Marathon Finisher', 'Covered 42.195 km in total', '🏅', 'milestone'),
    ('EARLY_BIRD', 'Early Bird', 'Exercised in the morning 7 days in a row', '🌅', 'special'),
    ('WEEKEND_WARRIOR', 'Weekend Warrior', 'Exercised on weekends 4 weeks in a row', '⚔️', 'special'),
    ('TOTAL_1000K_STEPS', 'Million Steps', 'Accumulated 1,000,000 steps in total', '🌈', 'milestone')
ON CONFLICT (code) DO NOTHING;
`

const migration004Down = `
DELETE FROM badges;
`

package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dicsio100-dev/fitnavi/internal/sqlite"
)

// WorkoutLogEntry is one row of the completed-session history.
type WorkoutLogEntry struct {
	ModeLabel       string    `json:"mode_label"`
	DurationMinutes int       `json:"duration_minutes"`
	Intensity       int       `json:"intensity"`
	CompletedAt     time.Time `json:"completed_at"`
}

// Progress is the persisted XP state for a user.
type Progress struct {
	TotalXP int `json:"total_xp"`
	Level   int `json:"level"`
}

// sqliteRepository handles database operations for profiles, records and
// session history.
type sqliteRepository struct {
	db *sqlite.Database
}

func newSQLiteRepository(db *sqlite.Database) *sqliteRepository {
	return &sqliteRepository{db: db}
}

// EnsureUser creates the user row on first contact. Safe to call on every
// request.
func (r *sqliteRepository) EnsureUser(ctx context.Context, userID string) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO users (id) VALUES (?)
		ON CONFLICT (id) DO NOTHING`, userID)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

// GetProfile loads the stored profile for a user, including personal records.
func (r *sqliteRepository) GetProfile(ctx context.Context, userID string) (Profile, error) {
	var (
		profile   Profile
		heightCm  sql.NullFloat64
		equipment string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT weight_kg, height_cm, age, experience, goal, sex, sleep_quality, equipment
		FROM profiles
		WHERE user_id = ?`, userID).Scan(
		&profile.WeightKg,
		&heightCm,
		&profile.Age,
		&profile.Experience,
		&profile.Goal,
		&profile.Sex,
		&profile.SleepQuality,
		&equipment,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("query profile: %w", err)
	}
	if heightCm.Valid {
		profile.HeightCm = &heightCm.Float64
	}
	for _, eq := range strings.Split(equipment, ",") {
		if eq != "" {
			profile.Equipment = append(profile.Equipment, EquipmentType(eq))
		}
	}

	records, err := r.GetPersonalRecords(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	profile.PersonalRecords = records
	return profile, nil
}

// SetProfile upserts the durable profile fields. Personal records are
// managed separately through the settlement path.
func (r *sqliteRepository) SetProfile(ctx context.Context, userID string, profile Profile) error {
	equipment := make([]string, 0, len(profile.Equipment))
	for _, eq := range profile.Equipment {
		equipment = append(equipment, string(eq))
	}
	var heightCm sql.NullFloat64
	if profile.HeightCm != nil {
		heightCm = sql.NullFloat64{Float64: *profile.HeightCm, Valid: true}
	}
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO profiles (user_id, weight_kg, height_cm, age, experience, goal, sex, sleep_quality, equipment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			weight_kg = excluded.weight_kg,
			height_cm = excluded.height_cm,
			age = excluded.age,
			experience = excluded.experience,
			goal = excluded.goal,
			sex = excluded.sex,
			sleep_quality = excluded.sleep_quality,
			equipment = excluded.equipment`,
		userID, profile.WeightKg, heightCm, profile.Age, string(profile.Experience),
		string(profile.Goal), string(profile.Sex), string(profile.SleepQuality),
		strings.Join(equipment, ","))
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// GetPersonalRecords returns the exercise-id to weight mapping for a user.
func (r *sqliteRepository) GetPersonalRecords(ctx context.Context, userID string) (map[string]float64, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT exercise_id, weight_kg
		FROM personal_records
		WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("query personal records: %w", err)
	}
	defer rows.Close()

	records := make(map[string]float64)
	for rows.Next() {
		var (
			exerciseID string
			weightKg   float64
		)
		if err := rows.Scan(&exerciseID, &weightKg); err != nil {
			return nil, fmt.Errorf("scan personal record: %w", err)
		}
		records[exerciseID] = weightKg
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate personal records: %w", err)
	}
	return records, nil
}

// GetProgress returns the stored XP and level, defaulting a fresh user to
// level 1.
func (r *sqliteRepository) GetProgress(ctx context.Context, userID string) (Progress, error) {
	var progress Progress
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT xp, level FROM users WHERE id = ?`, userID).Scan(&progress.TotalXP, &progress.Level)
	if errors.Is(err, sql.ErrNoRows) {
		return Progress{TotalXP: 0, Level: 1}, nil
	}
	if err != nil {
		return Progress{}, fmt.Errorf("query progress: %w", err)
	}
	return progress, nil
}

// ListWorkoutLogs returns the most recent completed sessions, newest first.
func (r *sqliteRepository) ListWorkoutLogs(ctx context.Context, userID string, limit int) ([]WorkoutLogEntry, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT mode_label, duration_minutes, intensity, completed_at
		FROM workout_logs
		WHERE user_id = ?
		ORDER BY completed_at DESC, id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query workout logs: %w", err)
	}
	defer rows.Close()

	var logs []WorkoutLogEntry
	for rows.Next() {
		var (
			entry       WorkoutLogEntry
			completedAt string
		)
		if err := rows.Scan(&entry.ModeLabel, &entry.DurationMinutes, &entry.Intensity, &completedAt); err != nil {
			return nil, fmt.Errorf("scan workout log: %w", err)
		}
		if entry.CompletedAt, err = time.Parse("2006-01-02T15:04:05.000Z", completedAt); err != nil {
			return nil, fmt.Errorf("parse workout log timestamp: %w", err)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workout logs: %w", err)
	}
	return logs, nil
}

// SaveResult persists a settled session atomically: the history row, the XP
// totals and every improved record commit together or not at all.
func (r *sqliteRepository) SaveResult(ctx context.Context, userID string, modeLabel string,
	durationMinutes int, intensity int, totalXP int, level int, updatedRecords map[string]float64) error {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settle transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO workout_logs (user_id, mode_label, duration_minutes, intensity)
		VALUES (?, ?, ?, ?)`, userID, modeLabel, durationMinutes, intensity); err != nil {
		return fmt.Errorf("insert workout log: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE users SET xp = ?, level = ? WHERE id = ?`, totalXP, level, userID); err != nil {
		return fmt.Errorf("update progress: %w", err)
	}

	for exerciseID, weightKg := range updatedRecords {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO personal_records (user_id, exercise_id, weight_kg, updated_at)
			VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
			ON CONFLICT (user_id, exercise_id) DO UPDATE SET
				weight_kg = excluded.weight_kg,
				updated_at = excluded.updated_at`, userID, exerciseID, weightKg); err != nil {
			return fmt.Errorf("upsert personal record: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit settle transaction: %w", err)
	}
	return nil
}

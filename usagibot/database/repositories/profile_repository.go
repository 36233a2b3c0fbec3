package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"github.com/usagipet/usagibot/usagibot/database/models"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	GetOrCreate(ctx context.Context, userID string) (*models.Profile, error)
	// Update writes only the listed columns so concurrent writers never
	// clobber unrelated fields. updated_at is always included.
	Update(ctx context.Context, profile *models.Profile, columns ...string) error
	GetAll(ctx context.Context) ([]*models.Profile, error)
	GetNotCheckedInSince(ctx context.Context, date string) ([]*models.Profile, error)
}

type profileRepository struct {
	db *bun.DB
}

func NewProfileRepository(db *bun.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if _, err := r.db.NewInsert().Model(profile).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	profile := new(models.Profile)
	err := r.db.NewSelect().
		Model(profile).
		Where("user_id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (r *profileRepository) GetOrCreate(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := r.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	profile = models.NewProfile(userID, time.Now())
	if err := r.Create(ctx, profile); err != nil {
		return nil, err
	}

	slog.Info("Created new profile",
		slog.String("type", "db"),
		slog.String("user_id", userID))
	return profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile, columns ...string) error {
	profile.UpdatedAt = time.Now()
	columns = append(columns, "updated_at")

	res, err := r.db.NewUpdate().
		Model(profile).
		Column(columns...).
		Where("user_id = ?", profile.UserID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *profileRepository) GetAll(ctx context.Context) ([]*models.Profile, error) {
	var profiles []*models.Profile
	if err := r.db.NewSelect().Model(&profiles).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// GetNotCheckedInSince returns profiles whose last check-in predates the
// given calendar date. Used by the evening reminder sweep.
func (r *profileRepository) GetNotCheckedInSince(ctx context.Context, date string) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := r.db.NewSelect().
		Model(&profiles).
		Where("last_login != ''").
		Where("last_login < ?", date).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale profiles: %w", err)
	}
	return profiles, nil
}

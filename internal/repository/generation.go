package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ramadanhub/backend/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GenerationRepository records every allowed, provider-invoking call.
type GenerationRepository struct {
	db *pgxpool.Pool
}

// NewGenerationRepository creates a new GenerationRepository.
func NewGenerationRepository(db *pgxpool.Pool) *GenerationRepository {
	return &GenerationRepository{db: db}
}

// Record inserts a generation audit row.
func (r *GenerationRepository) Record(ctx context.Context, g *domain.Generation) error {
	query := `
		INSERT INTO generations (id, user_id, feature, model, status, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		g.ID, g.UserID, g.Feature, g.Model, g.Status, g.DurationMS, g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record generation: %w", err)
	}
	return nil
}

// UsageSince returns per-feature generation counts for a user since a cutoff.
func (r *GenerationRepository) UsageSince(ctx context.Context, userID string, since time.Time) ([]domain.FeatureUsage, error) {
	query := `
		SELECT feature, COUNT(*)
		FROM generations
		WHERE user_id = $1 AND created_at >= $2 AND status = 'succeeded'
		GROUP BY feature
		ORDER BY feature
	`
	rows, err := r.db.Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage: %w", err)
	}
	defer rows.Close()

	var usage []domain.FeatureUsage
	for rows.Next() {
		var u domain.FeatureUsage
		if err := rows.Scan(&u.Feature, &u.Count); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		usage = append(usage, u)
	}
	return usage, nil
}

// CountSince returns the total number of successful generations since a cutoff.
func (r *GenerationRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM generations WHERE created_at >= $1 AND status = 'succeeded'`, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count generations: %w", err)
	}
	return count, nil
}

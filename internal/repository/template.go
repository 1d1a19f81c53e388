package repository

import (
	"context"
	"fmt"

	"github.com/ramadanhub/backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TemplateRepository handles database operations for content templates.
type TemplateRepository struct {
	db *pgxpool.Pool
}

// NewTemplateRepository creates a new TemplateRepository.
func NewTemplateRepository(db *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// ListByKind returns all templates of a kind, popular first.
func (r *TemplateRepository) ListByKind(ctx context.Context, kind string) ([]*domain.Template, error) {
	query := `
		SELECT id, kind, name, prompt, popular, created_at
		FROM templates WHERE kind = $1
		ORDER BY popular DESC, name ASC
	`
	rows, err := r.db.Query(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []*domain.Template
	for rows.Next() {
		var t domain.Template
		if err := rows.Scan(&t.ID, &t.Kind, &t.Name, &t.Prompt, &t.Popular, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, &t)
	}
	return templates, nil
}

// FindByID returns a template by ID, or nil when absent.
func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*domain.Template, error) {
	query := `SELECT id, kind, name, prompt, popular, created_at FROM templates WHERE id = $1`
	row := r.db.QueryRow(ctx, query, id)

	var t domain.Template
	err := row.Scan(&t.ID, &t.Kind, &t.Name, &t.Prompt, &t.Popular, &t.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find template: %w", err)
	}
	return &t, nil
}

// SeedDefaults inserts the starter catalog on first boot.
func (r *TemplateRepository) SeedDefaults(ctx context.Context) error {
	seed := []struct {
		id, kind, name, prompt string
		popular                bool
	}{
		{"party-iftar-garden", domain.TemplateParty, "Garden Iftar", "a warm garden iftar gathering at sunset with lanterns and a long shared table", true},
		{"party-majlis", domain.TemplateParty, "Traditional Majlis", "a traditional majlis with floor cushions, ornate carpets and tea service", false},
		{"party-rooftop", domain.TemplateParty, "Rooftop Suhoor", "a rooftop suhoor under string lights with a city skyline and crescent moon", false},
		{"costume-kaftan", domain.TemplateCostume, "Embroidered Kaftan", "wearing elegant embroidered kaftans in deep jewel tones", true},
		{"costume-thobe", domain.TemplateCostume, "Classic Thobe", "wearing crisp white thobes with subtle gold trim", false},
		{"costume-modern", domain.TemplateCostume, "Modern Modest", "wearing modern modest fashion in coordinated earth tones", false},
		{"attr-bookworm", domain.TemplateAttribute, "Bookworm", "loves reading and quiet study", false},
		{"attr-foodie", domain.TemplateAttribute, "Foodie", "loves cooking and discovering new dishes", true},
		{"attr-crafty", domain.TemplateAttribute, "Crafty", "enjoys handmade crafts and DIY projects", false},
	}

	for _, s := range seed {
		_, err := r.db.Exec(ctx, `
			INSERT INTO templates (id, kind, name, prompt, popular)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING
		`, s.id, s.kind, s.name, s.prompt, s.popular)
		if err != nil {
			return fmt.Errorf("failed to seed template %s: %w", s.id, err)
		}
	}
	return nil
}

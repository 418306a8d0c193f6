package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/RomanDenysov/qr-payment-sk/internal/domain/template"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/errors"
)

// TemplateRepository implements template.Repository
type TemplateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *sql.DB) template.Repository {
	return &TemplateRepository{db: db}
}

const templateColumns = `id, user_id, name, iban, amount_cents, description,
	usage_count, is_active, created_at, updated_at`

func scanTemplate(row interface{ Scan(...interface{}) error }) (*template.Template, error) {
	var t template.Template
	var description sql.NullString
	var createdAt, updatedAt int64

	err := row.Scan(
		&t.ID, &t.UserID, &t.Name, &t.IBAN, &t.AmountCents, &description,
		&t.UsageCount, &t.IsActive, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		t.Description = description.String
	}
	t.CreatedAt = time.Unix(createdAt, 0).UTC()
	t.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	return &t, nil
}

// Create creates a new template
func (r *TemplateRepository) Create(ctx context.Context, t *template.Template) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.IsActive = true

	query := `
		INSERT INTO payment_templates (user_id, name, iban, amount_cents,
			description, usage_count, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		t.UserID, t.Name, t.IBAN, t.AmountCents, t.Description,
		t.UsageCount, t.IsActive, now.Unix(), now.Unix(),
	).Scan(&t.ID)
	if err != nil {
		return errors.DatabaseError("Failed to create template", err)
	}

	return nil
}

// GetByID retrieves an active template scoped to its owner
func (r *TemplateRepository) GetByID(ctx context.Context, userID, id int64) (*template.Template, error) {
	query := `SELECT ` + templateColumns + `
		FROM payment_templates WHERE id = $1 AND user_id = $2 AND is_active = TRUE`

	t, err := scanTemplate(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Template")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get template", err)
	}

	return t, nil
}

// ListActive retrieves a user's active templates
func (r *TemplateRepository) ListActive(ctx context.Context, userID int64) ([]*template.Template, error) {
	query := `SELECT ` + templateColumns + `
		FROM payment_templates
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list templates", err)
	}
	defer rows.Close()

	var templates []*template.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan template", err)
		}
		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate templates", err)
	}

	return templates, nil
}

// Update updates template fields
func (r *TemplateRepository) Update(ctx context.Context, t *template.Template) error {
	t.UpdatedAt = time.Now()

	query := `
		UPDATE payment_templates
		SET name = $1, iban = $2, amount_cents = $3, description = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7 AND is_active = TRUE
	`

	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.IBAN, t.AmountCents, t.Description, t.UpdatedAt.Unix(),
		t.ID, t.UserID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update template", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}

	if rows == 0 {
		return errors.NotFound("Template")
	}

	return nil
}

// Deactivate soft-deletes a template
func (r *TemplateRepository) Deactivate(ctx context.Context, userID, id int64) error {
	query := `
		UPDATE payment_templates
		SET is_active = FALSE, updated_at = $3
		WHERE id = $1 AND user_id = $2 AND is_active = TRUE
	`

	result, err := r.db.ExecContext(ctx, query, id, userID, time.Now().Unix())
	if err != nil {
		return errors.DatabaseError("Failed to deactivate template", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}

	if rows == 0 {
		return errors.NotFound("Template")
	}

	return nil
}

// IncrementUsage atomically bumps the usage counter
func (r *TemplateRepository) IncrementUsage(ctx context.Context, id int64) error {
	query := `
		UPDATE payment_templates
		SET usage_count = usage_count + 1, updated_at = $2
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, id, time.Now().Unix()); err != nil {
		return errors.DatabaseError("Failed to increment template usage", err)
	}

	return nil
}

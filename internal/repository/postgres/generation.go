package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/RomanDenysov/qr-payment-sk/internal/domain/payment"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/errors"
)

// GenerationRepository implements payment.Repository
type GenerationRepository struct {
	db *sql.DB
}

// NewGenerationRepository creates a new generation repository
func NewGenerationRepository(db *sql.DB) payment.Repository {
	return &GenerationRepository{db: db}
}

// Create inserts a new generation record
func (r *GenerationRepository) Create(ctx context.Context, g *payment.Generation) error {
	g.CreatedAt = time.Now()

	query := `
		INSERT INTO qr_generations (id, user_id, template_id, amount_cents,
			variable_symbol, payload, iban, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		g.ID, g.UserID, g.TemplateID, g.AmountCents,
		g.VariableSymbol, g.Payload, g.IBAN, g.Note, g.CreatedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("Variable symbol is already used")
		}
		return errors.DatabaseError("Failed to create generation", err)
	}

	return nil
}

// GetByID retrieves a generation by ID, scoped to its owner
func (r *GenerationRepository) GetByID(ctx context.Context, userID int64, id string) (*payment.Generation, error) {
	query := `
		SELECT id, user_id, template_id, amount_cents, variable_symbol,
			payload, iban, note, created_at
		FROM qr_generations WHERE id = $1 AND user_id = $2
	`

	g, err := scanGeneration(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Generation")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get generation", err)
	}

	return g, nil
}

// ListByUser retrieves a user's generations, newest first
func (r *GenerationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*payment.Generation, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM qr_generations WHERE user_id = $1", userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count generations", err)
	}

	query := `
		SELECT id, user_id, template_id, amount_cents, variable_symbol,
			payload, iban, note, created_at
		FROM qr_generations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list generations", err)
	}
	defer rows.Close()

	var generations []*payment.Generation
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan generation", err)
		}
		generations = append(generations, g)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to iterate generations", err)
	}

	return generations, total, nil
}

func scanGeneration(row interface{ Scan(...interface{}) error }) (*payment.Generation, error) {
	var g payment.Generation
	var userID, templateID sql.NullInt64
	var note sql.NullString
	var createdAt int64

	err := row.Scan(
		&g.ID, &userID, &templateID, &g.AmountCents, &g.VariableSymbol,
		&g.Payload, &g.IBAN, &note, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		g.UserID = &userID.Int64
	}
	if templateID.Valid {
		g.TemplateID = &templateID.Int64
	}
	if note.Valid {
		g.Note = note.String
	}
	g.CreatedAt = time.Unix(createdAt, 0).UTC()

	return &g, nil
}

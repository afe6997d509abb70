package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type leadQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	pool leadQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithQuerier(q leadQuerier) *PostgresRepository {
	if q == nil {
		panic("leads: querier required")
	}
	return &PostgresRepository{pool: q}
}

// Create inserts a new row. A unique index on phone makes duplicates surface
// as ErrDuplicateLead.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO leads (id, conversation_id, name, phone, national_id, address,
			policy_of_interest, email, preferred_contact_time, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.ConversationID,
		req.Name,
		req.Phone,
		req.NationalID,
		req.Address,
		req.PolicyOfInterest,
		req.Email,
		req.PreferredContactTime,
		req.Notes,
	).Scan(&createdAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateLead
		}
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:                   id.String(),
		ConversationID:       req.ConversationID,
		Name:                 req.Name,
		Phone:                req.Phone,
		NationalID:           req.NationalID,
		Address:              req.Address,
		PolicyOfInterest:     req.PolicyOfInterest,
		Email:                req.Email,
		PreferredContactTime: req.PreferredContactTime,
		Notes:                req.Notes,
		CreatedAt:            createdAt,
	}, nil
}

const leadColumns = `id, conversation_id, name, phone, national_id, address,
		policy_of_interest, email, preferred_contact_time, notes, created_at`

// GetByID fetches a lead by its id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE id = $1
	`
	return r.scanLead(r.pool.QueryRow(ctx, query, id))
}

// GetByPhone fetches a lead by phone number.
func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (*Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE phone = $1
	`
	return r.scanLead(r.pool.QueryRow(ctx, query, phone))
}

func (r *PostgresRepository) scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	if err := row.Scan(
		&lead.ID,
		&lead.ConversationID,
		&lead.Name,
		&lead.Phone,
		&lead.NationalID,
		&lead.Address,
		&lead.PolicyOfInterest,
		&lead.Email,
		&lead.PreferredContactTime,
		&lead.Notes,
		&lead.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return &lead, nil
}

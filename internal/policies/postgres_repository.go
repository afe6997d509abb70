package policies

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type catalogQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository reads the policy catalog from the relational database.
type PostgresRepository struct {
	pool catalogQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("policies: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithQuerier(q catalogQuerier) *PostgresRepository {
	if q == nil {
		panic("policies: querier required")
	}
	return &PostgresRepository{pool: q}
}

const policyColumns = `id, name, provider, policy_type, coverage_amount,
		monthly_premium, term_years, min_age, max_age, medical_exam, description, created_at`

// List returns every policy in the catalog.
func (r *PostgresRepository) List(ctx context.Context) ([]Policy, error) {
	query := `
		SELECT ` + policyColumns + `
		FROM policies
		ORDER BY coverage_amount
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("policies: select failed: %w", err)
	}
	defer rows.Close()

	var out []Policy
	for rows.Next() {
		var p Policy
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Provider,
			&p.PolicyType,
			&p.CoverageAmount,
			&p.MonthlyPremium,
			&p.TermYears,
			&p.MinAge,
			&p.MaxAge,
			&p.MedicalExam,
			&p.Description,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("policies: scan failed: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("policies: rows failed: %w", err)
	}
	return out, nil
}

// GetByName fetches a single policy by its display name.
func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*Policy, error) {
	query := `
		SELECT ` + policyColumns + `
		FROM policies
		WHERE LOWER(name) = LOWER($1)
	`
	row := r.pool.QueryRow(ctx, query, name)
	var p Policy
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Provider,
		&p.PolicyType,
		&p.CoverageAmount,
		&p.MonthlyPremium,
		&p.TermYears,
		&p.MinAge,
		&p.MaxAge,
		&p.MedicalExam,
		&p.Description,
		&p.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrPolicyNotFound, name)
		}
		return nil, fmt.Errorf("policies: select failed: %w", err)
	}
	return &p, nil
}

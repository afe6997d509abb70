package policies

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositorySeedCatalog(t *testing.T) {
	repo := NewMemoryRepository(nil)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)

	p, err := repo.GetByName(context.Background(), "family term 500k")
	require.NoError(t, err)
	assert.Equal(t, "Family Term 500k", p.Name)
	assert.Equal(t, int64(500_000), p.CoverageAmount)
	assert.True(t, p.MedicalExam)
}

func TestMemoryRepositoryNotFound(t *testing.T) {
	repo := NewMemoryRepository(nil)

	_, err := repo.GetByName(context.Background(), "Whole Life Deluxe")
	assert.ErrorIs(t, err, ErrPolicyNotFound)
}

func TestPostgresRepositoryGetByName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)

	created := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{
		"id", "name", "provider", "policy_type", "coverage_amount",
		"monthly_premium", "term_years", "min_age", "max_age", "medical_exam", "description", "created_at",
	}).AddRow("pol-1", "Basic Term 250k", "AcmeLife", "term", int64(250_000),
		29.99, 20, 18, 60, false, "Starter coverage.", created)

	mock.ExpectQuery("SELECT (.+) FROM policies").WithArgs("Basic Term 250k").WillReturnRows(rows)

	p, err := repo.GetByName(context.Background(), "Basic Term 250k")
	require.NoError(t, err)
	assert.Equal(t, "AcmeLife", p.Provider)
	assert.Equal(t, 20, p.TermYears)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)

	created := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{
		"id", "name", "provider", "policy_type", "coverage_amount",
		"monthly_premium", "term_years", "min_age", "max_age", "medical_exam", "description", "created_at",
	}).
		AddRow("pol-1", "Basic Term 250k", "AcmeLife", "term", int64(250_000),
			29.99, 20, 18, 60, false, "Starter coverage.", created).
		AddRow("pol-2", "Family Term 500k", "AcmeLife", "term", int64(500_000),
			54.50, 20, 21, 55, true, "Family coverage.", created)

	mock.ExpectQuery("SELECT (.+) FROM policies").WillReturnRows(rows)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Family Term 500k", all[1].Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fusionlabs/profilegen/internal/config"
	"github.com/fusionlabs/profilegen/internal/model"
)

func configWithDriver(driver string) config.StoreConfig {
	return config.StoreConfig{Driver: driver, DatabaseURL: "test.db"}
}

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgres_GetProfile_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT company_name, company_domain, extracted_fields`).
		WithArgs("Nobody Inc").
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetProfile(context.Background(), "Nobody Inc")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetProfile_Found(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	domain := "example.com"
	short := "A robotics company."
	long := "A longer description."
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"company_name", "company_domain", "extracted_fields", "confidence_scores",
		"short_description", "long_description", "created_at", "updated_at",
	}).AddRow(
		"Acme Robotics", &domain,
		[]byte(`{"business_summary":"Builds robots.","product_lines":["robots"],"target_industries":[],"regions":[],"hiring_focus":[],"key_recent_events":[]}`),
		[]byte(`{"business_summary":0.5}`),
		&short, &long, now, now,
	)

	mock.ExpectQuery(`SELECT company_name, company_domain, extracted_fields`).
		WithArgs("Acme Robotics").
		WillReturnRows(rows)

	got, err := s.GetProfile(context.Background(), "Acme Robotics")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "example.com", got.CompanyDomain)
	assert.Equal(t, "Builds robots.", got.ExtractedFields.BusinessSummary)
	assert.Equal(t, 0.5, got.ConfidenceScores[model.FieldBusinessSummary])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpsertProfile(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO company_profiles`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	p := &model.CompanyProfile{
		CompanyName:      "Acme Robotics",
		ExtractedFields:  model.EmptyFieldExtraction(),
		ConfidenceScores: map[string]float64{},
	}
	require.NoError(t, s.UpsertProfile(context.Background(), p))
	assert.False(t, p.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetIndustryMapping_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT company_name, company_domain, matched_level`).
		WithArgs("Nobody Inc").
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetIndustryMapping(context.Background(), "Nobody Inc")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpsertIndustryMapping(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO industry_mappings`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	m := &model.IndustryMapping{
		CompanyName:  "Acme Robotics",
		MatchedLevel: model.LevelSector,
		Sector:       "Technology",
		Industry:     "Software",
		SubIndustry:  "Enterprise Software",
		Confidence:   0.31,
	}
	require.NoError(t, s.UpsertIndustryMapping(context.Background(), m))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS company_profiles`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

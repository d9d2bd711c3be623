package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/fusionlabs/profilegen/internal/model"
)

// pgxQuerier is the subset of pgxpool.Pool the store uses. Satisfied by
// pgxmock.PgxPoolIface in tests.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    pgxQuerier
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS company_profiles (
	company_name      TEXT PRIMARY KEY,
	company_domain    TEXT,
	extracted_fields  JSONB NOT NULL,
	confidence_scores JSONB NOT NULL,
	short_description TEXT,
	long_description  TEXT,
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS industry_mappings (
	company_name    TEXT PRIMARY KEY,
	company_domain  TEXT,
	matched_level   TEXT NOT NULL,
	sector          TEXT NOT NULL,
	industry        TEXT NOT NULL,
	sub_industry    TEXT NOT NULL,
	sic_code        TEXT,
	sic_description TEXT,
	confidence      DOUBLE PRECISION NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) UpsertProfile(ctx context.Context, profile *model.CompanyProfile) error {
	now := time.Now().UTC()

	fieldsJSON, err := json.Marshal(profile.ExtractedFields)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal extracted fields")
	}
	scoresJSON, err := json.Marshal(profile.ConfidenceScores)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal confidence scores")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO company_profiles
		 (company_name, company_domain, extracted_fields, confidence_scores, short_description, long_description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (company_name) DO UPDATE SET
		   company_domain = $2, extracted_fields = $3, confidence_scores = $4,
		   short_description = $5, long_description = $6, created_at = $7, updated_at = $8`,
		profile.CompanyName, profile.CompanyDomain, fieldsJSON, scoresJSON,
		profile.ShortDescription, profile.LongDescription, now, now,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: upsert profile %s", profile.CompanyName)
	}

	profile.CreatedAt = now
	profile.UpdatedAt = now
	return nil
}

func (s *PostgresStore) GetProfile(ctx context.Context, companyName string) (*model.CompanyProfile, error) {
	var p model.CompanyProfile
	var domain, short, long *string
	var fieldsJSON, scoresJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT company_name, company_domain, extracted_fields, confidence_scores,
		        short_description, long_description, created_at, updated_at
		 FROM company_profiles WHERE company_name = $1`,
		companyName,
	).Scan(&p.CompanyName, &domain, &fieldsJSON, &scoresJSON, &short, &long, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get profile %s", companyName)
	}

	if domain != nil {
		p.CompanyDomain = *domain
	}
	if short != nil {
		p.ShortDescription = *short
	}
	if long != nil {
		p.LongDescription = *long
	}
	if err := json.Unmarshal(fieldsJSON, &p.ExtractedFields); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal extracted fields")
	}
	if err := json.Unmarshal(scoresJSON, &p.ConfidenceScores); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal confidence scores")
	}
	return &p, nil
}

func (s *PostgresStore) UpsertIndustryMapping(ctx context.Context, mapping *model.IndustryMapping) error {
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO industry_mappings
		 (company_name, company_domain, matched_level, sector, industry, sub_industry, sic_code, sic_description, confidence, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (company_name) DO UPDATE SET
		   company_domain = $2, matched_level = $3, sector = $4, industry = $5,
		   sub_industry = $6, sic_code = $7, sic_description = $8, confidence = $9,
		   created_at = $10, updated_at = $11`,
		mapping.CompanyName, mapping.CompanyDomain, string(mapping.MatchedLevel),
		mapping.Sector, mapping.Industry, mapping.SubIndustry,
		mapping.SICCode, mapping.SICDescription, mapping.Confidence, now, now,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: upsert industry mapping %s", mapping.CompanyName)
	}

	mapping.CreatedAt = now
	mapping.UpdatedAt = now
	return nil
}

func (s *PostgresStore) GetIndustryMapping(ctx context.Context, companyName string) (*model.IndustryMapping, error) {
	var m model.IndustryMapping
	var domain, sicCode, sicDesc *string
	var level string

	err := s.pool.QueryRow(ctx,
		`SELECT company_name, company_domain, matched_level, sector, industry, sub_industry,
		        sic_code, sic_description, confidence, created_at, updated_at
		 FROM industry_mappings WHERE company_name = $1`,
		companyName,
	).Scan(&m.CompanyName, &domain, &level, &m.Sector, &m.Industry, &m.SubIndustry,
		&sicCode, &sicDesc, &m.Confidence, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get industry mapping %s", companyName)
	}

	if domain != nil {
		m.CompanyDomain = *domain
	}
	if sicCode != nil {
		m.SICCode = *sicCode
	}
	if sicDesc != nil {
		m.SICDescription = *sicDesc
	}
	m.MatchedLevel = model.MatchedLevel(level)
	return &m, nil
}

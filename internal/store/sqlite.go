package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/fusionlabs/profilegen/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS company_profiles (
	company_name      TEXT PRIMARY KEY,
	company_domain    TEXT,
	extracted_fields  TEXT NOT NULL,
	confidence_scores TEXT NOT NULL,
	short_description TEXT,
	long_description  TEXT,
	created_at        DATETIME NOT NULL,
	updated_at        DATETIME NOT NULL
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
	confidence      REAL NOT NULL,
	created_at      DATETIME NOT NULL,
	updated_at      DATETIME NOT NULL
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertProfile(ctx context.Context, profile *model.CompanyProfile) error {
	now := time.Now().UTC()

	fieldsJSON, err := json.Marshal(profile.ExtractedFields)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal extracted fields")
	}
	scoresJSON, err := json.Marshal(profile.ConfidenceScores)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal confidence scores")
	}

	// Full replace, including created_at: no historical versions survive a
	// regeneration.
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO company_profiles
		 (company_name, company_domain, extracted_fields, confidence_scores, short_description, long_description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (company_name) DO UPDATE SET
		   company_domain = excluded.company_domain,
		   extracted_fields = excluded.extracted_fields,
		   confidence_scores = excluded.confidence_scores,
		   short_description = excluded.short_description,
		   long_description = excluded.long_description,
		   created_at = excluded.created_at,
		   updated_at = excluded.updated_at`,
		profile.CompanyName, profile.CompanyDomain, string(fieldsJSON), string(scoresJSON),
		profile.ShortDescription, profile.LongDescription, now, now,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: upsert profile %s", profile.CompanyName)
	}

	profile.CreatedAt = now
	profile.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) GetProfile(ctx context.Context, companyName string) (*model.CompanyProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT company_name, company_domain, extracted_fields, confidence_scores,
		        short_description, long_description, created_at, updated_at
		 FROM company_profiles WHERE company_name = ?`,
		companyName,
	)

	var p model.CompanyProfile
	var domain, short, long sql.NullString
	var fieldsJSON, scoresJSON string
	err := row.Scan(&p.CompanyName, &domain, &fieldsJSON, &scoresJSON, &short, &long, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get profile %s", companyName)
	}

	p.CompanyDomain = domain.String
	p.ShortDescription = short.String
	p.LongDescription = long.String
	if err := json.Unmarshal([]byte(fieldsJSON), &p.ExtractedFields); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal extracted fields")
	}
	if err := json.Unmarshal([]byte(scoresJSON), &p.ConfidenceScores); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal confidence scores")
	}
	return &p, nil
}

func (s *SQLiteStore) UpsertIndustryMapping(ctx context.Context, mapping *model.IndustryMapping) error {
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO industry_mappings
		 (company_name, company_domain, matched_level, sector, industry, sub_industry, sic_code, sic_description, confidence, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (company_name) DO UPDATE SET
		   company_domain = excluded.company_domain,
		   matched_level = excluded.matched_level,
		   sector = excluded.sector,
		   industry = excluded.industry,
		   sub_industry = excluded.sub_industry,
		   sic_code = excluded.sic_code,
		   sic_description = excluded.sic_description,
		   confidence = excluded.confidence,
		   created_at = excluded.created_at,
		   updated_at = excluded.updated_at`,
		mapping.CompanyName, mapping.CompanyDomain, string(mapping.MatchedLevel),
		mapping.Sector, mapping.Industry, mapping.SubIndustry,
		mapping.SICCode, mapping.SICDescription, mapping.Confidence, now, now,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: upsert industry mapping %s", mapping.CompanyName)
	}

	mapping.CreatedAt = now
	mapping.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) GetIndustryMapping(ctx context.Context, companyName string) (*model.IndustryMapping, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT company_name, company_domain, matched_level, sector, industry, sub_industry,
		        sic_code, sic_description, confidence, created_at, updated_at
		 FROM industry_mappings WHERE company_name = ?`,
		companyName,
	)

	var m model.IndustryMapping
	var domain, sicCode, sicDesc sql.NullString
	var level string
	err := row.Scan(&m.CompanyName, &domain, &level, &m.Sector, &m.Industry, &m.SubIndustry,
		&sicCode, &sicDesc, &m.Confidence, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get industry mapping %s", companyName)
	}

	m.CompanyDomain = domain.String
	m.MatchedLevel = model.MatchedLevel(level)
	m.SICCode = sicCode.String
	m.SICDescription = sicDesc.String
	return &m, nil
}

package org

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ruben-888/poynts-ai-portal-sub002/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	db *sql.DB
}

// Open connects to the mapping database using the pgx stdlib driver.
func Open(dsn string) (*PGStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &PGStore{db: db}, nil
}

// NewPGStore wraps an existing database handle.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Close() error { return s.db.Close() }

// DB exposes the handle for readiness pings.
func (s *PGStore) DB() *sql.DB { return s.db }

func (s *PGStore) Resolve(ctx context.Context, externalID string) (string, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return "", ErrNoContext
	}
	var internal string
	err := s.db.QueryRowContext(ctx,
		`select organization_id from organization_mappings where external_id=$1`, externalID,
	).Scan(&internal)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return internal, nil
}

func (s *PGStore) Create(ctx context.Context, m *Mapping) error {
	if m.OrganizationID == "" {
		m.OrganizationID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into organization_mappings(external_id, organization_id, name) values($1,$2,$3)`,
		m.ExternalID, m.OrganizationID, m.Name,
	)
	return err
}

func (s *PGStore) List(ctx context.Context) ([]*Mapping, error) {
	rows, err := s.db.QueryContext(ctx,
		`select external_id, organization_id, name, created_at from organization_mappings order by created_at asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Mapping
	for rows.Next() {
		var m Mapping
		if err := rows.Scan(&m.ExternalID, &m.OrganizationID, &m.Name, &m.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &m)
	}
	return res, rows.Err()
}

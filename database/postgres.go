// Package database archives a loaded link graph to postgres for
// downstream SQL analysis. The JSON cache remains the engine's own
// persistence; the archive is a one-way export.
package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"wiki-explorer/graph"
)

type Store struct {
	DB  *sql.DB
	log *zap.Logger
}

func NewStore(databaseURL string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{DB: db, log: log}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS pages (
			id SERIAL PRIMARY KEY,
			title TEXT UNIQUE NOT NULL,
			out_degree INTEGER NOT NULL DEFAULT 0,
			exported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS links (
			id SERIAL PRIMARY KEY,
			from_title TEXT NOT NULL,
			to_title TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_links_from ON links(from_title)`,
		`CREATE INDEX IF NOT EXISTS idx_links_to ON links(to_title)`,
	}

	for _, query := range queries {
		if _, err := s.DB.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}
	return nil
}

// ExportGraph writes every page and directed link to the archive tables.
// Link rows from a previous export are replaced; duplicate edges in the
// adjacency become duplicate rows.
func (s *Store) ExportGraph(ctx context.Context, g *graph.Graph) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "TRUNCATE TABLE links"); err != nil {
		return err
	}

	pageStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pages (title, out_degree)
		VALUES ($1, $2)
		ON CONFLICT (title) DO UPDATE SET
			out_degree = EXCLUDED.out_degree,
			exported_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return err
	}
	defer pageStmt.Close()

	linkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO links (from_title, to_title)
		VALUES ($1, $2)
	`)
	if err != nil {
		return err
	}
	defer linkStmt.Close()

	var exportErr error
	pages, edges := 0, 0
	g.Each(func(title string, out []string) {
		if exportErr != nil {
			return
		}
		if _, err := pageStmt.ExecContext(ctx, title, len(out)); err != nil {
			exportErr = err
			return
		}
		pages++
		for _, to := range out {
			if _, err := linkStmt.ExecContext(ctx, title, to); err != nil {
				exportErr = err
				return
			}
			edges++
		}
	})
	if exportErr != nil {
		return exportErr
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.log.Info("graph exported", zap.Int("pages", pages), zap.Int("links", edges))
	return nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

package store

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/alumni-reunion/backend/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements Store on a pgx pool, for deployments that outgrow
// the flat file. Append is a plain insert; whole-collection-rewrite semantics
// do not apply here.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects, pings and runs embedded migrations.
func NewPostgresStore(ctx context.Context, dsn string, logger *zap.Logger) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	if logger != nil {
		logger.Info("PostgreSQL registration store ready")
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// LoadAll returns all registrations in insertion order.
func (s *PostgresStore) LoadAll(ctx context.Context) ([]models.Registration, error) {
	const q = `SELECT ticket_id, name, phone, email, class_name, graduation_year, message,
		sessions, created_at, meta_ip, meta_user_agent, meta_referer, checked_in_at
		FROM registrations ORDER BY created_at`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query registrations: %w", err)
	}
	defer rows.Close()

	var recs []models.Registration
	for rows.Next() {
		var rec models.Registration
		var sessions []string
		if err := rows.Scan(&rec.TicketID, &rec.Name, &rec.Phone, &rec.Email,
			&rec.ClassName, &rec.GraduationYear, &rec.Message, &sessions,
			&rec.Timestamp, &rec.Meta.IP, &rec.Meta.UserAgent, &rec.Meta.Referer,
			&rec.CheckedInAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		rec.Sessions = make([]models.SessionTag, len(sessions))
		for i, sess := range sessions {
			rec.Sessions[i] = models.SessionTag(sess)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Append inserts one registration.
func (s *PostgresStore) Append(ctx context.Context, rec models.Registration) error {
	const q = `INSERT INTO registrations
		(ticket_id, name, phone, email, class_name, graduation_year, message,
		 sessions, created_at, meta_ip, meta_user_agent, meta_referer, checked_in_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	sessions := make([]string, len(rec.Sessions))
	for i, sess := range rec.Sessions {
		sessions[i] = string(sess)
	}
	_, err := s.pool.Exec(ctx, q, rec.TicketID, rec.Name, rec.Phone, rec.Email,
		rec.ClassName, rec.GraduationYear, rec.Message, sessions, rec.Timestamp,
		rec.Meta.IP, rec.Meta.UserAgent, rec.Meta.Referer, rec.CheckedInAt)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// migrate runs embedded SQL migrations in lexical order.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		sql, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err = pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
	}
	return nil
}

package database

import (
	"context"
	"fmt"
	"strings"
)

// schema is written in PostgreSQL and translated for SQLite.
var schema = []struct {
	name string
	ddl  string
}{
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(100) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL
		)`},
	{"posts", `
		CREATE TABLE IF NOT EXISTS posts (
			id UUID PRIMARY KEY,
			title VARCHAR(80) NOT NULL,
			content TEXT NOT NULL,
			image_url TEXT,
			author_id UUID NOT NULL REFERENCES users(id),
			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			like_count INTEGER NOT NULL DEFAULT 0 CHECK (like_count >= 0),
			view_count INTEGER NOT NULL DEFAULT 0 CHECK (view_count >= 0)
		)`},
	{"comments", `
		CREATE TABLE IF NOT EXISTS comments (
			id UUID PRIMARY KEY,
			content TEXT NOT NULL,
			post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id),
			is_approved BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL
		)`},
	{"likes", `
		CREATE TABLE IF NOT EXISTS likes (
			user_id UUID NOT NULL REFERENCES users(id),
			post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			PRIMARY KEY (user_id, post_id)
		)`},
	{"views", `
		CREATE TABLE IF NOT EXISTS views (
			user_id UUID NOT NULL REFERENCES users(id),
			post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			PRIMARY KEY (user_id, post_id)
		)`},
	{"posts_created_at_idx", `CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC)`},
	{"comments_post_id_idx", `CREATE INDEX IF NOT EXISTS comments_post_id_idx ON comments (post_id, created_at)`},
}

var sqliteTypes = strings.NewReplacer(
	"UUID", "TEXT",
	"TIMESTAMP WITH TIME ZONE", "TIMESTAMP",
)

// InitializeTables creates all necessary tables if they don't exist
func (s *SQLStore) InitializeTables(ctx context.Context) error {
	for _, table := range schema {
		ddl := table.ddl
		if s.dialect == DialectSQLite {
			ddl = sqliteTypes.Replace(ddl)
		}
		if _, err := s.DB.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create %s: %w", table.name, err)
		}
	}
	s.log.Debug("Schema initialized", "tables", len(schema))
	return nil
}

// internal/database/database.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"boom-blog/internal/models"
	"boom-blog/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// DBAdapter defines the storage operations the engine depends on.
// Every mutating method is a single statement or a single transaction.
type DBAdapter interface {
	// Connection
	Close(ctx context.Context) error
	InitializeTables(ctx context.Context) error

	// User methods
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	ListUsers(ctx context.Context, page models.Pagination) (*models.Page[*models.User], error)
	UpdateUser(ctx context.Context, id uuid.UUID, update models.UserUpdate) (*models.User, error)
	ToggleUserActive(ctx context.Context, id uuid.UUID) (*models.User, error)

	// Post methods
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	ListPosts(ctx context.Context, includeInactive bool, page models.Pagination) (*models.Page[*models.Post], error)
	UpdatePost(ctx context.Context, id uuid.UUID, update models.PostUpdate) (*models.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	TogglePostActive(ctx context.Context, id uuid.UUID) (*models.Post, error)

	// Comment methods
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListPostComments(ctx context.Context, postID uuid.UUID, filter CommentFilter, page models.Pagination) (*models.Page[*models.Comment], error)
	ListComments(ctx context.Context, approved *bool, page models.Pagination) (*models.Page[*models.Comment], error)
	UpdateCommentContent(ctx context.Context, id uuid.UUID, content string) (*models.Comment, error)
	ApproveComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error

	// Engagement methods
	ToggleLike(ctx context.Context, postID, userID uuid.UUID) (*models.LikeResult, error)
	RecordView(ctx context.Context, postID, userID uuid.UUID) (count int, created bool, err error)
	GetEngagement(ctx context.Context, postID, userID uuid.UUID) (liked bool, viewed bool, err error)
}

// SQLStore implements DBAdapter on top of sqlx for PostgreSQL and SQLite.
// Queries are written with ? placeholders and rebound for the active driver.
type SQLStore struct {
	DB      *sqlx.DB
	dialect string
	log     *slog.Logger
	now     func() time.Time
}

var _ DBAdapter = (*SQLStore)(nil)

// NewPostgresDB creates a new PostgreSQL-backed store
func NewPostgresDB(connectionString string, logger *slog.Logger) (*SQLStore, error) {
	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return newSQLStore(db, DialectPostgres, logger), nil
}

// NewSQLiteDB opens an embedded database. SQLite allows a single writer, so the pool
// is pinned to one connection and transactions serialize.
func NewSQLiteDB(dsn string, logger *slog.Logger) (*SQLStore, error) {
	sqlx.BindDriver(DialectSQLite, sqlx.QUESTION)

	db, err := sqlx.Connect(DialectSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	return newSQLStore(db, DialectSQLite, logger), nil
}

// Open picks the driver from dbType ("postgres" or "sqlite").
func Open(dbType, dsn string, logger *slog.Logger) (*SQLStore, error) {
	switch dbType {
	case DialectPostgres:
		return NewPostgresDB(dsn, logger)
	case DialectSQLite:
		return NewSQLiteDB(dsn, logger)
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
}

func newSQLStore(db *sqlx.DB, dialect string, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	logger = logger.With("component", "database", "dialect", dialect)
	logger.Info("Database connection established")
	return &SQLStore{DB: db, dialect: dialect, log: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Close closes the database connection
func (s *SQLStore) Close(ctx context.Context) error {
	s.log.Info("Closing database connection")
	return s.DB.Close()
}

// Ping verifies the connection is usable.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *SQLStore) rebind(query string) string {
	return s.DB.Rebind(query)
}

// withTx runs fn inside one transaction. Rollback is a no-op once Commit succeeds.
func (s *SQLStore) withTx(ctx context.Context, what string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to commit "+what, err)
	}
	return nil
}

// count runs a COUNT(*) query.
func (s *SQLStore) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var total int
	if err := s.DB.GetContext(ctx, &total, s.rebind(query), args...); err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to count rows", err)
	}
	return total, nil
}

// notFoundOr maps sql.ErrNoRows to a NOT_FOUND error and everything else to a database error.
func notFoundOr(err error, what, action string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return utils.NewNotFoundError(what)
	}
	return utils.NewAppError(utils.ErrDatabase, action, err)
}

// isUniqueViolation recognizes unique/primary key violations from either driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

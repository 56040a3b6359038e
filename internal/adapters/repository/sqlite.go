package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
	"github.com/pressly/goose/v3"

	"github.com/okian/advientea/internal/domain/model"
	"github.com/okian/advientea/pkg/logger"
	"github.com/okian/advientea/pkg/metrics"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Connection pool limits. The store backs a single-instance seasonal app;
// sqlite itself serializes writers.
const (
	maxOpenConns    = 8
	maxIdleConns    = 4
	connMaxLifetime = time.Hour
)

// SQLite implements Store over a sqlite database file (or :memory:).
type SQLite struct {
	db  *sql.DB
	log logger.Logger
}

// Option applies a configuration option to the SQLite store.
type Option func(*SQLite)

// WithLogger sets a custom logger for the store.
func WithLogger(log logger.Logger) Option {
	return func(s *SQLite) {
		if log != nil {
			s.log = log
		}
	}
}

// Open connects to the database at path, applies pragmas, and runs the
// embedded migrations.
func Open(ctx context.Context, path string, opts ...Option) (*SQLite, error) {
	s := &SQLite{log: logger.Get()}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	if strings.Contains(path, ":memory:") {
		// Every pooled connection to :memory: opens its own empty database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}
	s.db = db

	if err := s.applyPragmas(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	s.log.Info(ctx, "database ready", logger.String("path", path))
	return s, nil
}

// Close releases the underlying connection pool.
func (s *SQLite) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func (s *SQLite) applyPragmas(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := s.db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("apply %q: %w", p, err)
		}
	}
	return nil
}

func (s *SQLite) migrate() error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Day returns the day record with its tea, ingredients, and assignment.
func (s *SQLite) Day(ctx context.Context, day, year int) (model.DayRecord, error) {
	rec := model.DayRecord{Day: day, Year: year}

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM days WHERE day = ? AND year = ?`, day, year).Scan(&exists)
	if err != nil {
		return model.DayRecord{}, fmt.Errorf("query day: %w", err)
	}
	if exists == 0 {
		return model.DayRecord{}, ErrNotFound
	}

	var teaID string
	var tea model.TeaFacts
	err = s.db.QueryRowContext(ctx,
		`SELECT id, name, kind FROM teas WHERE day = ? AND year = ?`, day, year).
		Scan(&teaID, &tea.Name, (*string)(&tea.Kind))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Day exists without a tea entered yet.
	case err != nil:
		return model.DayRecord{}, fmt.Errorf("query tea: %w", err)
	default:
		rows, err := s.db.QueryContext(ctx,
			`SELECT name FROM tea_ingredients WHERE tea_id = ? ORDER BY name`, teaID)
		if err != nil {
			return model.DayRecord{}, fmt.Errorf("query ingredients: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return model.DayRecord{}, fmt.Errorf("scan ingredient: %w", err)
			}
			tea.Ingredients = append(tea.Ingredients, name)
		}
		if err := rows.Err(); err != nil {
			return model.DayRecord{}, fmt.Errorf("iterate ingredients: %w", err)
		}
		rec.Tea = &tea
	}

	var userID, username, guestName sql.NullString
	err = s.db.QueryRowContext(ctx,
		`SELECT a.user_id, u.username, a.guest_name
		   FROM assignments a LEFT JOIN users u ON u.id = a.user_id
		  WHERE a.day = ? AND a.year = ?`, day, year).
		Scan(&userID, &username, &guestName)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// No owner assigned yet.
	case err != nil:
		return model.DayRecord{}, fmt.Errorf("query assignment: %w", err)
	default:
		rec.Assignment = &model.Assignment{
			UserID:    userID.String,
			Username:  username.String,
			GuestName: guestName.String,
		}
		if rec.Tea != nil {
			if rec.Assignment.IsGuest() {
				rec.Tea.OwnerName = rec.Assignment.GuestName
			} else {
				rec.Tea.OwnerName = rec.Assignment.Username
			}
		}
	}

	return rec, nil
}

// AppendGuess persists a scored guess. The id is assigned here; CreatedAt is
// kept when the caller set one (the scoring pipeline timestamps submissions)
// and defaults to now otherwise.
func (s *SQLite) AppendGuess(ctx context.Context, g model.ScoredGuess) (model.ScoredGuess, error) {
	start := time.Now()
	g.ID = uuid.NewString()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}

	ingredients, err := json.Marshal(g.Ingredients)
	if err != nil {
		return model.ScoredGuess{}, fmt.Errorf("encode ingredients: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO guesses (id, user_id, day, year, points, tea_name, tea_kind, person_name, ingredients, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Day, g.Year, g.Points,
		g.TeaName, string(g.TeaKind), g.PersonName, string(ingredients), g.CreatedAt)
	if err != nil {
		return model.ScoredGuess{}, fmt.Errorf("insert guess: %w", err)
	}

	metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	s.log.Debug(ctx, "guess stored",
		logger.String("id", g.ID),
		logger.String("user", g.UserID),
		logger.Int("day", g.Day),
		logger.Int("points", g.Points),
	)
	return g, nil
}

// GuessesForDay returns every guess for the day, newest first.
func (s *SQLite) GuessesForDay(ctx context.Context, day, year int) ([]model.ScoredGuess, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.user_id, u.username, u.avatar_ref, g.day, g.year, g.points,
		        g.tea_name, g.tea_kind, g.person_name, g.ingredients, g.created_at
		   FROM guesses g JOIN users u ON u.id = g.user_id
		  WHERE g.day = ? AND g.year = ?
		  ORDER BY g.created_at DESC, g.id DESC`, day, year)
	if err != nil {
		return nil, fmt.Errorf("query guesses: %w", err)
	}
	defer rows.Close()

	out := make([]model.ScoredGuess, 0)
	for rows.Next() {
		var g model.ScoredGuess
		var ingredients string
		if err := rows.Scan(&g.ID, &g.UserID, &g.Username, &g.AvatarRef, &g.Day, &g.Year,
			&g.Points, &g.TeaName, (*string)(&g.TeaKind), &g.PersonName, &ingredients, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan guess: %w", err)
		}
		if err := json.Unmarshal([]byte(ingredients), &g.Ingredients); err != nil {
			return nil, fmt.Errorf("decode ingredients: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate guesses: %w", err)
	}

	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	return out, nil
}

// GuessCount returns the total number of stored guesses.
func (s *SQLite) GuessCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM guesses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count guesses: %w", err)
	}
	return n, nil
}

// CreateUser inserts a user and returns its generated id. Used by seeding.
func (s *SQLite) CreateUser(ctx context.Context, username, avatarRef string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, avatar_ref) VALUES (?, ?, ?)`, id, username, avatarRef)
	if err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// CreateDay inserts a day with its tea, ingredients, and owner assignment.
// tea may be nil for a day whose tea has not been entered; ownerUserID and
// guestName are mutually exclusive and may both be empty.
func (s *SQLite) CreateDay(ctx context.Context, day, year int, tea *model.TeaFacts, ownerUserID, guestName string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO days (day, year) VALUES (?, ?)`, day, year); err != nil {
		return fmt.Errorf("insert day: %w", err)
	}

	if tea != nil {
		teaID := uuid.NewString()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO teas (id, day, year, name, kind) VALUES (?, ?, ?, ?, ?)`,
			teaID, day, year, tea.Name, string(tea.Kind)); err != nil {
			return fmt.Errorf("insert tea: %w", err)
		}
		for _, ing := range tea.Ingredients {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO tea_ingredients (tea_id, name) VALUES (?, ?)`, teaID, ing); err != nil {
				return fmt.Errorf("insert ingredient: %w", err)
			}
		}
	}

	if ownerUserID != "" || guestName != "" {
		var uid any
		if ownerUserID != "" {
			uid = ownerUserID
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO assignments (day, year, user_id, guest_name) VALUES (?, ?, ?, NULLIF(?, ''))`,
			day, year, uid, guestName); err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit day: %w", err)
	}
	return nil
}

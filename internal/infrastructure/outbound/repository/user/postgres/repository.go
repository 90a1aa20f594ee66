package user_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"yatube/internal/custom_errors"
	model "yatube/internal/domain/models"
	ports "yatube/internal/domain/ports/output"
	"yatube/internal/infrastructure/outbound/repository/postgres/db"

	"github.com/jackc/pgx/v5"
)

const userColumns = "id, username, first_name, last_name, email, password_hash, created_at"

type UserRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewUserRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *UserRepository {
	return &UserRepository{db: db, log: log, metrics: metrics}
}

func (r *UserRepository) observe(queryType string, start time.Time, success bool) {
	r.metrics.IncrementDatabaseQueries(queryType, success)
	r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.CreateUserDTO) (*model.User, error) {
	start := time.Now()
	r.log.Debug("Creating user", slog.String("username", user.Username))

	args := pgx.NamedArgs{
		"username":      user.Username,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"created_at":    time.Now(),
	}
	query := `INSERT INTO users (username, first_name, last_name, email, password_hash, created_at)
				VALUES (@username, @first_name, @last_name, @email, @password_hash, @created_at)
				RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRow(ctx, query, args))
	if err != nil {
		r.observe("user_create", start, false)
		if db.IsUniqueViolation(err) {
			r.log.Debug("Username already taken", slog.String("username", user.Username))
			return nil, custom_errors.ErrUsernameTaken
		}
		r.log.Error("Error creating user", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.observe("user_create", start, true)
	r.log.Debug("Successfully created user", slog.Int64("id", created.ID))
	return created, nil
}

func (r *UserRepository) getOne(ctx context.Context, queryType, query string, args pgx.NamedArgs) (*model.User, error) {
	start := time.Now()
	user, err := scanUser(r.db.QueryRow(ctx, query, args))
	if err != nil {
		r.observe(queryType, start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.Debug("User not found", slog.String("query_type", queryType))
			return nil, custom_errors.ErrUserNotFound
		}
		r.log.Error("Error getting user", slog.String("query_type", queryType), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	r.observe(queryType, start, true)
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = @id`
	return r.getOne(ctx, "user_get_by_id", query, pgx.NamedArgs{"id": id})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = @username`
	return r.getOne(ctx, "user_get_by_username", query, pgx.NamedArgs{"username": username})
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error) {
	result := make(map[int64]*model.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	start := time.Now()
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY(@ids)`
	rows, err := r.db.Query(ctx, query, pgx.NamedArgs{"ids": ids})
	if err != nil {
		r.observe("user_get_by_ids", start, false)
		r.log.Error("Error getting users by ids", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.observe("user_get_by_ids", start, false)
			r.log.Error("Error scanning user", slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseScan
		}
		result[user.ID] = user
	}
	if err = rows.Err(); err != nil {
		r.observe("user_get_by_ids", start, false)
		r.log.Error("Error iterating user rows", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.observe("user_get_by_ids", start, true)
	return result, nil
}

package group_repository_postgres

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

const groupColumns = "id, title, slug, description"

type GroupRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewGroupRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *GroupRepository {
	return &GroupRepository{db: db, log: log, metrics: metrics}
}

func (r *GroupRepository) observe(queryType string, start time.Time, success bool) {
	r.metrics.IncrementDatabaseQueries(queryType, success)
	r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func scanGroup(row pgx.Row) (*model.Group, error) {
	var group model.Group
	if err := row.Scan(&group.ID, &group.Title, &group.Slug, &group.Description); err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) Create(ctx context.Context, group *model.CreateGroupDTO) (*model.Group, error) {
	start := time.Now()
	r.log.Debug("Creating group", slog.String("slug", group.Slug))

	args := pgx.NamedArgs{
		"title":       group.Title,
		"slug":        group.Slug,
		"description": group.Description,
	}
	query := `INSERT INTO groups (title, slug, description)
				VALUES (@title, @slug, @description)
				RETURNING ` + groupColumns

	created, err := scanGroup(r.db.QueryRow(ctx, query, args))
	if err != nil {
		r.observe("group_create", start, false)
		if db.IsUniqueViolation(err) {
			r.log.Debug("Group slug already taken", slog.String("slug", group.Slug))
			return nil, custom_errors.ErrSlugTaken
		}
		r.log.Error("Error creating group", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.observe("group_create", start, true)
	r.log.Debug("Successfully created group", slog.Int64("id", created.ID), slog.String("slug", created.Slug))
	return created, nil
}

func (r *GroupRepository) getOne(ctx context.Context, queryType, query string, args pgx.NamedArgs) (*model.Group, error) {
	start := time.Now()
	group, err := scanGroup(r.db.QueryRow(ctx, query, args))
	if err != nil {
		r.observe(queryType, start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.Debug("Group not found", slog.Any("args", args))
			return nil, custom_errors.ErrGroupNotFound
		}
		r.log.Error("Error getting group", slog.Any("args", args), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	r.observe(queryType, start, true)
	return group, nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE id = @id`
	return r.getOne(ctx, "group_get_by_id", query, pgx.NamedArgs{"id": id})
}

func (r *GroupRepository) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE slug = @slug`
	return r.getOne(ctx, "group_get_by_slug", query, pgx.NamedArgs{"slug": slug})
}

func (r *GroupRepository) query(ctx context.Context, queryType, query string, args pgx.NamedArgs) ([]*model.Group, error) {
	start := time.Now()
	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		r.observe(queryType, start, false)
		r.log.Error("Error querying groups", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	groups := []*model.Group{}
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			r.observe(queryType, start, false)
			r.log.Error("Error scanning group", slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseScan
		}
		groups = append(groups, group)
	}
	if err = rows.Err(); err != nil {
		r.observe(queryType, start, false)
		r.log.Error("Error iterating group rows", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.observe(queryType, start, true)
	return groups, nil
}

func (r *GroupRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Group, error) {
	result := make(map[int64]*model.Group, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query := `SELECT ` + groupColumns + ` FROM groups WHERE id = ANY(@ids)`
	groups, err := r.query(ctx, "group_get_by_ids", query, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, err
	}
	for _, group := range groups {
		result[group.ID] = group
	}
	return result, nil
}

func (r *GroupRepository) List(ctx context.Context) ([]*model.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups ORDER BY title, id`
	return r.query(ctx, "group_list", query, pgx.NamedArgs{})
}

package post_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"yatube/internal/custom_errors"
	model "yatube/internal/domain/models"
	ports "yatube/internal/domain/ports/output"
	"yatube/internal/infrastructure/outbound/repository/postgres/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const postColumns = "p.id, p.author_id, p.group_id, p.text, p.created_at"

type PostRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewPostRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *PostRepository {
	return &PostRepository{db: db, log: log, metrics: metrics}
}

func (p *PostRepository) observe(queryType string, start time.Time, success bool) {
	p.metrics.IncrementDatabaseQueries(queryType, success)
	p.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var post model.Post
	err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.GroupID,
		&post.Text,
		&post.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Creating new post", slog.Int64("author_id", post.AuthorID))

	createdAt := post.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	args := pgx.NamedArgs{
		"author_id":  post.AuthorID,
		"group_id":   post.GroupID,
		"text":       post.Text,
		"created_at": pgtype.Timestamptz{Time: createdAt, Valid: true},
	}

	query := `
		INSERT INTO posts AS p (author_id, group_id, text, created_at)
		VALUES (@author_id, @group_id, @text, @created_at)
		RETURNING ` + postColumns

	createdPost, err := scanPost(p.db.QueryRow(ctx, query, args))
	if err != nil {
		p.observe("post_create", start, false)
		p.log.Error("Error creating post", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_create", start, true)
	p.log.Debug("Successfully created post", slog.Int64("id", createdPost.ID), slog.Int64("author_id", createdPost.AuthorID))
	return createdPost, nil
}

func (p *PostRepository) getByID(ctx context.Context, queryType, query string, id int64) (*model.Post, error) {
	start := time.Now()
	post, err := scanPost(p.db.QueryRow(ctx, query, pgx.NamedArgs{"id": id}))
	if err != nil {
		p.observe(queryType, start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("Post not found by id", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error getting post by id", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	p.observe(queryType, start, true)
	return post, nil
}

func (p *PostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	p.log.Debug("Getting post by ID", slog.Int64("id", id))
	query := `SELECT ` + postColumns + ` FROM posts p WHERE p.id = @id`
	return p.getByID(ctx, "post_get_by_id", query, id)
}

func (p *PostRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Post, error) {
	p.log.Debug("Locking post by ID", slog.Int64("id", id))
	query := `SELECT ` + postColumns + ` FROM posts p WHERE p.id = @id FOR UPDATE`
	return p.getByID(ctx, "post_get_for_update", query, id)
}

// Update replaces text and group. A nil GroupID clears the group.
func (p *PostRepository) Update(ctx context.Context, id int64, update *model.PostInput) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Updating post", slog.Int64("id", id), slog.Bool("has_group", update.GroupID != nil))

	args := pgx.NamedArgs{
		"id":       id,
		"text":     update.Text,
		"group_id": update.GroupID,
	}
	query := `UPDATE posts AS p SET text = @text, group_id = @group_id WHERE p.id = @id RETURNING ` + postColumns

	updatedPost, err := scanPost(p.db.QueryRow(ctx, query, args))
	if err != nil {
		p.observe("post_update", start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("Post not found by id during Update", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error updating post", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_update", start, true)
	p.log.Debug("Successfully updated post", slog.Int64("id", updatedPost.ID))
	return updatedPost, nil
}

func buildWhere(filters model.PostFilters, args pgx.NamedArgs) string {
	whereClauses := []string{}
	if filters.AuthorID != nil {
		whereClauses = append(whereClauses, "p.author_id = @author_id")
		args["author_id"] = *filters.AuthorID
	}
	if filters.GroupID != nil {
		whereClauses = append(whereClauses, "p.group_id = @group_id")
		args["group_id"] = *filters.GroupID
	}
	if len(whereClauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(whereClauses, " AND ")
}

func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.Post, error) {
	start := time.Now()
	p.log.Debug("Listing posts with filters",
		slog.Any("author_id", filters.AuthorID),
		slog.Any("group_id", filters.GroupID),
		slog.Any("limit", filters.Limit),
		slog.Any("offset", filters.Offset))

	args := pgx.NamedArgs{}
	query := `SELECT ` + postColumns + ` FROM posts p` + buildWhere(filters, args)
	query += " ORDER BY p.created_at DESC, p.id DESC"

	if filters.Limit != nil {
		query += " LIMIT @limit"
		args["limit"] = *filters.Limit
	}
	if filters.Offset != nil {
		query += " OFFSET @offset"
		args["offset"] = *filters.Offset
	}

	rows, err := p.db.Query(ctx, query, args)
	if err != nil {
		p.observe("post_list", start, false)
		p.log.Error("Error listing posts", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	posts := []*model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			p.observe("post_list", start, false)
			p.log.Error("Error scanning post during List", slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseScan
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		p.observe("post_list", start, false)
		p.log.Error("Error iterating rows during List", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_list", start, true)
	p.log.Debug("Retrieved posts in List", slog.Int("count", len(posts)))
	return posts, nil
}

func (p *PostRepository) Count(ctx context.Context, filters model.PostFilters) (int, error) {
	start := time.Now()
	args := pgx.NamedArgs{}
	query := `SELECT COUNT(*) FROM posts p` + buildWhere(filters, args)

	var total int
	if err := p.db.QueryRow(ctx, query, args).Scan(&total); err != nil {
		p.observe("post_count", start, false)
		p.log.Error("Error counting posts", slog.String("error", err.Error()))
		return 0, custom_errors.ErrDatabaseQuery
	}

	p.observe("post_count", start, true)
	return total, nil
}

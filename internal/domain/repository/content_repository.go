package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"starter_api/internal/common"
	"starter_api/internal/domain/model"
	"starter_api/internal/platform/database"
)

type ContentRepository interface {
	Create(ctx context.Context, content *model.Content) error
	FindByID(ctx context.Context, id int64) (*model.Content, error)
	// FindBySlug returns the oldest content with the given slug.
	FindBySlug(ctx context.Context, slug string) (*model.Content, error)
	List(ctx context.Context) ([]*model.Content, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Content, error)
	Update(ctx context.Context, content *model.Content) error
	Delete(ctx context.Context, id int64) error
}

type pgContentRepository struct {
	db database.DBTX
}

func NewPgContentRepository(db database.DBTX) ContentRepository {
	return &pgContentRepository{db: db}
}

const contentColumns = `id, title, slug, text, published, created_time, tags, user_id`

func (r *pgContentRepository) Create(ctx context.Context, content *model.Content) error {
	query := `INSERT INTO contents (title, slug, text, published, created_time, tags, user_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		content.Title, content.Slug, content.Text, content.Published,
		content.CreatedTime, content.Tags.String(), content.UserID,
	).Scan(&content.ID)
	if err != nil {
		return fmt.Errorf("pgContentRepository.Create: %w", err)
	}
	return nil
}

func (r *pgContentRepository) FindByID(ctx context.Context, id int64) (*model.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE id = $1`
	content, err := scanContent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("pgContentRepository.FindByID: %w", err)
	}
	return content, nil
}

func (r *pgContentRepository) FindBySlug(ctx context.Context, slug string) (*model.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE slug = $1 ORDER BY id LIMIT 1`
	content, err := scanContent(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		return nil, fmt.Errorf("pgContentRepository.FindBySlug: %w", err)
	}
	return content, nil
}

func (r *pgContentRepository) List(ctx context.Context) ([]*model.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents ORDER BY id`
	return r.list(ctx, "pgContentRepository.List", query)
}

func (r *pgContentRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE user_id = $1 ORDER BY id`
	return r.list(ctx, "pgContentRepository.ListByUser", query, userID)
}

func (r *pgContentRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Content, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	contents := []*model.Content{}
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		contents = append(contents, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows: %w", op, err)
	}
	return contents, nil
}

// Update writes the mutable fields of content. Slug, owner and creation time are fixed.
func (r *pgContentRepository) Update(ctx context.Context, content *model.Content) error {
	query := `UPDATE contents SET title = $1, text = $2, published = $3, tags = $4 WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query,
		content.Title, content.Text, content.Published, content.Tags.String(), content.ID,
	)
	if err != nil {
		return fmt.Errorf("pgContentRepository.Update: %w", err)
	}
	return expectOneRow(res, "pgContentRepository.Update")
}

func (r *pgContentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgContentRepository.Delete: %w", err)
	}
	return expectOneRow(res, "pgContentRepository.Delete")
}

func scanContent(row rowScanner) (*model.Content, error) {
	content := &model.Content{}
	var tags string
	err := row.Scan(
		&content.ID, &content.Title, &content.Slug, &content.Text,
		&content.Published, &content.CreatedTime, &tags, &content.UserID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	content.Tags = model.ParseTags(tags)
	return content, nil
}

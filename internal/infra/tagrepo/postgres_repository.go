package tagrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/media-album/internal/domain/tag"
)

// PostgresRepository persists tags and media-tag links in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new tag row.
func (r *PostgresRepository) Create(ctx context.Context, t tag.Tag) (tag.Tag, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tag (tag_name, count)
		VALUES ($1, $2)
		RETURNING id, tag_name, count
	`, t.TagName, t.Count)
	err := row.Scan(&t.ID, &t.TagName, &t.Count)
	return t, err
}

// FindByName fetches a tag by its unique name.
func (r *PostgresRepository) FindByName(ctx context.Context, name string) (tag.Tag, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tag_name, count FROM tag WHERE tag_name = $1 LIMIT 1
	`, name)
	if err != nil {
		return tag.Tag{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return tag.Tag{}, false, rows.Err()
	}
	var t tag.Tag
	if err := rows.Scan(&t.ID, &t.TagName, &t.Count); err != nil {
		return tag.Tag{}, false, err
	}
	return t, true, rows.Err()
}

// GetByID fetches by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (tag.Tag, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tag_name, count FROM tag WHERE id = $1 LIMIT 1
	`, id)
	if err != nil {
		return tag.Tag{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return tag.Tag{}, false, rows.Err()
	}
	var t tag.Tag
	if err := rows.Scan(&t.ID, &t.TagName, &t.Count); err != nil {
		return tag.Tag{}, false, err
	}
	return t, true, rows.Err()
}

// Update rewrites the tag row.
func (r *PostgresRepository) Update(ctx context.Context, t tag.Tag) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE tag SET tag_name = $2, count = $3 WHERE id = $1
	`, t.ID, t.TagName, t.Count)
	return err
}

// Delete removes the tag and any links pointing at it.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM media_tag WHERE tag_id = $1`, id); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM tag WHERE id = $1`, id)
	return err
}

// List returns every tag ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]tag.Tag, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, tag_name, count FROM tag ORDER BY tag_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tags []tag.Tag
	for rows.Next() {
		var t tag.Tag
		if err := rows.Scan(&t.ID, &t.TagName, &t.Count); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// LinkMedia attaches tags to a media file.
func (r *PostgresRepository) LinkMedia(ctx context.Context, mediaID int64, tagIDs []int64) error {
	for _, tagID := range tagIDs {
		if _, err := r.pool.Exec(ctx, `
			INSERT INTO media_tag (media_id, tag_id, create_time) VALUES ($1, $2, now())
		`, mediaID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// UnlinkMedia removes every link for the file, returning the freed tag ids.
func (r *PostgresRepository) UnlinkMedia(ctx context.Context, mediaID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		DELETE FROM media_tag WHERE media_id = $1 RETURNING tag_id
	`, mediaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tagIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		tagIDs = append(tagIDs, id)
	}
	return tagIDs, rows.Err()
}

// TagNamesByMedia returns the names linked to a file.
func (r *PostgresRepository) TagNamesByMedia(ctx context.Context, mediaID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.tag_name
		FROM media_tag mt
		JOIN tag t ON t.id = mt.tag_id
		WHERE mt.media_id = $1
		ORDER BY t.tag_name
	`, mediaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

var _ tag.Repository = (*PostgresRepository)(nil)

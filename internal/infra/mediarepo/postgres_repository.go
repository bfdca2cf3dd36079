package mediarepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/media-album/internal/domain/media"
)

const mediaColumns = `id, user_id, title, description, file_path, file_type, file_size,
	COALESCE(cover_path, ''), view_count, status, create_time, update_time`

// PostgresRepository persists media rows in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new media row.
func (r *PostgresRepository) Create(ctx context.Context, file media.MediaFile) (media.MediaFile, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO media (user_id, title, description, file_path, file_type, file_size, cover_path, view_count, status, create_time, update_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING `+mediaColumns+`
	`, file.UserID, file.Title, file.Description, file.FilePath, file.FileType, file.FileSize,
		file.CoverPath, file.ViewCount, file.Status)
	return scanMedia(row)
}

// GetByID fetches by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (media.MediaFile, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+mediaColumns+` FROM media WHERE id = $1 LIMIT 1
	`, id)
	if err != nil {
		return media.MediaFile{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return media.MediaFile{}, false, rows.Err()
	}
	file, err := scanMedia(rows)
	if err != nil {
		return media.MediaFile{}, false, err
	}
	return file, true, rows.Err()
}

// Update rewrites the mutable columns.
func (r *PostgresRepository) Update(ctx context.Context, file media.MediaFile) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE media
		SET title = $2, description = $3, cover_path = $4, view_count = $5, status = $6, update_time = now()
		WHERE id = $1
	`, file.ID, file.Title, file.Description, file.CoverPath, file.ViewCount, file.Status)
	return err
}

// Delete removes a media row.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM media WHERE id = $1`, id)
	return err
}

// FindByUser lists a user's files, newest first, filtered by title keyword.
func (r *PostgresRepository) FindByUser(ctx context.Context, userID int64, keyword string, offset, limit int) ([]media.MediaFile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+mediaColumns+`
		FROM media
		WHERE user_id = $1 AND ($2 = '' OR title ILIKE '%' || $2 || '%')
		ORDER BY create_time DESC
		OFFSET $3 LIMIT $4
	`, userID, keyword, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMedia(rows)
}

// CountByUser counts a user's files under the keyword filter.
func (r *PostgresRepository) CountByUser(ctx context.Context, userID int64, keyword string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM media
		WHERE user_id = $1 AND ($2 = '' OR title ILIKE '%' || $2 || '%')
	`, userID, keyword).Scan(&total)
	return total, err
}

// FindPublic lists public files, newest first.
func (r *PostgresRepository) FindPublic(ctx context.Context, keyword string, offset, limit int) ([]media.MediaFile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+mediaColumns+`
		FROM media
		WHERE status = 1 AND ($1 = '' OR title ILIKE '%' || $1 || '%')
		ORDER BY create_time DESC
		OFFSET $2 LIMIT $3
	`, keyword, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMedia(rows)
}

// CountPublic counts public files under the keyword filter.
func (r *PostgresRepository) CountPublic(ctx context.Context, keyword string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM media
		WHERE status = 1 AND ($1 = '' OR title ILIKE '%' || $1 || '%')
	`, keyword).Scan(&total)
	return total, err
}

// FindRecent lists the newest public files with the uploader's name joined.
func (r *PostgresRepository) FindRecent(ctx context.Context, offset, limit int) ([]media.MediaFile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.user_id, m.title, m.description, m.file_path, m.file_type, m.file_size,
			COALESCE(m.cover_path, ''), m.view_count, m.status, m.create_time, m.update_time,
			COALESCE(u.user_name, '')
		FROM media m
		LEFT JOIN users u ON u.id = m.user_id
		WHERE m.status = 1
		ORDER BY m.create_time DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var files []media.MediaFile
	for rows.Next() {
		var (
			file    media.MediaFile
			created time.Time
			updated time.Time
		)
		if err := rows.Scan(&file.ID, &file.UserID, &file.Title, &file.Description, &file.FilePath,
			&file.FileType, &file.FileSize, &file.CoverPath, &file.ViewCount, &file.Status,
			&created, &updated, &file.UploaderName); err != nil {
			return nil, err
		}
		file.CreateTime = created.UTC()
		file.UpdateTime = updated.UTC()
		files = append(files, file)
	}
	return files, rows.Err()
}

// CountRecent counts the public files.
func (r *PostgresRepository) CountRecent(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM media WHERE status = 1`).Scan(&total)
	return total, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedia(row rowScanner) (media.MediaFile, error) {
	var (
		file    media.MediaFile
		created time.Time
		updated time.Time
	)
	if err := row.Scan(&file.ID, &file.UserID, &file.Title, &file.Description, &file.FilePath,
		&file.FileType, &file.FileSize, &file.CoverPath, &file.ViewCount, &file.Status,
		&created, &updated); err != nil {
		return media.MediaFile{}, err
	}
	file.CreateTime = created.UTC()
	file.UpdateTime = updated.UTC()
	return file, nil
}

func collectMedia(rows interface {
	rowScanner
	Next() bool
	Err() error
}) ([]media.MediaFile, error) {
	var files []media.MediaFile
	for rows.Next() {
		file, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

var _ media.Repository = (*PostgresRepository)(nil)

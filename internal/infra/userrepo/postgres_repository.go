package userrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/media-album/internal/domain/auth"
)

// PostgresRepository persists users in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new user row.
func (r *PostgresRepository) Create(ctx context.Context, user auth.User) (auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (user_name, nickname, password_hash, email, phone, role, status, create_time, update_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id, user_name, nickname, password_hash, email, phone, role, status, create_time, update_time
	`, user.UserName, user.Nickname, user.PasswordHash, user.Email, user.Phone, int(user.Role), user.Status)
	return scanUser(row)
}

// FindByUserName fetches a user by username.
func (r *PostgresRepository) FindByUserName(ctx context.Context, userName string) (auth.User, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_name, nickname, password_hash, email, phone, role, status, create_time, update_time
		FROM users
		WHERE user_name = $1
		LIMIT 1
	`, userName)
	if err != nil {
		return auth.User{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return auth.User{}, false, rows.Err()
	}
	user, err := scanUser(rows)
	if err != nil {
		return auth.User{}, false, err
	}
	return user, true, rows.Err()
}

// GetByID fetches by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (auth.User, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_name, nickname, password_hash, email, phone, role, status, create_time, update_time
		FROM users
		WHERE id = $1
		LIMIT 1
	`, id)
	if err != nil {
		return auth.User{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return auth.User{}, false, rows.Err()
	}
	user, err := scanUser(rows)
	if err != nil {
		return auth.User{}, false, err
	}
	return user, true, rows.Err()
}

// Update rewrites the mutable columns.
func (r *PostgresRepository) Update(ctx context.Context, user auth.User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET nickname = $2, password_hash = $3, email = $4, phone = $5, role = $6, status = $7, update_time = now()
		WHERE id = $1
	`, user.ID, user.Nickname, user.PasswordHash, user.Email, user.Phone, int(user.Role), user.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// List returns every user ordered by id.
func (r *PostgresRepository) List(ctx context.Context) ([]auth.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_name, nickname, password_hash, email, phone, role, status, create_time, update_time
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []auth.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Delete removes a user row.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (auth.User, error) {
	var (
		user    auth.User
		role    int
		created time.Time
		updated time.Time
	)
	if err := row.Scan(&user.ID, &user.UserName, &user.Nickname, &user.PasswordHash,
		&user.Email, &user.Phone, &role, &user.Status, &created, &updated); err != nil {
		return auth.User{}, err
	}
	user.Role = auth.Role(role)
	user.CreateTime = created.UTC()
	user.UpdateTime = updated.UTC()
	return user, nil
}

var _ auth.Repository = (*PostgresRepository)(nil)

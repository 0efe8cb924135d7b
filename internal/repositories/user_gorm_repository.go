package repositories

import (
	"context"
	"database/sql"
	"errors"

	"orderhub/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
// Each method issues a single parameterized statement through the pool.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// GetAll retrieves every user row, password hash included.
func (r *GORMUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.WithContext(ctx).Raw(`SELECT id, name, email, password FROM users ORDER BY id`).Rows()
	if err != nil {
		return nil, storeError("list users", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, storeError("scan user", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}

// Create inserts a user and returns the stored row.
func (r *GORMUserRepository) Create(ctx context.Context, name, email *string, passwordHash string) (*models.User, error) {
	rows, err := r.db.WithContext(ctx).Raw(
		`INSERT INTO users (name, email, password) VALUES (?, ?, ?) RETURNING id, name, email, password`,
		name, email, passwordHash,
	).Rows()
	if err != nil {
		return nil, storeError("create user", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, storeError("create user", err)
		}
		return nil, storeError("create user", errors.New("insert returned no row"))
	}
	user, err := scanUser(rows)
	if err != nil {
		return nil, storeError("scan user", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by their email.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.db.WithContext(ctx).Raw(
		`SELECT id, name, email, password FROM users WHERE email = ?`, email,
	).Row())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storeError("get user by email", err)
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser reads id, name, email, password. Rows created without a password
// hold NULL there and come back with an empty Password.
func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var password sql.NullString
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &password); err != nil {
		return nil, err
	}
	user.Password = password.String
	return &user, nil
}

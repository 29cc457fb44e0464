package repository

import (
	"context"
	"database/sql"

	"github.com/obatqu/obatqu-backend/pkg/database"
	"github.com/obatqu/obatqu-backend/pkg/errors"
)

// User roles.
const (
	RoleAPJ  = "APJ" // apoteker penanggung jawab, elevated access
	RoleUser = "USER"
)

// User is an account that can operate the inventory.
type User struct {
	ID       int    `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
	Role     string `db:"role" json:"role"`
}

// IsAPJ reports whether the user holds the elevated pharmacist role.
func (u *User) IsAPJ() bool {
	return u.Role == RoleAPJ
}

// UserRepository handles user persistence
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByUsername gets a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	query := `SELECT id, username, email, password, role FROM users WHERE username = $1`
	err := r.db.GetContext(ctx, &user, query, username)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List lists all users without password hashes populated in responses
// (the json tag keeps the hash out of serialized output).
func (r *UserRepository) List(ctx context.Context) ([]*User, error) {
	var users []*User
	query := `SELECT id, username, email, password, role FROM users ORDER BY username`
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a user. Password must already be hashed.
func (r *UserRepository) Create(ctx context.Context, user *User) error {
	query := `INSERT INTO users (username, email, password, role) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.Password, user.Role).Scan(&user.ID)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	return nil
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"orders/entities"
)

var ErrUserNotFound = errors.New("user not found")

type IUserRepository interface {
	FindByUsername(ctx context.Context, username string) (entities.User, error)
}

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) UserRepository {
	if db == nil {
		panic("db is nil")
	}
	return UserRepository{
		db: db,
	}
}

func (r UserRepository) FindByUsername(ctx context.Context, username string) (entities.User, error) {
	var user entities.User
	err := r.db.Conn.GetContext(ctx, &user, `
		SELECT user_id, username FROM users WHERE username = $1`,
		username,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.User{}, ErrUserNotFound
	}
	if err != nil {
		return entities.User{}, fmt.Errorf("could not find user %s: %w", username, err)
	}

	return user, nil
}

// Create registers a username if it is not taken yet and returns the stored
// user either way.
func (r UserRepository) Create(ctx context.Context, username string) (entities.User, error) {
	var user entities.User
	err := r.db.Conn.GetContext(ctx, &user, `
		INSERT INTO users (username)
		VALUES ($1)
		ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
		RETURNING user_id, username`,
		username,
	)
	if err != nil {
		return entities.User{}, fmt.Errorf("could not create user %s: %w", username, err)
	}

	return user, nil
}

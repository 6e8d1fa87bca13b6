package repository

import (
	"context"

	"backoffice-service/internal/model"

	"gorm.io/gorm"
)

// UserRepository reads back-office logins
type UserRepository struct {
	store[model.User]
}

// NewUserRepository creates the user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{store[model.User]{db: db, entity: "user"}}
}

// FindByUsername returns the user with the given username
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOneBy(ctx, "username", username)
}

// ExistsByUsername reports whether a username is taken
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username, 0)
}

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"goabroad/internal/apperr"
	"goabroad/internal/database"
)

// UserStore performs single-document operations on the User collection.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore constructs the store.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// List returns users newest-first.
func (s *UserStore) List(ctx context.Context) ([]database.User, error) {
	var users []database.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Get returns one user by id.
func (s *UserStore) Get(ctx context.Context, id uint) (*database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// GetByEmail returns one user by the login key. Lookup is case-insensitive.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*database.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user database.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return &user, nil
}

// Create inserts a new user. A duplicate email surfaces as a 409.
func (s *UserStore) Create(ctx context.Context, user *database.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if _, err := s.GetByEmail(ctx, user.Email); err == nil {
		return apperr.Conflict("email already registered")
	} else if apperr.From(err).Status != 404 {
		return err
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update applies only the provided fields and returns the updated record.
func (s *UserStore) Update(ctx context.Context, id uint, fields map[string]any) (*database.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Delete removes one user by id.
func (s *UserStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&database.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

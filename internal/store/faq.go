package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"goabroad/internal/apperr"
	"goabroad/internal/database"
)

// FAQStore performs single-document operations on the FAQ collection.
type FAQStore struct {
	db *gorm.DB
}

// NewFAQStore constructs the store.
func NewFAQStore(db *gorm.DB) *FAQStore {
	return &FAQStore{db: db}
}

// List returns FAQs newest-first, optionally filtered by category and status.
func (s *FAQStore) List(ctx context.Context, category, status string) ([]database.FAQ, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var faqs []database.FAQ
	if err := query.Find(&faqs).Error; err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}
	return faqs, nil
}

// Get returns one FAQ by id.
func (s *FAQStore) Get(ctx context.Context, id uint) (*database.FAQ, error) {
	var faq database.FAQ
	if err := s.db.WithContext(ctx).First(&faq, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("faq not found")
		}
		return nil, fmt.Errorf("query faq: %w", err)
	}
	return &faq, nil
}

// Create inserts a new FAQ.
func (s *FAQStore) Create(ctx context.Context, faq *database.FAQ) error {
	if err := s.db.WithContext(ctx).Create(faq).Error; err != nil {
		return fmt.Errorf("create faq: %w", err)
	}
	return nil
}

// Update applies only the provided fields and returns the updated record.
func (s *FAQStore) Update(ctx context.Context, id uint, fields map[string]any) (*database.FAQ, error) {
	faq, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(faq).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("update faq: %w", err)
	}
	return faq, nil
}

// Delete removes one FAQ by id.
func (s *FAQStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&database.FAQ{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete faq: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("faq not found")
	}
	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"goabroad/internal/apperr"
	"goabroad/internal/database"
)

// ContactStore performs single-document operations on the Contact collection.
type ContactStore struct {
	db *gorm.DB
}

// NewContactStore constructs the store.
func NewContactStore(db *gorm.DB) *ContactStore {
	return &ContactStore{db: db}
}

// List returns contacts newest-first, optionally filtered by status.
func (s *ContactStore) List(ctx context.Context, status string) ([]database.Contact, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var contacts []database.Contact
	if err := query.Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// Get returns one contact by id.
func (s *ContactStore) Get(ctx context.Context, id uint) (*database.Contact, error) {
	var contact database.Contact
	if err := s.db.WithContext(ctx).First(&contact, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("contact not found")
		}
		return nil, fmt.Errorf("query contact: %w", err)
	}
	return &contact, nil
}

// Create inserts a new inquiry in the pending state.
func (s *ContactStore) Create(ctx context.Context, contact *database.Contact) error {
	contact.Status = database.ContactStatusPending
	if err := s.db.WithContext(ctx).Create(contact).Error; err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

// Resolve marks a contact resolved, recording who handled it and when.
func (s *ContactStore) Resolve(ctx context.Context, id, resolverID uint) (*database.Contact, error) {
	contact, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	fields := map[string]any{
		"status":      database.ContactStatusResolved,
		"resolved_by": resolverID,
		"resolved_at": now,
	}
	if err := s.db.WithContext(ctx).Model(contact).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("resolve contact: %w", err)
	}
	return contact, nil
}

// Delete removes one contact by id.
func (s *ContactStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&database.Contact{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete contact: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("contact not found")
	}
	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"goabroad/internal/apperr"
	"goabroad/internal/database"
)

// ProgramStore performs single-document operations on the Program collection.
type ProgramStore struct {
	db *gorm.DB
}

// NewProgramStore constructs the store.
func NewProgramStore(db *gorm.DB) *ProgramStore {
	return &ProgramStore{db: db}
}

// List returns programs newest-first, optionally filtered.
func (s *ProgramStore) List(ctx context.Context, filter ListFilter) ([]database.Program, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if filter.Country != "" {
		query = query.Where("country = ?", filter.Country)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}

	var programs []database.Program
	if err := query.Find(&programs).Error; err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// Get returns one program by id.
func (s *ProgramStore) Get(ctx context.Context, id uint) (*database.Program, error) {
	var program database.Program
	if err := s.db.WithContext(ctx).First(&program, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("program not found")
		}
		return nil, fmt.Errorf("query program: %w", err)
	}
	return &program, nil
}

// Create inserts a new program.
func (s *ProgramStore) Create(ctx context.Context, program *database.Program) error {
	if err := s.db.WithContext(ctx).Create(program).Error; err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

// Update applies only the provided fields and returns the updated record.
func (s *ProgramStore) Update(ctx context.Context, id uint, fields map[string]any) (*database.Program, error) {
	program, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(program).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("update program: %w", err)
	}
	return program, nil
}

// Delete removes one program by id.
func (s *ProgramStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&database.Program{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete program: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("program not found")
	}
	return nil
}

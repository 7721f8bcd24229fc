package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"goabroad/internal/apperr"
	"goabroad/internal/database"
)

// JobStore performs single-document operations on the Job collection.
type JobStore struct {
	db *gorm.DB
}

// NewJobStore constructs the store.
func NewJobStore(db *gorm.DB) *JobStore {
	return &JobStore{db: db}
}

// ListFilter narrows the job listing.
type ListFilter struct {
	Country  string
	Status   string
	Featured *bool
}

// List returns jobs newest-first, optionally filtered.
func (s *JobStore) List(ctx context.Context, filter ListFilter) ([]database.Job, error) {
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

	var jobs []database.Job
	if err := query.Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// Get returns one job by id.
func (s *JobStore) Get(ctx context.Context, id uint) (*database.Job, error) {
	var job database.Job
	if err := s.db.WithContext(ctx).First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("job not found")
		}
		return nil, fmt.Errorf("query job: %w", err)
	}
	return &job, nil
}

// Create inserts a new job.
func (s *JobStore) Create(ctx context.Context, job *database.Job) error {
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

// Update applies only the provided fields and returns the updated record.
func (s *JobStore) Update(ctx context.Context, id uint, fields map[string]any) (*database.Job, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(job).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

// Delete removes one job by id.
func (s *JobStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&database.Job{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("job not found")
	}
	return nil
}

package repository

import (
	"fmt"

	"gorm.io/gorm"

	"ai-code-reviewer/internal/model"
)

type ReviewRecordRepository struct {
	db *gorm.DB
}

func NewReviewRecordRepository(db *gorm.DB) *ReviewRecordRepository {
	return &ReviewRecordRepository{db: db}
}

func (r *ReviewRecordRepository) Create(record *model.ReviewRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("create review record failed: %w", err)
	}
	return nil
}

func (r *ReviewRecordRepository) ListBySessionID(sessionID string, limit int) ([]model.ReviewRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	var records []model.ReviewRecord
	if err := r.db.Where("session_id = ?", sessionID).Order("created_at ASC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list review records failed: %w", err)
	}
	return records, nil
}

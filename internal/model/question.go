package model

import (
	"time"

	"gorm.io/gorm"
)

// Question is one submitted exam question. Members of a duplicate group share GroupID;
// the canonical member is the one whose ID equals GroupID.
type Question struct {
	ID          string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Text        string         `gorm:"type:text;not null" json:"text"`
	ExamID      string         `gorm:"type:varchar(36);not null;index" json:"exam_id"`
	GroupID     string         `gorm:"type:varchar(36);not null;index:idx_questions_group_id;uniqueIndex:idx_questions_group_canonical,where:is_canonical = true" json:"group_id"`
	IsCanonical bool           `gorm:"not null;default:false;index" json:"is_canonical"`
	Views       int64          `gorm:"not null;default:0;index" json:"views"`
	CreatorID   string         `gorm:"type:varchar(64);not null;index" json:"creator_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

package model

import "time"

// SavedQuestion is a bookmark. The (user_id, question_id) unique index is what
// serialises concurrent save toggles, so rows are hard-deleted.
type SavedQuestion struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_saved_user_question,priority:1" json:"user_id"`
	QuestionID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_saved_user_question,priority:2;index" json:"question_id"`
	CreatedAt  time.Time `json:"created_at"`
}

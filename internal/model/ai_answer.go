package model

import "time"

// AIAnswer holds the generated answer for a duplicate group, keyed by the
// group's canonical question id.
type AIAnswer struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	QuestionID string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"question_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Model      string    `gorm:"type:varchar(64)" json:"model"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (AIAnswer) TableName() string { return "ai_answers" }

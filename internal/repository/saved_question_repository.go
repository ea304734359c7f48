package repository

import (
	"context"

	"github.com/lshigami/askedagain/internal/model"
	"gorm.io/gorm"
)

type SavedQuestionRepository interface {
	Create(ctx context.Context, saved *model.SavedQuestion) error
	// Delete removes the (user, question) pair and reports whether a row existed.
	Delete(ctx context.Context, userID, questionID string) (bool, error)
	SavedAmong(ctx context.Context, userID string, questionIDs []string) (map[string]bool, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Question, int64, error)
}

type savedQuestionRepository struct {
	db *gorm.DB
}

func NewSavedQuestionRepository(db *gorm.DB) SavedQuestionRepository {
	return &savedQuestionRepository{db: db}
}

func (r *savedQuestionRepository) Create(ctx context.Context, saved *model.SavedQuestion) error {
	return translate(r.db.WithContext(ctx).Create(saved).Error)
}

func (r *savedQuestionRepository) Delete(ctx context.Context, userID, questionID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Delete(&model.SavedQuestion{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *savedQuestionRepository) SavedAmong(ctx context.Context, userID string, questionIDs []string) (map[string]bool, error) {
	saved := make(map[string]bool, len(questionIDs))
	if userID == "" || len(questionIDs) == 0 {
		return saved, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).Model(&model.SavedQuestion{}).
		Where("user_id = ? AND question_id IN ?", userID, questionIDs).
		Pluck("question_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		saved[id] = true
	}
	return saved, nil
}

// ListByUser pages through the user's saved questions, newest save first.
// Bookmarks of deleted questions are skipped.
func (r *savedQuestionRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Question, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN saved_questions ON saved_questions.question_id = questions.id").
			Where("saved_questions.user_id = ?", userID)
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Question{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 || offset >= int(total) {
		return []model.Question{}, total, nil
	}

	var questions []model.Question
	err := r.db.WithContext(ctx).Model(&model.Question{}).Scopes(scope).
		Select("questions.*").
		Order("saved_questions.created_at DESC").
		Order("saved_questions.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

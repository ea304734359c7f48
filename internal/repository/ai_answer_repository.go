package repository

import (
	"context"

	"github.com/lshigami/askedagain/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AIAnswerRepository interface {
	Upsert(ctx context.Context, answer *model.AIAnswer) error
	FindByQuestionID(ctx context.Context, questionID string) (*model.AIAnswer, error)
	ExistsAmong(ctx context.Context, questionIDs []string) (map[string]bool, error)
}

type aiAnswerRepository struct {
	db *gorm.DB
}

func NewAIAnswerRepository(db *gorm.DB) AIAnswerRepository {
	return &aiAnswerRepository{db: db}
}

func (r *aiAnswerRepository) Upsert(ctx context.Context, answer *model.AIAnswer) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "model", "updated_at"}),
	}).Create(answer).Error
	if err != nil {
		return err
	}
	// the returned id is unreliable after a conflict update, so reload
	var stored model.AIAnswer
	if err := r.db.WithContext(ctx).Where("question_id = ?", answer.QuestionID).First(&stored).Error; err != nil {
		return err
	}
	*answer = stored
	return nil
}

func (r *aiAnswerRepository) FindByQuestionID(ctx context.Context, questionID string) (*model.AIAnswer, error) {
	var answer model.AIAnswer
	if err := r.db.WithContext(ctx).Where("question_id = ?", questionID).First(&answer).Error; err != nil {
		return nil, translate(err)
	}
	return &answer, nil
}

func (r *aiAnswerRepository) ExistsAmong(ctx context.Context, questionIDs []string) (map[string]bool, error) {
	exists := make(map[string]bool, len(questionIDs))
	if len(questionIDs) == 0 {
		return exists, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.AIAnswer{}).
		Where("question_id IN ?", questionIDs).
		Pluck("question_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		exists[id] = true
	}
	return exists, nil
}

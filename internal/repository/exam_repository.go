package repository

import (
	"context"

	"github.com/lshigami/askedagain/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExamRepository interface {
	Create(ctx context.Context, exam *model.Exam) error
	FindByID(ctx context.Context, id string) (*model.Exam, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Exam, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type examRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func preloadNames(db *gorm.DB) *gorm.DB {
	return db.Preload("Subject").Preload("Professor").Preload("University").Preload("Course")
}

// Create stores the exam together with its reference rows. Reference rows are
// upserted by id so re-registering a subject only refreshes its name.
func (r *examRepository) Create(ctx context.Context, exam *model.Exam) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := func(ref interface{}) error {
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
			}).Create(ref).Error
		}

		if err := upsert(&exam.Subject); err != nil {
			return err
		}
		if exam.Professor != nil {
			if err := upsert(exam.Professor); err != nil {
				return err
			}
		}
		if exam.University != nil {
			if err := upsert(exam.University); err != nil {
				return err
			}
		}
		if exam.Course != nil {
			if err := upsert(exam.Course); err != nil {
				return err
			}
		}

		if err := tx.Omit(clause.Associations).Create(exam).Error; err != nil {
			return translate(err)
		}
		return nil
	})
}

func (r *examRepository) FindByID(ctx context.Context, id string) (*model.Exam, error) {
	var exam model.Exam
	if err := r.db.WithContext(ctx).Scopes(preloadNames).Where("id = ?", id).First(&exam).Error; err != nil {
		return nil, translate(err)
	}
	return &exam, nil
}

func (r *examRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Exam, error) {
	if len(ids) == 0 {
		return []model.Exam{}, nil
	}
	var exams []model.Exam
	err := r.db.WithContext(ctx).Scopes(preloadNames).Where("id IN ?", ids).Find(&exams).Error
	return exams, err
}

func (r *examRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Exam{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

package repository

import (
	"context"
	"strings"

	"github.com/lshigami/askedagain/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelatedFilter narrows related questions by exam dimensions. Empty fields are
// unconstrained.
type RelatedFilter struct {
	SubjectID    string
	ProfessorID  string
	UniversityID string
	CourseID     string
	Year         *int
}

type QuestionRepository interface {
	WithTx(tx *gorm.DB) QuestionRepository
	Create(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id string) (*model.Question, error)
	FindCanonical(ctx context.Context, groupID string, forUpdate bool) (*model.Question, error)
	FindByGroup(ctx context.Context, groupID string) ([]model.Question, error)
	SearchCanonical(ctx context.Context, tokens []string, excludeID string, limit int) ([]model.Question, error)
	CountByGroups(ctx context.Context, groupIDs []string) (map[string]int64, error)
	IncrementViews(ctx context.Context, id string) (int64, error)
	FindRelated(ctx context.Context, filter RelatedFilter, excludeID string, offset, limit int) ([]model.Question, int64, error)
	Delete(ctx context.Context, id string) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) WithTx(tx *gorm.DB) QuestionRepository {
	return &questionRepository{db: tx}
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	return translate(r.db.WithContext(ctx).Create(question).Error)
}

func (r *questionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	var question model.Question
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&question).Error; err != nil {
		return nil, translate(err)
	}
	return &question, nil
}

// FindCanonical loads the canonical member of a group. With forUpdate the row is
// locked for the rest of the surrounding transaction (a no-op on sqlite).
func (r *questionRepository) FindCanonical(ctx context.Context, groupID string, forUpdate bool) (*model.Question, error) {
	q := r.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var question model.Question
	if err := q.Where("id = ? AND is_canonical = ?", groupID, true).First(&question).Error; err != nil {
		return nil, translate(err)
	}
	return &question, nil
}

func (r *questionRepository) FindByGroup(ctx context.Context, groupID string) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("is_canonical DESC").
		Order("created_at ASC").
		Find(&questions).Error
	return questions, err
}

// SearchCanonical returns canonical questions whose text contains any of the
// tokens as a case-insensitive substring. Tokens are expected lowercase and
// free of LIKE metacharacters.
func (r *questionRepository) SearchCanonical(ctx context.Context, tokens []string, excludeID string, limit int) ([]model.Question, error) {
	if len(tokens) == 0 || limit <= 0 {
		return []model.Question{}, nil
	}

	conds := make([]string, 0, len(tokens))
	args := make([]interface{}, 0, len(tokens))
	for _, token := range tokens {
		conds = append(conds, "LOWER(questions.text) LIKE ?")
		args = append(args, "%"+token+"%")
	}

	q := r.db.WithContext(ctx).
		Where("is_canonical = ?", true).
		Where("("+strings.Join(conds, " OR ")+")", args...)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var questions []model.Question
	err := q.Order("views DESC").Order("created_at DESC").Limit(limit).Find(&questions).Error
	return questions, err
}

// CountByGroups returns the live member count for each group id. Groups with no
// live members are absent from the map.
func (r *questionRepository) CountByGroups(ctx context.Context, groupIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(groupIDs))
	if len(groupIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		GroupID string
		Total   int64
	}
	err := r.db.WithContext(ctx).Model(&model.Question{}).
		Select("group_id, COUNT(*) AS total").
		Where("group_id IN ?", groupIDs).
		Group("group_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.GroupID] = row.Total
	}
	return counts, nil
}

// IncrementViews adds one to the stored counter and returns the post-increment
// value. The increment is done by the database, never read-modify-write here.
func (r *questionRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	var views int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Question{}).Where("id = ?", id).UpdateColumn("views", gorm.Expr("views + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&model.Question{}).Select("views").Where("id = ?", id).Row().Scan(&views)
	})
	if err != nil {
		return 0, translate(err)
	}
	return views, nil
}

func (r *questionRepository) FindRelated(ctx context.Context, filter RelatedFilter, excludeID string, offset, limit int) ([]model.Question, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Joins("JOIN exams ON exams.id = questions.exam_id")
		if excludeID != "" {
			db = db.Where("questions.id <> ?", excludeID)
		}
		if filter.SubjectID != "" {
			db = db.Where("exams.subject_id = ?", filter.SubjectID)
		}
		if filter.ProfessorID != "" {
			db = db.Where("exams.professor_id = ?", filter.ProfessorID)
		}
		if filter.UniversityID != "" {
			db = db.Where("exams.university_id = ?", filter.UniversityID)
		}
		if filter.CourseID != "" {
			db = db.Where("exams.course_id = ?", filter.CourseID)
		}
		if filter.Year != nil {
			db = db.Where("exams.year = ?", *filter.Year)
		}
		return db
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
		Order("questions.views DESC").
		Order("questions.created_at DESC").
		Order("questions.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

func (r *questionRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Question{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

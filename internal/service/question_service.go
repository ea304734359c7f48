package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/lshigami/askedagain/internal/apperror"
	"github.com/lshigami/askedagain/internal/dto"
	"github.com/lshigami/askedagain/internal/model"
	"github.com/lshigami/askedagain/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	minQuestionLength = 3
	maxQuestionLength = 5000
)

// QuestionService owns question groups: it mints canonicals, attaches
// variations and keeps exactly one canonical per group.
type QuestionService interface {
	Create(ctx context.Context, req dto.CreateQuestionRequest, creatorID string) (*dto.QuestionResponse, error)
	AttachToGroup(ctx context.Context, targetID string, req dto.AttachQuestionRequest, creatorID string) (*dto.QuestionResponse, error)
	TimesAsked(ctx context.Context, groupID string) (int64, error)
	Variations(ctx context.Context, questionID string) (*dto.VariationsResponse, error)
	Delete(ctx context.Context, questionID, userID string) error
}

type questionService struct {
	db        *gorm.DB
	questions repository.QuestionRepository
	exams     repository.ExamRepository
}

func NewQuestionService(db *gorm.DB, questions repository.QuestionRepository, exams repository.ExamRepository) QuestionService {
	return &questionService{db: db, questions: questions, exams: exams}
}

func (s *questionService) Create(ctx context.Context, req dto.CreateQuestionRequest, creatorID string) (*dto.QuestionResponse, error) {
	if req.JoinGroupID != nil && strings.TrimSpace(*req.JoinGroupID) != "" {
		return s.AttachToGroup(ctx, strings.TrimSpace(*req.JoinGroupID), dto.AttachQuestionRequest{ExamID: req.ExamID, Text: req.Text}, creatorID)
	}

	text, err := s.validateSubmission(ctx, req.ExamID, req.Text, creatorID)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	question := model.Question{
		ID:          id,
		GroupID:     id,
		IsCanonical: true,
		ExamID:      req.ExamID,
		Text:        text,
		CreatorID:   creatorID,
	}
	if err := s.questions.Create(ctx, &question); err != nil {
		return nil, apperror.Internal(err)
	}

	log.Info().Str("question_id", id).Str("exam_id", req.ExamID).Msg("Canonical question created")
	return toQuestionResponse(&question), nil
}

// AttachToGroup records a restatement of targetID's group. The canonical row is
// locked for the duration so a concurrent delete cannot strand the variation.
func (s *questionService) AttachToGroup(ctx context.Context, targetID string, req dto.AttachQuestionRequest, creatorID string) (*dto.QuestionResponse, error) {
	text, err := s.validateSubmission(ctx, req.ExamID, req.Text, creatorID)
	if err != nil {
		return nil, err
	}

	var question model.Question
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		questions := s.questions.WithTx(tx)

		target, err := questions.FindByID(ctx, targetID)
		if err != nil {
			return err
		}
		canonical, err := questions.FindCanonical(ctx, target.GroupID, true)
		if err != nil {
			return err
		}

		question = model.Question{
			ID:          uuid.NewString(),
			GroupID:     canonical.GroupID,
			IsCanonical: false,
			ExamID:      req.ExamID,
			Text:        text,
			CreatorID:   creatorID,
		}
		return questions.Create(ctx, &question)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.New(apperror.CodeGroupNotFound)
		}
		return nil, apperror.Internal(err)
	}

	log.Info().Str("question_id", question.ID).Str("group_id", question.GroupID).Msg("Question attached to group")
	return toQuestionResponse(&question), nil
}

func (s *questionService) validateSubmission(ctx context.Context, examID, rawText, creatorID string) (string, error) {
	if creatorID == "" {
		return "", apperror.New(apperror.CodeUnauthorized)
	}
	if strings.TrimSpace(examID) == "" {
		return "", apperror.Validation("examId is required")
	}
	text := strings.TrimSpace(rawText)
	length := utf8.RuneCountInString(text)
	if length < minQuestionLength {
		return "", apperror.Validation("text must be at least %d characters", minQuestionLength)
	}
	if length > maxQuestionLength {
		return "", apperror.Validation("text must be at most %d characters", maxQuestionLength)
	}

	exists, err := s.exams.Exists(ctx, examID)
	if err != nil {
		return "", apperror.Internal(err)
	}
	if !exists {
		return "", apperror.New(apperror.CodeInvalidReference)
	}
	return text, nil
}

func (s *questionService) TimesAsked(ctx context.Context, groupID string) (int64, error) {
	counts, err := s.questions.CountByGroups(ctx, []string{groupID})
	if err != nil {
		return 0, apperror.Internal(err)
	}
	return counts[groupID], nil
}

func (s *questionService) Variations(ctx context.Context, questionID string) (*dto.VariationsResponse, error) {
	question, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, notFoundOr(err, "Question")
	}
	members, err := s.questions.FindByGroup(ctx, question.GroupID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	resp := &dto.VariationsResponse{GroupID: question.GroupID, Questions: make([]dto.QuestionResponse, 0, len(members))}
	if err := copier.Copy(&resp.Questions, &members); err != nil {
		return nil, apperror.Internal(err)
	}
	return resp, nil
}

// Delete removes a question on behalf of its creator. Groups are not repaired:
// deleting a canonical leaves its variations pointing at the old group id.
func (s *questionService) Delete(ctx context.Context, questionID, userID string) error {
	if userID == "" {
		return apperror.New(apperror.CodeUnauthorized)
	}
	question, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		return notFoundOr(err, "Question")
	}
	if question.CreatorID != userID {
		return apperror.New(apperror.CodeForbidden)
	}
	if err := s.questions.Delete(ctx, questionID); err != nil {
		return notFoundOr(err, "Question")
	}
	log.Info().Str("question_id", questionID).Str("user_id", userID).Msg("Question deleted")
	return nil
}

func toQuestionResponse(question *model.Question) *dto.QuestionResponse {
	var resp dto.QuestionResponse
	if err := copier.Copy(&resp, question); err != nil {
		log.Error().Err(err).Str("question_id", question.ID).Msg("Failed to map question")
	}
	return &resp
}

// notFoundOr maps repository.ErrNotFound to a NOT_FOUND for resource and any
// other failure to an internal error.
func notFoundOr(err error, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(resource)
	}
	return apperror.Internal(err)
}

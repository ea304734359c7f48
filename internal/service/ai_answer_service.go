package service

import (
	"context"
	"errors"

	"github.com/lshigami/askedagain/internal/apperror"
	"github.com/lshigami/askedagain/internal/dto"
	"github.com/lshigami/askedagain/internal/model"
	"github.com/lshigami/askedagain/internal/repository"
	"github.com/rs/zerolog/log"
)

// AIAnswerService stores one generated answer per question group, keyed by the
// group's canonical id.
type AIAnswerService interface {
	Generate(ctx context.Context, questionID, userID string) (*dto.AIAnswerResponse, error)
	Get(ctx context.Context, questionID string) (*dto.AIAnswerResponse, error)
}

type aiAnswerService struct {
	questions repository.QuestionRepository
	answers   repository.AIAnswerRepository
	generator AnswerGenerator
}

func NewAIAnswerService(questions repository.QuestionRepository, answers repository.AIAnswerRepository, generator AnswerGenerator) AIAnswerService {
	return &aiAnswerService{questions: questions, answers: answers, generator: generator}
}

func (s *aiAnswerService) Generate(ctx context.Context, questionID, userID string) (*dto.AIAnswerResponse, error) {
	if userID == "" {
		return nil, apperror.New(apperror.CodeUnauthorized)
	}
	question, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, notFoundOr(err, "Question")
	}
	canonical, err := s.questions.FindCanonical(ctx, question.GroupID, false)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.New(apperror.CodeGroupNotFound)
		}
		return nil, apperror.Internal(err)
	}

	content, modelName, err := s.generator.Generate(ctx, canonical.Text)
	if err != nil {
		if errors.Is(err, ErrGeneratorUnavailable) {
			return nil, apperror.New(apperror.CodeAIUnavailable)
		}
		log.Error().Err(err).Str("group_id", canonical.GroupID).Msg("AI answer generation failed")
		return nil, apperror.Wrap(err, apperror.CodeAIUnavailable)
	}

	answer := model.AIAnswer{QuestionID: canonical.GroupID, Content: content, Model: modelName}
	if err := s.answers.Upsert(ctx, &answer); err != nil {
		return nil, apperror.Internal(err)
	}

	log.Info().Str("group_id", canonical.GroupID).Str("model", modelName).Msg("AI answer stored")
	return toAIAnswerResponse(&answer), nil
}

func (s *aiAnswerService) Get(ctx context.Context, questionID string) (*dto.AIAnswerResponse, error) {
	question, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, notFoundOr(err, "Question")
	}
	answer, err := s.answers.FindByQuestionID(ctx, question.GroupID)
	if err != nil {
		return nil, notFoundOr(err, "AI answer")
	}
	return toAIAnswerResponse(answer), nil
}

func toAIAnswerResponse(answer *model.AIAnswer) *dto.AIAnswerResponse {
	return &dto.AIAnswerResponse{
		GroupID:   answer.QuestionID,
		Content:   answer.Content,
		Model:     answer.Model,
		UpdatedAt: answer.UpdatedAt,
	}
}

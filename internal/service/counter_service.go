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

// CounterService maintains per-question aggregates that are written
// concurrently: view counts and per-user saved state.
type CounterService interface {
	IncrementViews(ctx context.Context, questionID string) (*dto.ViewResponse, error)
	ToggleSave(ctx context.Context, userID, questionID string) (*dto.ToggleSaveResponse, error)
}

type counterService struct {
	questions repository.QuestionRepository
	saved     repository.SavedQuestionRepository
}

func NewCounterService(questions repository.QuestionRepository, saved repository.SavedQuestionRepository) CounterService {
	return &counterService{questions: questions, saved: saved}
}

func (s *counterService) IncrementViews(ctx context.Context, questionID string) (*dto.ViewResponse, error) {
	views, err := s.questions.IncrementViews(ctx, questionID)
	if err != nil {
		return nil, notFoundOr(err, "Question")
	}
	return &dto.ViewResponse{Views: views}, nil
}

// ToggleSave flips the saved state and returns the state after the call.
// Losing a create race to a concurrent toggle still reports saved.
func (s *counterService) ToggleSave(ctx context.Context, userID, questionID string) (*dto.ToggleSaveResponse, error) {
	if userID == "" {
		return nil, apperror.New(apperror.CodeUnauthorized)
	}
	if _, err := s.questions.FindByID(ctx, questionID); err != nil {
		return nil, notFoundOr(err, "Question")
	}

	removed, err := s.saved.Delete(ctx, userID, questionID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if removed {
		return &dto.ToggleSaveResponse{Saved: false}, nil
	}

	err = s.saved.Create(ctx, &model.SavedQuestion{UserID: userID, QuestionID: questionID})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			log.Debug().Str("user_id", userID).Str("question_id", questionID).Msg("Concurrent save absorbed")
			return &dto.ToggleSaveResponse{Saved: true}, nil
		}
		return nil, apperror.Internal(err)
	}
	return &dto.ToggleSaveResponse{Saved: true}, nil
}

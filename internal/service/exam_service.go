package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lshigami/askedagain/internal/apperror"
	"github.com/lshigami/askedagain/internal/cache"
	"github.com/lshigami/askedagain/internal/dto"
	"github.com/lshigami/askedagain/internal/model"
	"github.com/lshigami/askedagain/internal/repository"
	"github.com/rs/zerolog/log"
)

type ExamService interface {
	// Summaries returns name summaries for the given exams. Unknown ids are
	// absent from the result.
	Summaries(ctx context.Context, ids []string) (map[string]dto.ExamSummary, error)
	Create(ctx context.Context, req dto.CreateExamRequest) (*dto.ExamResponse, error)
	Get(ctx context.Context, id string) (*dto.ExamResponse, error)
}

type examService struct {
	exams repository.ExamRepository
	cache cache.ExamCache
}

func NewExamService(exams repository.ExamRepository, examCache cache.ExamCache) ExamService {
	return &examService{exams: exams, cache: examCache}
}

func (s *examService) Summaries(ctx context.Context, ids []string) (map[string]dto.ExamSummary, error) {
	ids = uniqueNonEmpty(ids)
	summaries := s.cache.GetMany(ctx, ids)
	if len(summaries) == len(ids) {
		return summaries, nil
	}

	missing := make([]string, 0, len(ids)-len(summaries))
	for _, id := range ids {
		if _, ok := summaries[id]; !ok {
			missing = append(missing, id)
		}
	}

	exams, err := s.exams.FindByIDs(ctx, missing)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	loaded := make([]dto.ExamSummary, 0, len(exams))
	for i := range exams {
		summary := toExamSummary(&exams[i])
		summaries[summary.ID] = summary
		loaded = append(loaded, summary)
	}
	s.cache.SetMany(ctx, loaded)
	return summaries, nil
}

func (s *examService) Create(ctx context.Context, req dto.CreateExamRequest) (*dto.ExamResponse, error) {
	subject, err := refFromInput(&req.Subject, "subject")
	if err != nil {
		return nil, err
	}
	exam := model.Exam{
		ID:        strings.TrimSpace(req.ID),
		SubjectID: subject.ID,
		Subject:   model.Subject{ID: subject.ID, Name: subject.Name},
		Year:      req.Year,
	}
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}

	if req.Professor != nil {
		ref, err := refFromInput(req.Professor, "professor")
		if err != nil {
			return nil, err
		}
		exam.ProfessorID = &ref.ID
		exam.Professor = &model.Professor{ID: ref.ID, Name: ref.Name}
	}
	if req.University != nil {
		ref, err := refFromInput(req.University, "university")
		if err != nil {
			return nil, err
		}
		exam.UniversityID = &ref.ID
		exam.University = &model.University{ID: ref.ID, Name: ref.Name}
	}
	if req.Course != nil {
		ref, err := refFromInput(req.Course, "course")
		if err != nil {
			return nil, err
		}
		exam.CourseID = &ref.ID
		exam.Course = &model.Course{ID: ref.ID, Name: ref.Name}
	}

	if err := s.exams.Create(ctx, &exam); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, apperror.Validation("exam %s already exists", exam.ID)
		}
		return nil, apperror.Internal(err)
	}

	s.cache.Invalidate(ctx, exam.ID)

	log.Info().Str("exam_id", exam.ID).Str("subject_id", exam.SubjectID).Msg("Exam registered")
	return s.Get(ctx, exam.ID)
}

func (s *examService) Get(ctx context.Context, id string) (*dto.ExamResponse, error) {
	exam, err := s.exams.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Exam")
	}
	return toExamResponse(exam), nil
}

func refFromInput(in *dto.RefInput, field string) (dto.RefResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return dto.RefResponse{}, apperror.Validation("%s name is required", field)
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	return dto.RefResponse{ID: id, Name: name}, nil
}

func toExamSummary(exam *model.Exam) dto.ExamSummary {
	summary := dto.ExamSummary{
		ID:          exam.ID,
		SubjectID:   exam.SubjectID,
		SubjectName: exam.Subject.Name,
		Year:        exam.Year,
	}
	if exam.Professor != nil {
		summary.ProfessorName = exam.Professor.Name
	}
	if exam.University != nil {
		summary.UniversityName = exam.University.Name
	}
	if exam.Course != nil {
		summary.CourseName = exam.Course.Name
	}
	return summary
}

func toExamResponse(exam *model.Exam) *dto.ExamResponse {
	resp := &dto.ExamResponse{
		ID:        exam.ID,
		Subject:   dto.RefResponse{ID: exam.Subject.ID, Name: exam.Subject.Name},
		Year:      exam.Year,
		CreatedAt: exam.CreatedAt,
	}
	if exam.Professor != nil {
		resp.Professor = &dto.RefResponse{ID: exam.Professor.ID, Name: exam.Professor.Name}
	}
	if exam.University != nil {
		resp.University = &dto.RefResponse{ID: exam.University.ID, Name: exam.University.Name}
	}
	if exam.Course != nil {
		resp.Course = &dto.RefResponse{ID: exam.Course.ID, Name: exam.Course.Name}
	}
	return resp
}

func uniqueNonEmpty(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

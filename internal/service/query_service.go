package service

import (
	"context"
	"math"

	"github.com/lshigami/askedagain/internal/apperror"
	"github.com/lshigami/askedagain/internal/dto"
	"github.com/lshigami/askedagain/internal/model"
	"github.com/lshigami/askedagain/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	maxSimilarResults = 5
	defaultPageLimit  = 15
	maxPageLimit      = 50
	// keeps (page-1)*limit well inside int range
	maxPage           = math.MaxInt32 / maxPageLimit
)

// QueryService answers the read-side views over questions.
type QueryService interface {
	Similar(ctx context.Context, text, excludeID string) (*dto.SimilarQuestionsResponse, error)
	Related(ctx context.Context, questionID string, query dto.RelatedQuery, userID string) (*dto.QuestionPage, error)
	Detail(ctx context.Context, questionID, userID string) (*dto.QuestionDetail, error)
	SavedByUser(ctx context.Context, userID string, query dto.PageQuery) (*dto.QuestionPage, error)
}

type queryService struct {
	questions repository.QuestionRepository
	saved     repository.SavedQuestionRepository
	answers   repository.AIAnswerRepository
	exams     ExamService
}

func NewQueryService(
	questions repository.QuestionRepository,
	saved repository.SavedQuestionRepository,
	answers repository.AIAnswerRepository,
	exams ExamService,
) QueryService {
	return &queryService{questions: questions, saved: saved, answers: answers, exams: exams}
}

// Similar finds canonical questions sharing any token with text. Text that
// yields no tokens is answered without touching storage.
func (s *queryService) Similar(ctx context.Context, text, excludeID string) (*dto.SimilarQuestionsResponse, error) {
	resp := &dto.SimilarQuestionsResponse{Questions: []dto.SimilarQuestionSummary{}}

	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return resp, nil
	}

	candidates, err := s.questions.SearchCanonical(ctx, tokens, excludeID, maxSimilarResults)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(candidates) == 0 {
		return resp, nil
	}

	groupIDs := make([]string, 0, len(candidates))
	examIDs := make([]string, 0, len(candidates))
	for _, q := range candidates {
		groupIDs = append(groupIDs, q.GroupID)
		examIDs = append(examIDs, q.ExamID)
	}

	counts, err := s.questions.CountByGroups(ctx, groupIDs)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	withAnswer, err := s.answers.ExistsAmong(ctx, groupIDs)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	summaries, err := s.exams.Summaries(ctx, examIDs)
	if err != nil {
		return nil, err
	}

	for _, q := range candidates {
		item := dto.SimilarQuestionSummary{
			ID:          q.ID,
			Text:        q.Text,
			GroupID:     q.GroupID,
			TimesAsked:  counts[q.GroupID],
			Views:       q.Views,
			HasAIAnswer: withAnswer[q.GroupID],
			CreatedAt:   q.CreatedAt,
		}
		if summary, ok := summaries[q.ExamID]; ok {
			item.Exam = &summary
		}
		resp.Questions = append(resp.Questions, item)
	}
	return resp, nil
}

// Related pages through questions sharing exam dimensions with questionID.
// Without explicit filters it falls back to the question's subject.
func (s *queryService) Related(ctx context.Context, questionID string, query dto.RelatedQuery, userID string) (*dto.QuestionPage, error) {
	page, limit := normalizePage(query.Page, query.Limit)

	question, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, notFoundOr(err, "Question")
	}

	filter := repository.RelatedFilter{
		SubjectID:    query.SubjectID,
		ProfessorID:  query.ProfessorID,
		UniversityID: query.UniversityID,
		CourseID:     query.CourseID,
		Year:         query.Year,
	}
	if !query.HasFilters() {
		summaries, err := s.exams.Summaries(ctx, []string{question.ExamID})
		if err != nil {
			return nil, err
		}
		summary, ok := summaries[question.ExamID]
		if !ok {
			log.Warn().Str("question_id", questionID).Str("exam_id", question.ExamID).Msg("Question references an unknown exam, no related questions")
			return emptyPage(page, limit), nil
		}
		filter.SubjectID = summary.SubjectID
	}

	offset := (page - 1) * limit
	questions, total, err := s.questions.FindRelated(ctx, filter, questionID, offset, limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return s.buildPage(ctx, questions, total, page, limit, userID)
}

// Detail returns a question with its aggregates and counts the read as a view.
// A failed view increment does not fail the read.
func (s *queryService) Detail(ctx context.Context, questionID, userID string) (*dto.QuestionDetail, error) {
	question, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, notFoundOr(err, "Question")
	}

	if views, err := s.questions.IncrementViews(ctx, questionID); err != nil {
		log.Warn().Err(err).Str("question_id", questionID).Msg("View increment failed")
	} else {
		question.Views = views
	}

	counts, err := s.questions.CountByGroups(ctx, []string{question.GroupID})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	withAnswer, err := s.answers.ExistsAmong(ctx, []string{question.GroupID})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	saved, err := s.saved.SavedAmong(ctx, userID, []string{question.ID})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	summaries, err := s.exams.Summaries(ctx, []string{question.ExamID})
	if err != nil {
		return nil, err
	}

	detail := &dto.QuestionDetail{
		QuestionResponse: *toQuestionResponse(question),
		TimesAsked:       counts[question.GroupID],
		HasAIAnswer:      withAnswer[question.GroupID],
		IsSaved:          saved[question.ID],
	}
	if summary, ok := summaries[question.ExamID]; ok {
		detail.Exam = &summary
	}
	return detail, nil
}

func (s *queryService) SavedByUser(ctx context.Context, userID string, query dto.PageQuery) (*dto.QuestionPage, error) {
	if userID == "" {
		return nil, apperror.New(apperror.CodeUnauthorized)
	}
	page, limit := normalizePage(query.Page, query.Limit)

	questions, total, err := s.saved.ListByUser(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return s.buildPage(ctx, questions, total, page, limit, userID)
}

func (s *queryService) buildPage(ctx context.Context, questions []model.Question, total int64, page, limit int, userID string) (*dto.QuestionPage, error) {
	resp := emptyPage(page, limit)
	resp.Pagination.Total = total
	resp.Pagination.HasMore = int64(page-1)*int64(limit)+int64(limit) < total
	if len(questions) == 0 {
		return resp, nil
	}

	ids := make([]string, 0, len(questions))
	groupIDs := make([]string, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
		groupIDs = append(groupIDs, q.GroupID)
	}

	counts, err := s.questions.CountByGroups(ctx, uniqueNonEmpty(groupIDs))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	saved, err := s.saved.SavedAmong(ctx, userID, ids)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	for _, q := range questions {
		resp.Questions = append(resp.Questions, dto.RelatedQuestion{
			ID:          q.ID,
			Text:        q.Text,
			ExamID:      q.ExamID,
			GroupID:     q.GroupID,
			IsCanonical: q.IsCanonical,
			Views:       q.Views,
			TimesAsked:  counts[q.GroupID],
			IsSaved:     saved[q.ID],
			CreatedAt:   q.CreatedAt,
		})
	}
	return resp, nil
}

func emptyPage(page, limit int) *dto.QuestionPage {
	return &dto.QuestionPage{
		Questions:  []dto.RelatedQuestion{},
		Pagination: dto.Pagination{Page: page, Limit: limit},
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

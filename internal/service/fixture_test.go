package service_test

import (
	"context"
	"testing"

	"github.com/lshigami/askedagain/internal/apperror"
	"github.com/lshigami/askedagain/internal/cache"
	"github.com/lshigami/askedagain/internal/dto"
	"github.com/lshigami/askedagain/internal/repository"
	"github.com/lshigami/askedagain/internal/service"
	"github.com/lshigami/askedagain/internal/testutil"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	questions repository.QuestionRepository
	saved     repository.SavedQuestionRepository
	exams     repository.ExamRepository
	answers   repository.AIAnswerRepository

	questionSvc service.QuestionService
	counterSvc  service.CounterService
	examSvc     service.ExamService
	querySvc    service.QueryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		db:        db,
		questions: repository.NewQuestionRepository(db),
		saved:     repository.NewSavedQuestionRepository(db),
		exams:     repository.NewExamRepository(db),
		answers:   repository.NewAIAnswerRepository(db),
	}
	f.questionSvc = service.NewQuestionService(db, f.questions, f.exams)
	f.counterSvc = service.NewCounterService(f.questions, f.saved)
	f.examSvc = service.NewExamService(f.exams, cache.NewExamCache(nil, 0))
	f.querySvc = service.NewQueryService(f.questions, f.saved, f.answers, f.examSvc)
	return f
}

func (f *fixture) create(t *testing.T, examID, text, user string) *dto.QuestionResponse {
	t.Helper()
	q, err := f.questionSvc.Create(context.Background(), dto.CreateQuestionRequest{ExamID: examID, Text: text}, user)
	if err != nil {
		t.Fatalf("create %q: %v", text, err)
	}
	return q
}

func (f *fixture) attach(t *testing.T, targetID, examID, text, user string) *dto.QuestionResponse {
	t.Helper()
	q, err := f.questionSvc.AttachToGroup(context.Background(), targetID, dto.AttachQuestionRequest{ExamID: examID, Text: text}, user)
	if err != nil {
		t.Fatalf("attach %q: %v", text, err)
	}
	return q
}

func expectCode(t *testing.T, err error, code apperror.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	if !apperror.Is(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

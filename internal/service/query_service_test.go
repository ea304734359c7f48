package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/lshigami/askedagain/internal/apperror"
	"github.com/lshigami/askedagain/internal/dto"
	"github.com/lshigami/askedagain/internal/model"
	"github.com/lshigami/askedagain/internal/repository"
	"github.com/lshigami/askedagain/internal/service"
	"github.com/lshigami/askedagain/internal/testutil"
)

func TestSimilarRecall(t *testing.T) {
	f := newFixture(t)
	prof := "p1"
	testutil.SeedFullExam(t, f.db, &model.Exam{
		ID: "e1", SubjectID: "s1", Subject: model.Subject{ID: "s1", Name: "Physiology"},
		ProfessorID: &prof, Professor: &model.Professor{ID: prof, Name: "Dr. Heart"},
	})
	ctx := context.Background()

	target := f.create(t, "e1", "Describe the mechanism of cardiac preload", "u1")
	f.attach(t, target.ID, "e1", "How does preload work?", "u2")
	f.create(t, "e1", "List the branches of the aorta", "u1")
	if err := f.answers.Upsert(ctx, &model.AIAnswer{QuestionID: target.GroupID, Content: "answer"}); err != nil {
		t.Fatalf("seed answer: %v", err)
	}

	resp, err := f.querySvc.Similar(ctx, "cardiac preload regulation", "")
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	if len(resp.Questions) != 1 {
		t.Fatalf("expected only the canonical to match, got %+v", resp.Questions)
	}
	got := resp.Questions[0]
	if got.ID != target.ID || got.TimesAsked != 2 || !got.HasAIAnswer {
		t.Fatalf("unexpected summary %+v", got)
	}
	if got.Exam == nil || got.Exam.SubjectName != "Physiology" || got.Exam.ProfessorName != "Dr. Heart" {
		t.Fatalf("expected exam names, got %+v", got.Exam)
	}

	resp, err = f.querySvc.Similar(ctx, "cardiac preload regulation", target.ID)
	if err != nil {
		t.Fatalf("similar with exclude: %v", err)
	}
	if len(resp.Questions) != 0 {
		t.Fatalf("excluded question returned: %+v", resp.Questions)
	}
}

type untouchableQuestionRepo struct {
	repository.QuestionRepository
	t *testing.T
}

func (r untouchableQuestionRepo) SearchCanonical(context.Context, []string, string, int) ([]model.Question, error) {
	r.t.Fatalf("storage must not be queried for short text")
	return nil, nil
}

func TestSimilarShortQueryShortCircuits(t *testing.T) {
	svc := service.NewQueryService(untouchableQuestionRepo{t: t}, nil, nil, nil)

	for _, text := range []string{"", "ab", "a b c", "to be or"} {
		resp, err := svc.Similar(context.Background(), text, "")
		if err != nil {
			t.Fatalf("similar(%q): %v", text, err)
		}
		if resp.Questions == nil || len(resp.Questions) != 0 {
			t.Fatalf("similar(%q): expected empty list, got %+v", text, resp.Questions)
		}
	}
}

func TestRelatedFallsBackToSubject(t *testing.T) {
	f := newFixture(t)
	testutil.SeedExam(t, f.db, "e1", "s1", "Physiology")
	testutil.SeedExam(t, f.db, "e2", "s1", "Physiology")
	testutil.SeedExam(t, f.db, "e3", "s2", "Anatomy")
	ctx := context.Background()

	q := f.create(t, "e1", "What is cardiac preload?", "u1")
	same := f.create(t, "e2", "What is afterload?", "u1")
	other := f.create(t, "e3", "Name the carpal bones", "u1")

	page, err := f.querySvc.Related(ctx, q.ID, dto.RelatedQuery{}, "")
	if err != nil {
		t.Fatalf("related: %v", err)
	}
	if len(page.Questions) != 1 || page.Questions[0].ID != same.ID {
		t.Fatalf("expected fallback to subject s1, got %+v", page.Questions)
	}

	page, err = f.querySvc.Related(ctx, q.ID, dto.RelatedQuery{SubjectID: "s2"}, "")
	if err != nil {
		t.Fatalf("related with filter: %v", err)
	}
	if len(page.Questions) != 1 || page.Questions[0].ID != other.ID {
		t.Fatalf("expected explicit subject filter, got %+v", page.Questions)
	}

	_, err = f.querySvc.Related(ctx, "missing", dto.RelatedQuery{}, "")
	expectCode(t, err, apperror.CodeNotFound)
}

func TestRelatedPagination(t *testing.T) {
	f := newFixture(t)
	testutil.SeedExam(t, f.db, "e1", "s1", "Physiology")
	ctx := context.Background()

	q := f.create(t, "e1", "Anchor question", "u1")
	var first string
	for i := 0; i < 23; i++ {
		created := f.create(t, "e1", fmt.Sprintf("Related question %d", i), "u1")
		if i == 0 {
			first = created.ID
		}
	}
	if _, err := f.counterSvc.ToggleSave(ctx, "reader", first); err != nil {
		t.Fatalf("save: %v", err)
	}

	page1, err := f.querySvc.Related(ctx, q.ID, dto.RelatedQuery{Page: 1, Limit: 15}, "reader")
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(page1.Questions) != 15 || !page1.Pagination.HasMore || page1.Pagination.Total != 23 {
		t.Fatalf("page 1: got %d questions, pagination %+v", len(page1.Questions), page1.Pagination)
	}

	page2, err := f.querySvc.Related(ctx, q.ID, dto.RelatedQuery{Page: 2, Limit: 15}, "reader")
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(page2.Questions) != 8 || page2.Pagination.HasMore || page2.Pagination.Page != 2 {
		t.Fatalf("page 2: got %d questions, pagination %+v", len(page2.Questions), page2.Pagination)
	}

	seen := map[string]bool{}
	savedSeen := 0
	for _, item := range append(page1.Questions, page2.Questions...) {
		if item.ID == q.ID {
			t.Fatalf("anchor question must be excluded")
		}
		if seen[item.ID] {
			t.Fatalf("question %s repeated across pages", item.ID)
		}
		seen[item.ID] = true
		if item.IsSaved {
			savedSeen++
			if item.ID != first {
				t.Fatalf("wrong question flagged saved: %s", item.ID)
			}
		}
		if item.TimesAsked != 1 {
			t.Fatalf("expected timesAsked 1, got %d", item.TimesAsked)
		}
	}
	if savedSeen != 1 {
		t.Fatalf("expected one saved question, got %d", savedSeen)
	}

	defaults, err := f.querySvc.Related(ctx, q.ID, dto.RelatedQuery{Limit: 500}, "")
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if defaults.Pagination.Page != 1 || defaults.Pagination.Limit != 50 || len(defaults.Questions) != 23 {
		t.Fatalf("expected clamped limit, got %+v (%d items)", defaults.Pagination, len(defaults.Questions))
	}
}

func TestDetailCountsView(t *testing.T) {
	f := newFixture(t)
	testutil.SeedExam(t, f.db, "e1", "s1", "Physiology")
	ctx := context.Background()
	q := f.create(t, "e1", "What is cardiac preload?", "u1")
	f.attach(t, q.ID, "e1", "Preload?", "u2")
	if _, err := f.counterSvc.ToggleSave(ctx, "u3", q.ID); err != nil {
		t.Fatalf("save: %v", err)
	}

	first, err := f.querySvc.Detail(ctx, q.ID, "u3")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if first.Views != 1 || first.TimesAsked != 2 || !first.IsSaved || first.HasAIAnswer {
		t.Fatalf("unexpected detail %+v", first)
	}
	if first.Exam == nil || first.Exam.SubjectName != "Physiology" {
		t.Fatalf("expected exam summary, got %+v", first.Exam)
	}

	second, err := f.querySvc.Detail(ctx, q.ID, "")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if second.Views != 2 || second.IsSaved {
		t.Fatalf("expected views 2 for anonymous reader, got %+v", second)
	}
}

func TestSavedByUser(t *testing.T) {
	f := newFixture(t)
	testutil.SeedExam(t, f.db, "e1", "s1", "Physiology")
	ctx := context.Background()
	a := f.create(t, "e1", "First question", "u1")
	b := f.create(t, "e1", "Second question", "u1")
	for _, id := range []string{a.ID, b.ID} {
		if _, err := f.counterSvc.ToggleSave(ctx, "reader", id); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	page, err := f.querySvc.SavedByUser(ctx, "reader", dto.PageQuery{})
	if err != nil {
		t.Fatalf("saved: %v", err)
	}
	if page.Pagination.Total != 2 || len(page.Questions) != 2 {
		t.Fatalf("expected two saved questions, got %+v", page)
	}
	for _, item := range page.Questions {
		if !item.IsSaved {
			t.Fatalf("saved list item not flagged: %+v", item)
		}
	}

	_, err = f.querySvc.SavedByUser(ctx, "", dto.PageQuery{})
	expectCode(t, err, apperror.CodeUnauthorized)
}

func TestPagingFarPastTheEnd(t *testing.T) {
	f := newFixture(t)
	testutil.SeedExam(t, f.db, "e1", "s1", "Physiology")
	ctx := context.Background()

	q := f.create(t, "e1", "Anchor question", "u1")
	for i := 0; i < 6; i++ {
		created := f.create(t, "e1", fmt.Sprintf("Related question %d", i), "u1")
		if _, err := f.counterSvc.ToggleSave(ctx, "reader", created.ID); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	const hugePage = 1<<62 + 1
	related, err := f.querySvc.Related(ctx, q.ID, dto.RelatedQuery{Page: hugePage, Limit: 4}, "")
	if err != nil {
		t.Fatalf("related: %v", err)
	}
	if len(related.Questions) != 0 || related.Pagination.HasMore || related.Pagination.Total != 6 {
		t.Fatalf("expected empty last page, got %d items, pagination %+v", len(related.Questions), related.Pagination)
	}
	if related.Pagination.Page < 2 {
		t.Fatalf("page must not wrap around, got %d", related.Pagination.Page)
	}

	saved, err := f.querySvc.SavedByUser(ctx, "reader", dto.PageQuery{Page: hugePage, Limit: 4})
	if err != nil {
		t.Fatalf("saved: %v", err)
	}
	if len(saved.Questions) != 0 || saved.Pagination.HasMore || saved.Pagination.Total != 6 {
		t.Fatalf("expected empty saved page, got %d items, pagination %+v", len(saved.Questions), saved.Pagination)
	}
}

func TestSimilarMatchesInsideWords(t *testing.T) {
	f := newFixture(t)
	testutil.SeedExam(t, f.db, "e1", "s1", "Physiology")
	target := f.create(t, "e1", "Describe the mechanism of cardiac preload", "u1")
	f.create(t, "e1", "List the branches of the aorta", "u1")

	resp, err := f.querySvc.Similar(context.Background(), "ism", "")
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	if len(resp.Questions) != 1 || resp.Questions[0].ID != target.ID {
		t.Fatalf("expected substring match on mechanism, got %+v", resp.Questions)
	}
}

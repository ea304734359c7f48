package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/askedagain/config"
	"github.com/lshigami/askedagain/internal/cache"
	"github.com/lshigami/askedagain/internal/controller"
	adminctrl "github.com/lshigami/askedagain/internal/controller/admin"
	userctrl "github.com/lshigami/askedagain/internal/controller/user"
	"github.com/lshigami/askedagain/internal/middleware"
	"github.com/lshigami/askedagain/internal/repository"
	"github.com/lshigami/askedagain/internal/service"
	"github.com/lshigami/askedagain/internal/testutil"
)

const jwtSecret = "controller-test-secret"

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = jwtSecret

	db := testutil.NewDB(t)
	testutil.SeedExam(t, db, "e1", "s1", "Physiology")

	questions := repository.NewQuestionRepository(db)
	saved := repository.NewSavedQuestionRepository(db)
	exams := repository.NewExamRepository(db)
	answers := repository.NewAIAnswerRepository(db)

	examSvc := service.NewExamService(exams, cache.NewExamCache(nil, 0))
	generator, err := service.NewGeminiAnswerGenerator(cfg)
	if err != nil {
		t.Fatalf("generator: %v", err)
	}

	router := gin.New()
	controller.RegisterRoutes(
		router,
		middleware.NewAuth(cfg),
		userctrl.NewQuestionController(
			service.NewQuestionService(db, questions, exams),
			service.NewCounterService(questions, saved),
			service.NewQueryService(questions, saved, answers, examSvc),
			service.NewAIAnswerService(questions, answers, generator),
		),
		adminctrl.NewAdminExamController(examSvc),
	)
	return &api{t: t, router: router}
}

func token(t *testing.T, sub, role string) string {
	t.Helper()
	claims := middleware.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func (a *api) do(method, path, bearer string, body interface{}) (int, response) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			a.t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var resp response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		a.t.Fatalf("%s %s: undecodable body %q", method, path, w.Body.String())
	}
	return w.Code, resp
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode data %s: %v", raw, err)
	}
}

func TestQuestionLifecycle(t *testing.T) {
	a := newAPI(t)
	alice := token(t, "alice", "")
	bob := token(t, "bob", "")

	status, resp := a.do(http.MethodPost, "/api/v1/questions", alice, map[string]string{
		"examId": "e1", "text": "Describe the mechanism of cardiac preload",
	})
	if status != http.StatusCreated || !resp.Success {
		t.Fatalf("create: %d %+v", status, resp)
	}
	var created struct {
		ID          string `json:"id"`
		GroupID     string `json:"groupId"`
		IsCanonical bool   `json:"isCanonical"`
	}
	decode(t, resp.Data, &created)
	if created.ID == "" || created.GroupID != created.ID || !created.IsCanonical {
		t.Fatalf("unexpected created question %+v", created)
	}

	status, resp = a.do(http.MethodPost, "/api/v1/questions/"+created.ID+"/attach", bob, map[string]string{
		"examId": "e1", "text": "How does preload work?",
	})
	if status != http.StatusCreated {
		t.Fatalf("attach: %d %+v", status, resp)
	}

	status, resp = a.do(http.MethodGet, "/api/v1/questions/similar?text=cardiac+preload+regulation", "", nil)
	if status != http.StatusOK {
		t.Fatalf("similar: %d", status)
	}
	var similar struct {
		Questions []struct {
			ID         string `json:"id"`
			TimesAsked int64  `json:"timesAsked"`
		} `json:"questions"`
	}
	decode(t, resp.Data, &similar)
	if len(similar.Questions) != 1 || similar.Questions[0].ID != created.ID || similar.Questions[0].TimesAsked != 2 {
		t.Fatalf("unexpected similar result %+v", similar)
	}

	status, resp = a.do(http.MethodGet, "/api/v1/questions/similar?text=ab", "", nil)
	if status != http.StatusOK || string(resp.Data) != `{"questions":[]}` {
		t.Fatalf("short query: %d %s", status, resp.Data)
	}

	status, resp = a.do(http.MethodPost, "/api/v1/questions/"+created.ID+"/view", "", nil)
	var views struct {
		Views int64 `json:"views"`
	}
	decode(t, resp.Data, &views)
	if status != http.StatusOK || views.Views != 1 {
		t.Fatalf("view: %d %+v", status, views)
	}

	for i, want := range []bool{true, false} {
		status, resp = a.do(http.MethodPost, "/api/v1/questions/"+created.ID+"/save", bob, nil)
		var saved struct {
			Saved bool `json:"saved"`
		}
		decode(t, resp.Data, &saved)
		if status != http.StatusOK || saved.Saved != want {
			t.Fatalf("toggle %d: %d %+v", i, status, saved)
		}
	}

	status, resp = a.do(http.MethodGet, "/api/v1/questions/"+created.ID, bob, nil)
	var detail struct {
		Views      int64 `json:"views"`
		TimesAsked int64 `json:"timesAsked"`
	}
	decode(t, resp.Data, &detail)
	if status != http.StatusOK || detail.Views != 2 || detail.TimesAsked != 2 {
		t.Fatalf("detail: %d %+v", status, detail)
	}

	status, resp = a.do(http.MethodDelete, "/api/v1/questions/"+created.ID, bob, nil)
	if status != http.StatusForbidden || resp.Error == nil || resp.Error.Code != "FORBIDDEN" {
		t.Fatalf("foreign delete: %d %+v", status, resp)
	}
	status, _ = a.do(http.MethodDelete, "/api/v1/questions/"+created.ID, alice, nil)
	if status != http.StatusOK {
		t.Fatalf("own delete: %d", status)
	}
}

func TestErrorEnvelope(t *testing.T) {
	a := newAPI(t)
	alice := token(t, "alice", "")

	tests := []struct {
		name   string
		method string
		path   string
		bearer string
		body   interface{}
		status int
		code   string
	}{
		{name: "create anonymous", method: http.MethodPost, path: "/api/v1/questions", body: map[string]string{"examId": "e1", "text": "Some question"}, status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "create missing text", method: http.MethodPost, path: "/api/v1/questions", bearer: alice, body: map[string]string{"examId": "e1"}, status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "create short text", method: http.MethodPost, path: "/api/v1/questions", bearer: alice, body: map[string]string{"examId": "e1", "text": "ab"}, status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "create unknown exam", method: http.MethodPost, path: "/api/v1/questions", bearer: alice, body: map[string]string{"examId": "nope", "text": "Some question"}, status: http.StatusUnprocessableEntity, code: "INVALID_REFERENCE"},
		{name: "attach unknown group", method: http.MethodPost, path: "/api/v1/questions/nope/attach", bearer: alice, body: map[string]string{"examId": "e1", "text": "Some question"}, status: http.StatusNotFound, code: "GROUP_NOT_FOUND"},
		{name: "get unknown", method: http.MethodGet, path: "/api/v1/questions/nope", status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "view unknown", method: http.MethodPost, path: "/api/v1/questions/nope/view", status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "related bad year", method: http.MethodGet, path: "/api/v1/questions/nope/related?year=abc", status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "saved anonymous", method: http.MethodGet, path: "/api/v1/me/saved-questions", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "admin as user", method: http.MethodPost, path: "/api/v1/admin/exams", bearer: alice, body: map[string]interface{}{"subject": map[string]string{"name": "Anatomy"}}, status: http.StatusForbidden, code: "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := a.do(tt.method, tt.path, tt.bearer, tt.body)
			if status != tt.status {
				t.Fatalf("expected status %d, got %d (%+v)", tt.status, status, resp)
			}
			if resp.Success || resp.Error == nil || resp.Error.Code != tt.code || resp.Error.Message == "" {
				t.Fatalf("expected error code %s, got %+v", tt.code, resp)
			}
		})
	}
}

func TestAIAnswerUnavailableWithoutKey(t *testing.T) {
	a := newAPI(t)
	alice := token(t, "alice", "")

	_, resp := a.do(http.MethodPost, "/api/v1/questions", alice, map[string]string{"examId": "e1", "text": "What is cardiac preload?"})
	var created struct {
		ID string `json:"id"`
	}
	decode(t, resp.Data, &created)

	status, resp := a.do(http.MethodPost, "/api/v1/questions/"+created.ID+"/ai-answer", alice, nil)
	if status != http.StatusServiceUnavailable || resp.Error == nil || resp.Error.Code != "AI_UNAVAILABLE" {
		t.Fatalf("expected AI_UNAVAILABLE, got %d %+v", status, resp)
	}
	status, resp = a.do(http.MethodGet, "/api/v1/questions/"+created.ID+"/ai-answer", "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected no stored answer, got %d %+v", status, resp)
	}
}

func TestRelatedAndAdminExams(t *testing.T) {
	a := newAPI(t)
	alice := token(t, "alice", "")
	root := token(t, "root", "admin")

	status, resp := a.do(http.MethodPost, "/api/v1/admin/exams", root, map[string]interface{}{
		"id":      "e2",
		"subject": map[string]string{"id": "s1", "name": "Physiology"},
		"year":    2024,
	})
	if status != http.StatusCreated {
		t.Fatalf("admin create exam: %d %+v", status, resp)
	}
	status, _ = a.do(http.MethodGet, "/api/v1/admin/exams/e2", root, nil)
	if status != http.StatusOK {
		t.Fatalf("admin get exam: %d", status)
	}

	var anchor string
	for i := 0; i < 18; i++ {
		exam := "e1"
		if i%2 == 1 {
			exam = "e2"
		}
		_, resp := a.do(http.MethodPost, "/api/v1/questions", alice, map[string]string{"examId": exam, "text": fmt.Sprintf("Question number %d", i)})
		if i == 0 {
			var created struct {
				ID string `json:"id"`
			}
			decode(t, resp.Data, &created)
			anchor = created.ID
		}
	}

	status, resp = a.do(http.MethodGet, "/api/v1/questions/"+anchor+"/related?limit=10&page=2", "", nil)
	if status != http.StatusOK {
		t.Fatalf("related: %d %+v", status, resp)
	}
	var page struct {
		Questions  []json.RawMessage `json:"questions"`
		Pagination struct {
			Page    int   `json:"page"`
			Limit   int   `json:"limit"`
			Total   int64 `json:"total"`
			HasMore bool  `json:"hasMore"`
		} `json:"pagination"`
	}
	decode(t, resp.Data, &page)
	if page.Pagination.Total != 17 || len(page.Questions) != 7 || page.Pagination.HasMore || page.Pagination.Page != 2 {
		t.Fatalf("unexpected page %+v (%d items)", page.Pagination, len(page.Questions))
	}

	status, resp = a.do(http.MethodGet, "/api/v1/questions/"+anchor+"/related?year=2024", "", nil)
	decode(t, resp.Data, &page)
	if status != http.StatusOK || page.Pagination.Total != 9 {
		t.Fatalf("year filter: %d total=%d", status, page.Pagination.Total)
	}
}

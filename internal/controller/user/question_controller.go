package user

import (
	"github.com/gin-gonic/gin"
	"github.com/lshigami/askedagain/internal/apperror"
	"github.com/lshigami/askedagain/internal/dto"
	"github.com/lshigami/askedagain/internal/middleware"
	"github.com/lshigami/askedagain/internal/service"
	"github.com/rs/zerolog/log"
)

type QuestionController struct {
	questionSvc service.QuestionService
	counterSvc  service.CounterService
	querySvc    service.QueryService
	aiSvc       service.AIAnswerService
}

func NewQuestionController(
	questionSvc service.QuestionService,
	counterSvc service.CounterService,
	querySvc service.QueryService,
	aiSvc service.AIAnswerService,
) *QuestionController {
	return &QuestionController{questionSvc: questionSvc, counterSvc: counterSvc, querySvc: querySvc, aiSvc: aiSvc}
}

// CreateQuestion godoc
// @Summary Submit a question
// @Description Records a question seen on an exam. Without joinGroupId a new group is started with this question as its canonical.
// @Tags Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question body dto.CreateQuestionRequest true "Question submission"
// @Success 201 {object} dto.Envelope{data=dto.QuestionResponse}
// @Failure 400 {object} dto.Envelope "VALIDATION_ERROR"
// @Failure 401 {object} dto.Envelope "UNAUTHORIZED"
// @Failure 404 {object} dto.Envelope "GROUP_NOT_FOUND"
// @Failure 422 {object} dto.Envelope "INVALID_REFERENCE"
// @Router /questions [post]
func (ctrl *QuestionController) CreateQuestion(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateQuestion: failed to bind JSON")
		dto.RespondError(c, apperror.Validation("Invalid request body: %v", err))
		return
	}

	resp, err := ctrl.questionSvc.Create(c.Request.Context(), req, middleware.UserID(c))
	if err != nil {
		dto.RespondError(c, err)
		return
	}
	dto.RespondCreated(c, resp)
}

// AttachQuestion godoc
// @Summary Attach a question to an existing group
// @Description Records the submission as a variation of the group that question {id} belongs to.
// @Tags Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Any question of the target group"
// @Param question body dto.AttachQuestionRequest true "Variation submission"
// @Success 201 {object} dto.Envelope{data=dto.QuestionResponse}
// @Failure 400 {object} dto.Envelope "VALIDATION_ERROR"
// @Failure 401 {object} dto.Envelope "UNAUTHORIZED"
// @Failure 404 {object} dto.Envelope "GROUP_NOT_FOUND"
// @Failure 422 {object} dto.Envelope "INVALID_REFERENCE"
// @Router /questions/{id}/attach [post]
func (ctrl *QuestionController) AttachQuestion(c *gin.Context) {
	var req dto.AttachQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("AttachQuestion: failed to bind JSON")
		dto.RespondError(c, apperror.Validation("Invalid request body: %v", err))
		return
	}

	resp, err := ctrl.questionSvc.AttachToGroup(c.Request.Context(), c.Param("id"), req, middleware.UserID(c))
	if err != nil {
		dto.RespondError(c, err)
		return
	}
	dto.RespondCreated(c, resp)
}

// SimilarQuestions godoc
// @Summary Find questions similar to free text
// @Description Matches canonical questions sharing any word of three or more letters with the text. Short text returns an empty list.
// @Tags Questions
// @Produce json
// @Param text query string false "Free text"
// @Param excludeId query string false "Question id to leave out"
// @Success 200 {object} dto.Envelope{data=dto.SimilarQuestionsResponse}
// @Router /questions/similar [get]
func (ctrl *QuestionController) SimilarQuestions(c *gin.Context) {
	var query dto.SimilarQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		dto.RespondError(c, apperror.Validation("Invalid query: %v", err))
		return
	}

	resp, err := ctrl.querySvc.Similar(c.Request.Context(), query.Text, query.ExcludeID)
	if err != nil {
		dto.RespondError(c, err)
		return
	}
	dto.RespondOK(c, resp)
}

// GetQuestion godoc
// @Summary Get a question
// @Description Returns the question with its group aggregates. Each read counts as a view.
// @Tags Questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} dto.Envelope{data=dto.QuestionDetail}
// @Failure 404 {object} dto.Envelope "NOT_FOUND"
// @Router /questions/{id} [get]
func (ctrl *QuestionController) GetQuestion(c *gin.Context) {
	resp, err := ctrl.querySvc.Detail(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		dto.RespondError(c, err)
		return
	}
	dto.RespondOK(c, resp)
}

// RelatedQuestions godoc
// @Summary List related questions
// @Description Questions from exams matching the filters, most viewed first. Without filters the question's subject is used.
// @Tags Questions
// @Produce json
// @Param id path string true "Question ID"
// @Param subjectId query string false "Subject filter"
// @Param professorId query string false "Professor filter"
// @Param universityId query string false "University filter"
// @Param courseId query string false "Course filter"
// @Param year query int false "Exam year filter"
// @Param page query int false "Page, starting at 1" default(1)
// @Param limit query int false "Page size, at most 50" default(15)
// @Success 200 {object} dto.Envelope{data=dto.QuestionPage}
// @Failure 400 {object} dto.Envelope "VALIDATION_ERROR"
// @Failure 404 {object} dto.Envelope "NOT_FOUND"
// @Router /questions/{id}/related [get]
func (ctrl *QuestionController) RelatedQuestions(c *gin.Context) {
	var query dto.RelatedQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		dto.RespondError(c, apperror.Validation("Invalid query: %v", err))
		return
	}

	resp, err := ctrl.querySvc.Related(c.Request.Context(), c.Param("id"), query, middleware.UserID(c))
	if err != nil {
		dto.RespondError(c, err)
		return
	}
	dto.RespondOK(c, resp)
}

// QuestionVariations godoc
// @Summary List the members of a question's group
// @Tags Questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} dto.Envelope{data=dto.VariationsResponse}
// @Failure 404 {object} dto.Envelope "NOT_FOUND"
// @Router /questions/{id}/variations [get]
func (ctrl *QuestionController) QuestionVariations(c *gin.Context) {
	resp, err := ctrl.questionSvc.Variations(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.RespondError(c, err)
		return
	}
	dto.RespondOK(c, resp)
}

// ToggleSave godoc
// @Summary Save or unsave a question
// @Tags Questions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID"
// @Success 200 {object} dto.Envelope{data=dto.ToggleSaveResponse}
// @Failure 401 {object} dto.Envelope "UNAUTHORIZED"
// @Failure 404 {object} dto.Envelope "NOT_FOUND"
// @Router /questions/{id}/save [post]
func (ctrl *QuestionController) ToggleSave(c *gin.Context) {
	resp, err := ctrl.counterSvc.ToggleSave(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		dto.RespondError(c, err)
		return
	}
	dto.RespondOK(c, resp)
}

// RecordView godoc
// @Summary Record a view
// @Tags Questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} dto.Envelope{data=dto.ViewResponse}
// @Failure 404 {object} dto.Envelope "NOT_FOUND"
// @Router /questions/{id}/view [post]
func (ctrl *QuestionController) RecordView(c *gin.Context) {
	resp, err := ctrl.counterSvc.IncrementViews(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.RespondError(c, err)
		return
	}
	dto.RespondOK(c, resp)
}

// DeleteQuestion godoc
// @Summary Delete your own question
// @Tags Questions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID"
// @Success 200 {object} dto.Envelope
// @Failure 401 {object} dto.Envelope "UNAUTHORIZED"
// @Failure 403 {object} dto.Envelope "FORBIDDEN"
// @Failure 404 {object} dto.Envelope "NOT_FOUND"
// @Router /questions/{id} [delete]
func (ctrl *QuestionController) DeleteQuestion(c *gin.Context) {
	id := c.Param("id")
	if err := ctrl.questionSvc.Delete(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		dto.RespondError(c, err)
		return
	}
	dto.RespondOK(c, gin.H{"id": id, "deleted": true})
}

// GenerateAIAnswer godoc
// @Summary Generate the AI answer for a question's group
// @Description Generates an answer to the group's canonical text and replaces any stored one.
// @Tags AI Answers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID"
// @Success 200 {object} dto.Envelope{data=dto.AIAnswerResponse}
// @Failure 401 {object} dto.Envelope "UNAUTHORIZED"
// @Failure 404 {object} dto.Envelope "NOT_FOUND"
// @Failure 503 {object} dto.Envelope "AI_UNAVAILABLE"
// @Router /questions/{id}/ai-answer [post]
func (ctrl *QuestionController) GenerateAIAnswer(c *gin.Context) {
	resp, err := ctrl.aiSvc.Generate(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		dto.RespondError(c, err)
		return
	}
	dto.RespondOK(c, resp)
}

// GetAIAnswer godoc
// @Summary Get the stored AI answer for a question's group
// @Tags AI Answers
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} dto.Envelope{data=dto.AIAnswerResponse}
// @Failure 404 {object} dto.Envelope "NOT_FOUND"
// @Router /questions/{id}/ai-answer [get]
func (ctrl *QuestionController) GetAIAnswer(c *gin.Context) {
	resp, err := ctrl.aiSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.RespondError(c, err)
		return
	}
	dto.RespondOK(c, resp)
}

// SavedQuestions godoc
// @Summary List my saved questions
// @Tags Questions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, starting at 1" default(1)
// @Param limit query int false "Page size, at most 50" default(15)
// @Success 200 {object} dto.Envelope{data=dto.QuestionPage}
// @Failure 401 {object} dto.Envelope "UNAUTHORIZED"
// @Router /me/saved-questions [get]
func (ctrl *QuestionController) SavedQuestions(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		dto.RespondError(c, apperror.Validation("Invalid query: %v", err))
		return
	}

	resp, err := ctrl.querySvc.SavedByUser(c.Request.Context(), middleware.UserID(c), query)
	if err != nil {
		dto.RespondError(c, err)
		return
	}
	dto.RespondOK(c, resp)
}

package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/lshigami/askedagain/internal/apperror"
	"github.com/lshigami/askedagain/internal/dto"
	"github.com/lshigami/askedagain/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminExamController struct {
	examService service.ExamService
}

func NewAdminExamController(examService service.ExamService) *AdminExamController {
	return &AdminExamController{examService: examService}
}

// CreateExam godoc
// @Summary (Admin) Register an exam
// @Description Registers an exam with its subject and optional professor, university and course. Reference rows are created or renamed by id.
// @Tags Admin - Exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exam body dto.CreateExamRequest true "Exam registration"
// @Success 201 {object} dto.Envelope{data=dto.ExamResponse}
// @Failure 400 {object} dto.Envelope "VALIDATION_ERROR"
// @Failure 401 {object} dto.Envelope "UNAUTHORIZED"
// @Failure 403 {object} dto.Envelope "FORBIDDEN"
// @Router /admin/exams [post]
func (c *AdminExamController) CreateExam(ctx *gin.Context) {
	var req dto.CreateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateExam: failed to bind JSON")
		dto.RespondError(ctx, apperror.Validation("Invalid request body: %v", err))
		return
	}

	resp, err := c.examService.Create(ctx.Request.Context(), req)
	if err != nil {
		dto.RespondError(ctx, err)
		return
	}
	dto.RespondCreated(ctx, resp)
}

// GetExam godoc
// @Summary (Admin) Get an exam
// @Tags Admin - Exams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam ID"
// @Success 200 {object} dto.Envelope{data=dto.ExamResponse}
// @Failure 404 {object} dto.Envelope "NOT_FOUND"
// @Router /admin/exams/{id} [get]
func (c *AdminExamController) GetExam(ctx *gin.Context) {
	resp, err := c.examService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		dto.RespondError(ctx, err)
		return
	}
	dto.RespondOK(ctx, resp)
}

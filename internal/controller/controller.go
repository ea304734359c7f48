package controller

import (
	"github.com/gin-gonic/gin"
	adminctrl "github.com/lshigami/askedagain/internal/controller/admin"
	userctrl "github.com/lshigami/askedagain/internal/controller/user"
	"github.com/lshigami/askedagain/internal/middleware"
)

// RegisterRoutes mounts the API under /api/v1.
func RegisterRoutes(
	router *gin.Engine,
	auth *middleware.Auth,
	questionCtrl *userctrl.QuestionController,
	adminExamCtrl *adminctrl.AdminExamController,
) {
	apiV1 := router.Group("/api/v1")
	{
		questions := apiV1.Group("/questions")
		questions.POST("", auth.RequireUser(), questionCtrl.CreateQuestion)
		questions.GET("/similar", questionCtrl.SimilarQuestions)
		questions.GET("/:id", auth.OptionalUser(), questionCtrl.GetQuestion)
		questions.DELETE("/:id", auth.RequireUser(), questionCtrl.DeleteQuestion)
		questions.POST("/:id/attach", auth.RequireUser(), questionCtrl.AttachQuestion)
		questions.GET("/:id/related", auth.OptionalUser(), questionCtrl.RelatedQuestions)
		questions.GET("/:id/variations", questionCtrl.QuestionVariations)
		questions.POST("/:id/save", auth.RequireUser(), questionCtrl.ToggleSave)
		questions.POST("/:id/view", questionCtrl.RecordView)
		questions.GET("/:id/ai-answer", questionCtrl.GetAIAnswer)
		questions.POST("/:id/ai-answer", auth.RequireUser(), questionCtrl.GenerateAIAnswer)

		me := apiV1.Group("/me", auth.RequireUser())
		me.GET("/saved-questions", questionCtrl.SavedQuestions)

		// Admin routes
		admin := apiV1.Group("/admin", auth.RequireUser(), auth.RequireRole("admin"))
		admin.POST("/exams", adminExamCtrl.CreateExam)
		admin.GET("/exams/:id", adminExamCtrl.GetExam)
	}
}

package dto

type CreateQuestionRequest struct {
	ExamID string `json:"examId" binding:"required"`
	Text   string `json:"text" binding:"required"`
	// JoinGroupID attaches the submission to an existing group instead of
	// starting a new one.
	JoinGroupID *string `json:"joinGroupId,omitempty"`
}

type AttachQuestionRequest struct {
	ExamID string `json:"examId" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

type SimilarQuery struct {
	Text      string `form:"text"`
	ExcludeID string `form:"excludeId"`
}

type RelatedQuery struct {
	SubjectID    string `form:"subjectId"`
	ProfessorID  string `form:"professorId"`
	UniversityID string `form:"universityId"`
	CourseID     string `form:"courseId"`
	Year         *int   `form:"year"`
	Page         int    `form:"page"`
	Limit        int    `form:"limit"`
}

// HasFilters reports whether any structured filter was supplied.
func (q RelatedQuery) HasFilters() bool {
	return q.SubjectID != "" || q.ProfessorID != "" || q.UniversityID != "" || q.CourseID != "" || q.Year != nil
}

type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

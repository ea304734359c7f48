package dto

import "time"

type QuestionResponse struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	ExamID      string    `json:"examId"`
	GroupID     string    `json:"groupId"`
	IsCanonical bool      `json:"isCanonical"`
	Views       int64     `json:"views"`
	CreatorID   string    `json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ExamSummary struct {
	ID             string `json:"id"`
	SubjectID      string `json:"subjectId"`
	SubjectName    string `json:"subjectName"`
	ProfessorName  string `json:"professorName,omitempty"`
	UniversityName string `json:"universityName,omitempty"`
	CourseName     string `json:"courseName,omitempty"`
	Year           *int   `json:"year,omitempty"`
}

type SimilarQuestionSummary struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	GroupID     string       `json:"groupId"`
	TimesAsked  int64        `json:"timesAsked"`
	Views       int64        `json:"views"`
	HasAIAnswer bool         `json:"hasAiAnswer"`
	Exam        *ExamSummary `json:"exam,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type SimilarQuestionsResponse struct {
	Questions []SimilarQuestionSummary `json:"questions"`
}

type RelatedQuestion struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	ExamID      string    `json:"examId"`
	GroupID     string    `json:"groupId"`
	IsCanonical bool      `json:"isCanonical"`
	Views       int64     `json:"views"`
	TimesAsked  int64     `json:"timesAsked"`
	IsSaved     bool      `json:"isSaved"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"hasMore"`
}

type QuestionPage struct {
	Questions  []RelatedQuestion `json:"questions"`
	Pagination Pagination        `json:"pagination"`
}

type QuestionDetail struct {
	QuestionResponse
	TimesAsked  int64        `json:"timesAsked"`
	HasAIAnswer bool         `json:"hasAiAnswer"`
	IsSaved     bool         `json:"isSaved"`
	Exam        *ExamSummary `json:"exam,omitempty"`
}

type VariationsResponse struct {
	GroupID   string             `json:"groupId"`
	Questions []QuestionResponse `json:"questions"`
}

type ToggleSaveResponse struct {
	Saved bool `json:"saved"`
}

type ViewResponse struct {
	Views int64 `json:"views"`
}

type AIAnswerResponse struct {
	GroupID   string    `json:"groupId"`
	Content   string    `json:"content"`
	Model     string    `json:"model"`
	UpdatedAt time.Time `json:"updatedAt"`
}

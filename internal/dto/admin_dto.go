package dto

import "time"

// RefInput names a reference row. A missing ID mints a new one.
type RefInput struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name" binding:"required"`
}

type CreateExamRequest struct {
	ID         string    `json:"id,omitempty"`
	Subject    RefInput  `json:"subject" binding:"required"`
	Professor  *RefInput `json:"professor,omitempty"`
	University *RefInput `json:"university,omitempty"`
	Course     *RefInput `json:"course,omitempty"`
	Year       *int      `json:"year,omitempty" binding:"omitempty,min=1900,max=2100"`
}

type RefResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ExamResponse struct {
	ID         string       `json:"id"`
	Subject    RefResponse  `json:"subject"`
	Professor  *RefResponse `json:"professor,omitempty"`
	University *RefResponse `json:"university,omitempty"`
	Course     *RefResponse `json:"course,omitempty"`
	Year       *int         `json:"year,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
}

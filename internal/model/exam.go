package model

import "time"

// Exam mirrors the exam catalogue owned by the reference-data service.
// Subject is mandatory; the other dimensions are optional.
type Exam struct {
	ID           string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	SubjectID    string      `gorm:"type:varchar(36);not null;index" json:"subject_id"`
	Subject      Subject     `gorm:"foreignKey:SubjectID" json:"subject"`
	ProfessorID  *string     `gorm:"type:varchar(36);index" json:"professor_id,omitempty"`
	Professor    *Professor  `gorm:"foreignKey:ProfessorID" json:"professor,omitempty"`
	UniversityID *string     `gorm:"type:varchar(36);index" json:"university_id,omitempty"`
	University   *University `gorm:"foreignKey:UniversityID" json:"university,omitempty"`
	CourseID     *string     `gorm:"type:varchar(36);index" json:"course_id,omitempty"`
	Course       *Course     `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Year         *int        `gorm:"index" json:"year,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type Subject struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Professor struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type University struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Course struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

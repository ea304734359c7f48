// Package testutil wires throwaway storage for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/lshigami/askedagain/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated sqlite database in the test's temp dir. A single
// connection keeps concurrent writers serialised the way row locks would.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedExam inserts an exam and its subject. Optional dimensions are left empty.
func SeedExam(t *testing.T, db *gorm.DB, examID, subjectID, subjectName string) *model.Exam {
	t.Helper()
	exam := &model.Exam{
		ID:        examID,
		SubjectID: subjectID,
		Subject:   model.Subject{ID: subjectID, Name: subjectName},
	}
	seedExam(t, db, exam)
	return exam
}

// SeedFullExam inserts an exam with every dimension populated.
func SeedFullExam(t *testing.T, db *gorm.DB, exam *model.Exam) *model.Exam {
	t.Helper()
	seedExam(t, db, exam)
	return exam
}

func seedExam(t *testing.T, db *gorm.DB, exam *model.Exam) {
	t.Helper()
	ctx := context.Background()
	refs := []interface{}{&exam.Subject}
	if exam.Professor != nil {
		refs = append(refs, exam.Professor)
	}
	if exam.University != nil {
		refs = append(refs, exam.University)
	}
	if exam.Course != nil {
		refs = append(refs, exam.Course)
	}
	for _, ref := range refs {
		if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(ref).Error; err != nil {
			t.Fatalf("seed reference: %v", err)
		}
	}
	if err := db.WithContext(ctx).Omit("Subject", "Professor", "University", "Course").Create(exam).Error; err != nil {
		t.Fatalf("seed exam: %v", err)
	}
}

// SeedQuestion inserts a question row as-is. Canonical questions must carry
// GroupID == ID.
func SeedQuestion(t *testing.T, db *gorm.DB, q *model.Question) *model.Question {
	t.Helper()
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("seed question %s: %v", q.ID, err)
	}
	return q
}

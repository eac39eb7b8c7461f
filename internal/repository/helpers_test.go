package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/literacy-go-api/internal/database"
	"github.com/noah-isme/literacy-go-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.Role) models.User {
	t.Helper()
	user := models.User{Name: email, Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedClass(t *testing.T, db *gorm.DB, ownerID uint, name string) models.Class {
	t.Helper()
	class := models.Class{Name: name, UserID: ownerID}
	require.NoError(t, db.Omit("Owner").Create(&class).Error)
	return class
}

func seedStudent(t *testing.T, db *gorm.DB, classID uint, name string) models.Student {
	t.Helper()
	student := models.Student{Name: name, Level: 2, ClassID: classID, SchoolYear: "2024-2025"}
	require.NoError(t, db.Omit("Class").Create(&student).Error)
	return student
}

func seedPassage(t *testing.T, db *gorm.DB, title string, level int) models.Passage {
	t.Helper()
	passage := models.Passage{
		Title:    title,
		Content:  "The cat sat on the mat.",
		Language: "English",
		Level:    level,
		Tags:     models.TagLiteral,
		TestType: models.TestTypePre,
	}
	require.NoError(t, db.Create(&passage).Error)
	return passage
}

func seedSession(t *testing.T, db *gorm.DB, studentID, passageID uint) models.OralReadingSession {
	t.Helper()
	session := models.OralReadingSession{StudentID: studentID, PassageID: passageID}
	require.NoError(t, db.Omit("Student", "Passage", "Assessment").Create(&session).Error)
	return session
}

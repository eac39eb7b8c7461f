package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/literacy-go-api/internal/models"
)

func TestAssessmentRepositoryDeleteDetachesSessions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssessmentRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@example.com", models.RoleTeacher)
	other := seedUser(t, db, "other@example.com", models.RoleTeacher)
	class := seedClass(t, db, owner.ID, "A")
	student := seedStudent(t, db, class.ID, "Ana")
	passage := seedPassage(t, db, "Cats", 1)

	assessment := models.Assessment{StudentID: student.ID, Type: models.AssessmentReadingFluency}
	require.NoError(t, repo.Create(ctx, &assessment))

	session := models.OralReadingSession{StudentID: student.ID, PassageID: passage.ID, AssessmentID: &assessment.ID}
	require.NoError(t, db.Omit("Student", "Passage", "Assessment").Create(&session).Error)

	require.ErrorIs(t, repo.Delete(ctx, assessment.ID, OwnedBy(other.ID)), gorm.ErrRecordNotFound)

	listed, err := repo.ListByStudent(ctx, student.ID, OwnedBy(owner.ID))
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, repo.Delete(ctx, assessment.ID, OwnedBy(owner.ID)))

	var reloaded models.OralReadingSession
	require.NoError(t, db.First(&reloaded, session.ID).Error)
	require.Nil(t, reloaded.AssessmentID)

	_, err = repo.Get(ctx, assessment.ID, OwnedBy(owner.ID))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

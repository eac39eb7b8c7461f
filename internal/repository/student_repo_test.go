package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/literacy-go-api/internal/models"
)

func TestStudentRepositoryListFiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@example.com", models.RoleTeacher)
	other := seedUser(t, db, "other@example.com", models.RoleTeacher)
	first := seedClass(t, db, owner.ID, "A")
	second := seedClass(t, db, owner.ID, "B")
	foreign := seedClass(t, db, other.ID, "C")

	seedStudent(t, db, first.ID, "Carla")
	seedStudent(t, db, first.ID, "Adam")
	seedStudent(t, db, second.ID, "Bella")
	seedStudent(t, db, foreign.ID, "Zed")

	students, total, err := repo.List(ctx, OwnedBy(owner.ID), StudentFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, students, 2)
	require.Equal(t, "Adam", students[0].Name)
	require.Equal(t, "Bella", students[1].Name)

	students, _, err = repo.List(ctx, OwnedBy(owner.ID), StudentFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, "Carla", students[0].Name)

	classID := first.ID
	students, total, err = repo.List(ctx, OwnedBy(owner.ID), StudentFilter{ClassID: &classID, Search: "car"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Carla", students[0].Name)

	foreignID := foreign.ID
	_, total, err = repo.List(ctx, OwnedBy(owner.ID), StudentFilter{ClassID: &foreignID})
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestStudentRepositoryGetHidesForeignStudents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@example.com", models.RoleTeacher)
	other := seedUser(t, db, "other@example.com", models.RoleTeacher)
	class := seedClass(t, db, owner.ID, "A")
	student := seedStudent(t, db, class.ID, "Ana")

	_, err := repo.Get(ctx, student.ID, OwnedBy(other.ID))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.Update(ctx, student.ID, OwnedBy(other.ID), map[string]interface{}{"name": "Changed"})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.Get(ctx, student.ID, Everything())
	require.NoError(t, err)
	require.Equal(t, "Ana", found.Name)
}

func TestStudentRepositoryDeleteCascadesSessions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@example.com", models.RoleTeacher)
	class := seedClass(t, db, owner.ID, "A")
	student := seedStudent(t, db, class.ID, "Ana")
	keep := seedStudent(t, db, class.ID, "Ben")
	passage := seedPassage(t, db, "Cats", 1)

	session := seedSession(t, db, student.ID, passage.ID)
	kept := seedSession(t, db, keep.ID, passage.ID)
	require.NoError(t, db.Create(&models.Miscue{SessionID: session.ID, WordIndex: 1, MiscueType: "omission"}).Error)
	require.NoError(t, db.Create(&models.Miscue{SessionID: kept.ID, WordIndex: 1, MiscueType: "omission"}).Error)
	require.NoError(t, db.Create(&models.WordTimestamp{SessionID: session.ID, Index: 0, Word: "The"}).Error)
	require.NoError(t, db.Create(&models.Behavior{SessionID: session.ID, BehaviorType: "finger_pointing"}).Error)
	require.NoError(t, db.Omit("Student").Create(&models.Assessment{StudentID: student.ID, Type: models.AssessmentOralReading}).Error)

	require.NoError(t, repo.Delete(ctx, student.ID, OwnedBy(owner.ID)))

	var count int64
	require.NoError(t, db.Model(&models.OralReadingSession{}).Where("student_id = ?", student.ID).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.Miscue{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
	require.NoError(t, db.Model(&models.WordTimestamp{}).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.Behavior{}).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.Assessment{}).Count(&count).Error)
	require.Zero(t, count)

	_, err := repo.Get(ctx, keep.ID, OwnedBy(owner.ID))
	require.NoError(t, err)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/literacy-go-api/internal/dto"
	"github.com/noah-isme/literacy-go-api/internal/models"
	"github.com/noah-isme/literacy-go-api/internal/repository"
)

func newClassFixture(t *testing.T) (*gorm.DB, ClassService, StudentService) {
	t.Helper()
	db := setupServiceDB(t)
	classes := repository.NewClassRepository(db)
	students := repository.NewStudentRepository(db)
	return db,
		NewClassService(classes, testValidator(), testLogger()),
		NewStudentService(students, classes, testValidator(), testLogger())
}

func TestClassServiceGuardsRunBeforeWrites(t *testing.T) {
	db, svc, _ := newClassFixture(t)
	ctx := context.Background()
	root := createUser(t, db, "root@example.com", models.RoleAdmin)

	_, err := svc.Create(ctx, Principal{}, dto.ClassCreateRequest{Name: "Anonymous"})
	requireCode(t, err, CodeUnauthorized)

	_, err = svc.Create(ctx, admin(root.ID), dto.ClassCreateRequest{Name: "Admin class"})
	requireCode(t, err, CodeForbidden)

	_, err = svc.Create(ctx, Principal{UserID: root.ID, Role: "GUEST"}, dto.ClassCreateRequest{Name: "Guest class"})
	requireCode(t, err, CodeForbidden)

	require.Zero(t, countRows(t, db, &models.Class{}))
}

func TestClassServiceOwnership(t *testing.T) {
	db, svc, _ := newClassFixture(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice@example.com", models.RoleTeacher)
	bob := createUser(t, db, "bob@example.com", models.RoleTeacher)
	root := createUser(t, db, "root@example.com", models.RoleAdmin)

	class, err := svc.Create(ctx, teacher(alice.ID), dto.ClassCreateRequest{Name: "  Year 2  "})
	require.NoError(t, err)
	require.Equal(t, "Year 2", class.Name)
	require.Equal(t, alice.ID, class.UserID)

	_, err = svc.Get(ctx, teacher(bob.ID), class.ID)
	requireCode(t, err, CodeNotFound)

	bobs, err := svc.List(ctx, teacher(bob.ID), dto.ClassFilter{})
	require.NoError(t, err)
	require.Empty(t, bobs)

	name := "Stolen"
	_, err = svc.Update(ctx, teacher(bob.ID), class.ID, dto.ClassUpdateRequest{Name: &name})
	requireCode(t, err, CodeNotFound)

	requireCode(t, svc.Delete(ctx, teacher(bob.ID), class.ID), CodeNotFound)

	viewed, err := svc.Get(ctx, admin(root.ID), class.ID)
	require.NoError(t, err)
	require.Equal(t, "Year 2", viewed.Name)

	requireCode(t, svc.Delete(ctx, admin(root.ID), class.ID), CodeForbidden)
	require.Equal(t, int64(1), countRows(t, db, &models.Class{}))
}

func TestClassServiceEmptyUpdateIsNoop(t *testing.T) {
	db, svc, _ := newClassFixture(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner@example.com", models.RoleTeacher)

	class, err := svc.Create(ctx, teacher(owner.ID), dto.ClassCreateRequest{Name: "Original"})
	require.NoError(t, err)

	unchanged, err := svc.Update(ctx, teacher(owner.ID), class.ID, dto.ClassUpdateRequest{})
	require.NoError(t, err)
	require.Equal(t, "Original", unchanged.Name)
	require.False(t, unchanged.Archived)

	archived := true
	updated, err := svc.Update(ctx, teacher(owner.ID), class.ID, dto.ClassUpdateRequest{Archived: &archived})
	require.NoError(t, err)
	require.Equal(t, "Original", updated.Name)
	require.True(t, updated.Archived)

	blank := "   "
	_, err = svc.Update(ctx, teacher(owner.ID), class.ID, dto.ClassUpdateRequest{Name: &blank})
	requireCode(t, err, CodeValidation)
}

func TestClassServiceDeleteConflictsWhileStudentsEnrolled(t *testing.T) {
	db, svc, students := newClassFixture(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner@example.com", models.RoleTeacher)

	class, err := svc.Create(ctx, teacher(owner.ID), dto.ClassCreateRequest{Name: "Busy"})
	require.NoError(t, err)
	student, err := students.Create(ctx, teacher(owner.ID), dto.StudentCreateRequest{Name: "Ana", Level: 1, ClassID: class.ID})
	require.NoError(t, err)

	requireCode(t, svc.Delete(ctx, teacher(owner.ID), class.ID), CodeConflict)

	listed, err := svc.List(ctx, teacher(owner.ID), dto.ClassFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, 1, listed[0].StudentCount)

	require.NoError(t, students.Delete(ctx, teacher(owner.ID), student.ID))
	require.NoError(t, svc.Delete(ctx, teacher(owner.ID), class.ID))

	_, err = svc.Get(ctx, teacher(owner.ID), class.ID)
	requireCode(t, err, CodeNotFound)
}

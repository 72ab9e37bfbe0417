package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shipai-tjc/logbook-api/internal/models"
)

func TestStudentRepositoryListFilters(t *testing.T) {
	db := openRepoTestDB(t, "student_list")
	repo := NewStudentRepository(db)

	classA := models.Class{Name: "nursery", Position: 0}
	classB := models.Class{Name: "middle", Position: 3}
	require.NoError(t, db.Create(&classA).Error)
	require.NoError(t, db.Create(&classB).Error)

	require.NoError(t, db.Create(&models.Student{FullName: "Anna Chen", StudentType: "member", Status: "active", ClassID: classA.ID}).Error)
	require.NoError(t, db.Create(&models.Student{FullName: "Ben Lin", StudentType: "seeker", Status: "inactive", ClassID: classB.ID}).Error)
	require.NoError(t, db.Create(&models.Student{FullName: "Cara Chen", StudentType: "member", Status: "active", ClassID: classB.ID}).Error)

	all, err := repo.List(context.Background(), StudentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Anna Chen", all[0].FullName)

	active, err := repo.List(context.Background(), StudentFilter{Status: "active"})
	require.NoError(t, err)
	require.Len(t, active, 2)

	byClass, err := repo.List(context.Background(), StudentFilter{ClassID: classB.ID})
	require.NoError(t, err)
	require.Len(t, byClass, 2)

	search, err := repo.List(context.Background(), StudentFilter{Search: "Chen"})
	require.NoError(t, err)
	require.Len(t, search, 2)
}

func TestStudentRepositoryUpdatePlacement(t *testing.T) {
	db := openRepoTestDB(t, "student_placement")
	repo := NewStudentRepository(db)

	class := models.Class{Name: "middle", Position: 3}
	next := models.Class{Name: "high", Position: 4}
	require.NoError(t, db.Create(&class).Error)
	require.NoError(t, db.Create(&next).Error)

	student := models.Student{FullName: "Mover", StudentType: "member", Status: "active", ClassID: class.ID}
	require.NoError(t, db.Create(&student).Error)

	classID := next.ID
	require.NoError(t, repo.UpdatePlacement(context.Background(), student.ID, PlacementUpdate{ClassID: &classID}))

	var stored models.Student
	require.NoError(t, db.First(&stored, student.ID).Error)
	require.Equal(t, next.ID, stored.ClassID)
	require.Equal(t, "active", stored.Status)

	status := "inactive"
	require.NoError(t, repo.UpdatePlacement(context.Background(), student.ID, PlacementUpdate{Status: &status}))
	require.NoError(t, db.First(&stored, student.ID).Error)
	require.Equal(t, "inactive", stored.Status)

	// An empty update is a no-op, not an error.
	require.NoError(t, repo.UpdatePlacement(context.Background(), student.ID, PlacementUpdate{}))
}

func TestStudentRepositoryCountActiveByClass(t *testing.T) {
	db := openRepoTestDB(t, "student_counts")
	repo := NewStudentRepository(db)

	class := models.Class{Name: "middle", Position: 3}
	require.NoError(t, db.Create(&class).Error)

	require.NoError(t, db.Create(&models.Student{FullName: "A", StudentType: "member", Status: "active", ClassID: class.ID}).Error)
	require.NoError(t, db.Create(&models.Student{FullName: "B", StudentType: "member", Status: "active", ClassID: class.ID}).Error)
	require.NoError(t, db.Create(&models.Student{FullName: "C", StudentType: "member", Status: "inactive", ClassID: class.ID}).Error)

	counts, err := repo.CountActiveByClass(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, counts[class.ID])

	total, err := repo.CountActive(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shipai-tjc/logbook-api/internal/academic"
	"github.com/shipai-tjc/logbook-api/internal/dto"
	"github.com/shipai-tjc/logbook-api/internal/models"
	"github.com/shipai-tjc/logbook-api/internal/repository"
)

func seedCanonicalClasses(t *testing.T, db *gorm.DB) map[string]uint {
	t.Helper()

	ids := make(map[string]uint, len(academic.ClassOrder))
	for position, name := range academic.ClassOrder {
		class := models.Class{Name: name, Position: position}
		require.NoError(t, db.Create(&class).Error)
		ids[name] = class.ID
	}
	return ids
}

func setupPromotionService(t *testing.T, db *gorm.DB) (PromotionService, *stubActivityRecorder) {
	t.Helper()

	students := repository.NewStudentRepository(db)
	classes := repository.NewClassRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())
	activity := &stubActivityRecorder{}

	return NewPromotionService(students, classes, validate, activity, zerolog.Nop()), activity
}

func seedStudent(t *testing.T, db *gorm.DB, name string, dob *time.Time, classID uint, status string) uint {
	t.Helper()

	student := models.Student{
		FullName:    name,
		StudentType: models.StudentTypeMember,
		Status:      status,
		DOB:         dob,
		ClassID:     classID,
	}
	require.NoError(t, db.Create(&student).Error)
	return student.ID
}

func TestPromoteMovesStudentsToAgeBand(t *testing.T) {
	db := openServiceTestDB(t, "promotion_move")
	classIDs := seedCanonicalClasses(t, db)
	service, activity := setupPromotionService(t, db)

	// Age 10 at 2024-09-01, belongs in senior-elementary.
	dob := dateAt(2014, time.May, 1)
	id := seedStudent(t, db, "Mover", &dob, classIDs[academic.ClassJuniorElementary], models.StudentStatusActive)

	summary, err := service.Promote(context.Background(), ActivityActor{ID: 1, Role: "admin"}, dto.PromotionRequest{AcademicYear: 2024})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Updated)
	require.Equal(t, 0, summary.Graduated)
	require.Equal(t, 0, summary.Skipped)

	var stored models.Student
	require.NoError(t, db.First(&stored, id).Error)
	require.Equal(t, classIDs[academic.ClassSeniorElementary], stored.ClassID)
	require.Equal(t, models.StudentStatusActive, stored.Status)

	require.Len(t, activity.entries, 1)
	require.Equal(t, "students.promoted", activity.entries[0].Action)
}

func TestPromoteIsIdempotent(t *testing.T) {
	db := openServiceTestDB(t, "promotion_idempotent")
	classIDs := seedCanonicalClasses(t, db)
	service, _ := setupPromotionService(t, db)

	dob := dateAt(2014, time.May, 1)
	seedStudent(t, db, "Mover", &dob, classIDs[academic.ClassJuniorElementary], models.StudentStatusActive)

	first, err := service.Promote(context.Background(), ActivityActor{}, dto.PromotionRequest{AcademicYear: 2024})
	require.NoError(t, err)
	require.Equal(t, 1, first.Updated)

	second, err := service.Promote(context.Background(), ActivityActor{}, dto.PromotionRequest{AcademicYear: 2024})
	require.NoError(t, err)
	require.Equal(t, 0, second.Updated)
	require.Equal(t, 0, second.Graduated)
	require.Equal(t, 0, second.Skipped)
}

func TestPromoteGraduationIsTerminal(t *testing.T) {
	db := openServiceTestDB(t, "promotion_graduate")
	classIDs := seedCanonicalClasses(t, db)
	service, _ := setupPromotionService(t, db)

	dob := dateOfYearsAgoAt(2024, 23)
	id := seedStudent(t, db, "Graduate", &dob, classIDs[academic.ClassCollege], models.StudentStatusActive)

	summary, err := service.Promote(context.Background(), ActivityActor{}, dto.PromotionRequest{AcademicYear: 2024})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Graduated)

	var stored models.Student
	require.NoError(t, db.First(&stored, id).Error)
	require.Equal(t, models.StudentStatusInactive, stored.Status)
	require.Equal(t, classIDs[academic.ClassCollege], stored.ClassID)

	// Inactive students never come back through a later pass.
	again, err := service.Promote(context.Background(), ActivityActor{}, dto.PromotionRequest{AcademicYear: 2025})
	require.NoError(t, err)
	require.Equal(t, 0, again.Graduated)
	require.Equal(t, 0, again.Updated)

	require.NoError(t, db.First(&stored, id).Error)
	require.Equal(t, models.StudentStatusInactive, stored.Status)
}

func TestPromoteSkipsStudentsWithoutDOB(t *testing.T) {
	db := openServiceTestDB(t, "promotion_no_dob")
	classIDs := seedCanonicalClasses(t, db)
	service, _ := setupPromotionService(t, db)

	id := seedStudent(t, db, "Unknown", nil, classIDs[academic.ClassMiddle], models.StudentStatusActive)

	summary, err := service.Promote(context.Background(), ActivityActor{}, dto.PromotionRequest{AcademicYear: 2024})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Skipped)
	require.Equal(t, 0, summary.Updated)

	var stored models.Student
	require.NoError(t, db.First(&stored, id).Error)
	require.Equal(t, classIDs[academic.ClassMiddle], stored.ClassID)
}

func TestPromoteRejectsInvalidYear(t *testing.T) {
	db := openServiceTestDB(t, "promotion_invalid")
	seedCanonicalClasses(t, db)
	service, _ := setupPromotionService(t, db)

	_, err := service.Promote(context.Background(), ActivityActor{}, dto.PromotionRequest{AcademicYear: 123})
	require.Error(t, err)
}

type failingPlacementRepo struct {
	repository.StudentRepository
	failID uint
}

func (r *failingPlacementRepo) UpdatePlacement(ctx context.Context, id uint, update repository.PlacementUpdate) error {
	if id == r.failID {
		return errors.New("write rejected")
	}
	return r.StudentRepository.UpdatePlacement(ctx, id, update)
}

func TestPromoteContinuesPastFailedWrites(t *testing.T) {
	db := openServiceTestDB(t, "promotion_faults")
	classIDs := seedCanonicalClasses(t, db)

	dob := dateAt(2014, time.May, 1)
	failingID := seedStudent(t, db, "Unlucky", &dob, classIDs[academic.ClassJuniorElementary], models.StudentStatusActive)
	okID := seedStudent(t, db, "Lucky", &dob, classIDs[academic.ClassJuniorElementary], models.StudentStatusActive)

	students := &failingPlacementRepo{
		StudentRepository: repository.NewStudentRepository(db),
		failID:            failingID,
	}
	classes := repository.NewClassRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())
	service := NewPromotionService(students, classes, validate, nil, zerolog.Nop())

	summary, err := service.Promote(context.Background(), ActivityActor{}, dto.PromotionRequest{AcademicYear: 2024})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Updated)
	require.Equal(t, 1, summary.Skipped)

	var moved models.Student
	require.NoError(t, db.First(&moved, okID).Error)
	require.Equal(t, classIDs[academic.ClassSeniorElementary], moved.ClassID)
}

// dateOfYearsAgoAt returns a birthday that makes a person exactly the given
// age on September 1 of the reference year.
func dateOfYearsAgoAt(referenceYear, age int) time.Time {
	return time.Date(referenceYear-age, time.January, 1, 0, 0, 0, 0, time.UTC)
}

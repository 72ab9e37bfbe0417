package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shipai-tjc/logbook-api/internal/models"
)

func openRepoTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Class{},
		&models.Student{},
		&models.Teacher{},
		&models.ClassSession{},
		&models.StudentAttendance{},
		&models.TeacherAttendance{},
		&models.TeacherClassAssignment{},
		&models.ActivityLog{},
	))
	return db
}

package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shipai-tjc/logbook-api/internal/academic"
	"github.com/shipai-tjc/logbook-api/internal/dto"
	"github.com/shipai-tjc/logbook-api/internal/models"
	"github.com/shipai-tjc/logbook-api/internal/repository"
)

// ErrStatsStudentNotFound indicates the student was not located.
var ErrStatsStudentNotFound = errors.New("student not found")

// StatisticsService derives attendance statistics for students, classes and
// the whole school. All derivations are read-only.
type StatisticsService interface {
	StudentStats(ctx context.Context, studentID uint) (dto.StudentStatsResponse, error)
	ClassStats(ctx context.Context, classID uint, academicYear int) (dto.ClassStatsResponse, error)
	SchoolStats(ctx context.Context) (dto.SchoolStatsResponse, error)
}

type statisticsService struct {
	students   repository.StudentRepository
	teachers   repository.TeacherRepository
	classes    repository.ClassRepository
	sessions   repository.SessionRepository
	attendance repository.AttendanceRepository
	logger     zerolog.Logger
	now        func() time.Time
}

// NewStatisticsService constructs the statistics service.
func NewStatisticsService(
	students repository.StudentRepository,
	teachers repository.TeacherRepository,
	classes repository.ClassRepository,
	sessions repository.SessionRepository,
	attendance repository.AttendanceRepository,
	logger zerolog.Logger,
) StatisticsService {
	return &statisticsService{
		students:   students,
		teachers:   teachers,
		classes:    classes,
		sessions:   sessions,
		attendance: attendance,
		logger:     logger.With().Str("component", "statistics_service").Logger(),
		now:        time.Now,
	}
}

func (s *statisticsService) StudentStats(ctx context.Context, studentID uint) (dto.StudentStatsResponse, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentStatsResponse{}, ErrStatsStudentNotFound
		}
		return dto.StudentStatsResponse{}, err
	}

	records, err := s.attendance.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentStatsResponse{}, err
	}

	observations := observationsFromStudentRecords(records)
	aggregated := AggregateByYearAndClass(observations)

	manual := []models.ManualHistoryEntry(student.ManualHistory)

	return dto.StudentStatsResponse{
		Summary:           SummarizeAttendance(observations),
		AggregatedHistory: aggregated,
		ManualHistory:     manual,
		HistoryGrid:       BuildHistoryGrid(student.DOB, manual, aggregated),
	}, nil
}

func (s *statisticsService) ClassStats(ctx context.Context, classID uint, academicYear int) (dto.ClassStatsResponse, error) {
	start, end := academic.YearBounds(academicYear)

	sessions, err := s.sessions.ListWithAttendance(ctx, repository.SessionFilter{
		ClassID: classID,
		From:    start,
		To:      end,
	})
	if err != nil {
		return dto.ClassStatsResponse{}, err
	}

	stats := dto.ClassStatsResponse{AcademicYear: academicYear}
	var totalAttendees int
	for _, session := range sessions {
		// Cancelled sessions are records but contribute nothing.
		if session.IsCancelled {
			continue
		}

		stats.TotalSessions++
		stats.TotalOffering += session.OfferingAmount
		for _, record := range session.StudentAttendance {
			if record.Status == models.AttendanceStatusPresent || record.Status == models.AttendanceStatusLate {
				totalAttendees++
			}
		}
	}

	if stats.TotalSessions > 0 {
		stats.AvgAttendance = math.Round(float64(totalAttendees)/float64(stats.TotalSessions)*10) / 10
		stats.AvgOffering = math.Round(stats.TotalOffering / float64(stats.TotalSessions))
	}
	return stats, nil
}

func (s *statisticsService) SchoolStats(ctx context.Context) (dto.SchoolStatsResponse, error) {
	currentYear := academic.CurrentYear(s.now())

	activeStudents, err := s.students.CountActive(ctx)
	if err != nil {
		return dto.SchoolStatsResponse{}, err
	}

	activeTeachers, err := s.teachers.CountActive(ctx)
	if err != nil {
		return dto.SchoolStatsResponse{}, err
	}

	sessionsThisYear, err := s.sessions.CountSince(ctx, academic.YearStart(currentYear))
	if err != nil {
		return dto.SchoolStatsResponse{}, err
	}

	classes, err := s.classes.List(ctx)
	if err != nil {
		return dto.SchoolStatsResponse{}, err
	}

	countsByClass, err := s.students.CountActiveByClass(ctx)
	if err != nil {
		return dto.SchoolStatsResponse{}, err
	}

	breakdown := make([]dto.ClassBreakdownEntry, 0, len(classes))
	for _, class := range classes {
		breakdown = append(breakdown, dto.ClassBreakdownEntry{
			ID:           class.ID,
			Name:         class.Name,
			StudentCount: countsByClass[class.ID],
		})
	}

	return dto.SchoolStatsResponse{
		CurrentYear:      currentYear,
		ActiveStudents:   int(activeStudents),
		ActiveTeachers:   int(activeTeachers),
		SessionsThisYear: int(sessionsThisYear),
		ClassBreakdown:   breakdown,
	}, nil
}

// normalizeManualHistory coerces legacy fractional percentages onto the
// 0-100 scale. It runs exactly once, when manual history is written; read
// paths trust the stored values so that sub-1% entries survive round trips.
func normalizeManualHistory(entries []models.ManualHistoryEntry) []models.ManualHistoryEntry {
	normalized := make([]models.ManualHistoryEntry, 0, len(entries))
	for _, entry := range entries {
		entry.Percentage = NormalizePercentage(entry.Percentage)
		normalized = append(normalized, entry)
	}
	return normalized
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shipai-tjc/logbook-api/internal/academic"
	"github.com/shipai-tjc/logbook-api/internal/dto"
	"github.com/shipai-tjc/logbook-api/internal/models"
	"github.com/shipai-tjc/logbook-api/internal/repository"
)

// ErrInvalidQuarter indicates a quarter outside 1..4.
var ErrInvalidQuarter = errors.New("quarter must be between 1 and 4")

// ReportNoDataSentinel is rendered for a per-class percentage that cannot
// be computed. It is a string by design: "no enrolled students" must stay
// distinguishable from an actual zero percent.
const ReportNoDataSentinel = "N/A"

// ReportService assembles the quarterly attendance-and-offering report.
type ReportService interface {
	QuarterlyReport(ctx context.Context, academicYear, quarter int) (dto.QuarterlyReportResponse, error)
}

type reportService struct {
	classes     repository.ClassRepository
	sessions    repository.SessionRepository
	students    repository.StudentRepository
	assignments repository.AssignmentRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewReportService constructs the quarterly report builder.
func NewReportService(
	classes repository.ClassRepository,
	sessions repository.SessionRepository,
	students repository.StudentRepository,
	assignments repository.AssignmentRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) ReportService {
	return &reportService{
		classes:     classes,
		sessions:    sessions,
		students:    students,
		assignments: assignments,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger.With().Str("component", "report_service").Logger(),
	}
}

func (s *reportService) QuarterlyReport(ctx context.Context, academicYear, quarter int) (dto.QuarterlyReportResponse, error) {
	tracer := otel.Tracer("github.com/shipai-tjc/logbook-api/internal/service/report")
	ctx, span := tracer.Start(ctx, "report.quarterly", trace.WithAttributes(
		attribute.Int("report.academic_year", academicYear),
		attribute.Int("report.quarter", quarter),
	))
	defer span.End()

	if quarter < 1 || quarter > 4 {
		span.RecordError(ErrInvalidQuarter)
		span.SetStatus(codes.Error, "invalid_quarter")
		return dto.QuarterlyReportResponse{}, ErrInvalidQuarter
	}

	cacheKey := fmt.Sprintf("report:quarterly:%d:%d", academicYear, quarter)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.QuarterlyReportResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("cache_key", cacheKey).Msg("quarterly report cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read report cache")
		}
	}

	response, err := s.build(ctx, academicYear, quarter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "report_build_failed")
		return dto.QuarterlyReportResponse{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store report cache")
			}
		}
	}
	return response, nil
}

func (s *reportService) build(ctx context.Context, academicYear, quarter int) (dto.QuarterlyReportResponse, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return dto.QuarterlyReportResponse{}, err
	}

	students, err := s.students.List(ctx, repository.StudentFilter{})
	if err != nil {
		return dto.QuarterlyReportResponse{}, err
	}
	studentTypes := make(map[uint]string, len(students))
	for _, student := range students {
		studentTypes[student.ID] = student.StudentType
	}

	yearStart, yearEnd := academic.YearBounds(academicYear)
	yearSessions, err := s.sessions.ListWithAttendance(ctx, repository.SessionFilter{From: yearStart, To: yearEnd})
	if err != nil {
		return dto.QuarterlyReportResponse{}, err
	}

	// The assignment table keys academic years as 4-digit strings; this is
	// the single point where the internal int form is converted.
	teacherCounts, err := s.assignments.CountByClassForYear(ctx, strconv.Itoa(academicYear))
	if err != nil {
		return dto.QuarterlyReportResponse{}, err
	}

	response := dto.QuarterlyReportResponse{
		AcademicYear: academicYear,
		ROCYear:      academic.GregorianToROC(academicYear),
		Quarter:      quarter,
		ClassNames:   make(map[uint]string, len(classes)),
		Enrolled:     make(map[uint]dto.EnrolledCounts, len(classes)),
		Totals:       make(map[uint]dto.ClassTotals, len(classes)),
		Averages:     make(map[uint]dto.ClassAverages, len(classes)),
		Percentages:  make(map[uint]string, len(classes)),
	}

	for _, class := range classes {
		response.ClassOrder = append(response.ClassOrder, class.ID)
		response.ClassNames[class.ID] = class.Name
		response.Enrolled[class.ID] = s.enrolledCounts(class.ID, yearSessions, studentTypes, teacherCounts)
	}

	// Index the year's sessions by (date, class) for the weekly lookup.
	sessionsByDateClass := make(map[string]models.ClassSession)
	for _, session := range yearSessions {
		key := academic.FormatDate(session.Date) + "#" + strconv.FormatUint(uint64(session.ClassID), 10)
		sessionsByDateClass[key] = session
	}

	saturdays := academic.SaturdaysInQuarter(academicYear, quarter)
	for _, saturday := range saturdays {
		row := dto.WeeklyRow{
			Month: int(saturday.Month()),
			Day:   saturday.Day(),
			Date:  academic.FormatDate(saturday),
			Cells: make(map[uint]dto.WeeklyClassCell, len(classes)),
		}

		for _, class := range classes {
			key := row.Date + "#" + strconv.FormatUint(uint64(class.ID), 10)
			session, found := sessionsByDateClass[key]
			if !found {
				// No session at all: "no data", not zero attendance.
				row.Cells[class.ID] = dto.WeeklyClassCell{NoRecord: true}
				continue
			}

			if session.IsCancelled {
				row.Cells[class.ID] = dto.WeeklyClassCell{
					IsCancelled:        true,
					CancellationReason: session.CancellationReason,
				}
				continue
			}

			row.Cells[class.ID] = s.weeklyCell(session, studentTypes)
		}

		response.Weeks = append(response.Weeks, row)
	}

	for _, class := range classes {
		totals := dto.ClassTotals{}
		teachingDays := 0
		for _, week := range response.Weeks {
			cell := week.Cells[class.ID]
			if !cell.IsCancelled && !cell.NoRecord {
				teachingDays++
			}
			// Cancelled and no-record cells hold zeros, so summing every
			// week is safe.
			totals.Members += cell.Members
			totals.Seekers += cell.Seekers
			totals.Auditors += cell.Auditors
			totals.Teachers += cell.Teachers
			totals.Offering += cell.Offering
		}
		response.Totals[class.ID] = totals

		divisor := float64(teachingDays)
		if teachingDays == 0 {
			divisor = 1
		}
		averages := dto.ClassAverages{
			Members:  roundTo(float64(totals.Members)/divisor, 1),
			Seekers:  roundTo(float64(totals.Seekers)/divisor, 1),
			Auditors: roundTo(float64(totals.Auditors)/divisor, 1),
			Teachers: roundTo(float64(totals.Teachers)/divisor, 1),
			Offering: roundTo(totals.Offering/divisor, 2),
		}
		response.Averages[class.ID] = averages

		enrolled := response.Enrolled[class.ID]
		totalEnrolled := enrolled.Members + enrolled.Seekers
		if totalEnrolled > 0 {
			percentage := int(math.Round((averages.Members + averages.Seekers) / float64(totalEnrolled) * 100))
			response.Percentages[class.ID] = strconv.Itoa(percentage) + "%"
		} else {
			response.Percentages[class.ID] = ReportNoDataSentinel
		}
	}

	return response, nil
}

// enrolledCounts counts distinct students with at least one attendance
// record for the class inside the academic year window, split by category,
// plus the teachers assigned for that year.
func (s *reportService) enrolledCounts(classID uint, yearSessions []models.ClassSession, studentTypes map[uint]string, teacherCounts map[uint]int) dto.EnrolledCounts {
	seen := make(map[uint]struct{})
	counts := dto.EnrolledCounts{Teachers: teacherCounts[classID]}

	for _, session := range yearSessions {
		if session.ClassID != classID {
			continue
		}
		for _, record := range session.StudentAttendance {
			if _, ok := seen[record.StudentID]; ok {
				continue
			}
			seen[record.StudentID] = struct{}{}

			switch studentTypes[record.StudentID] {
			case models.StudentTypeSeeker:
				counts.Seekers++
			default:
				counts.Members++
			}
		}
	}
	return counts
}

// weeklyCell computes one active session's numbers. Present and late both
// count as attending.
func (s *reportService) weeklyCell(session models.ClassSession, studentTypes map[uint]string) dto.WeeklyClassCell {
	cell := dto.WeeklyClassCell{
		Auditors: session.AuditorCount,
		Offering: session.OfferingAmount,
	}

	seen := make(map[uint]struct{})
	for _, record := range session.StudentAttendance {
		if record.Status != models.AttendanceStatusPresent && record.Status != models.AttendanceStatusLate {
			continue
		}
		if _, ok := seen[record.StudentID]; ok {
			continue
		}
		seen[record.StudentID] = struct{}{}

		switch studentTypes[record.StudentID] {
		case models.StudentTypeSeeker:
			cell.Seekers++
		default:
			cell.Members++
		}
	}

	for _, record := range session.TeacherAttendance {
		if record.Status == models.AttendanceStatusPresent || record.Status == models.AttendanceStatusLate {
			cell.Teachers++
		}
	}
	return cell
}

func roundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}

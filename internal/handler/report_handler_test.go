package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/shipai-tjc/logbook-api/internal/dto"
	"github.com/shipai-tjc/logbook-api/internal/handler"
	"github.com/shipai-tjc/logbook-api/internal/service"
)

type mockReportService struct {
	lastYear    int
	lastQuarter int
	response    dto.QuarterlyReportResponse
	err         error
}

func (m *mockReportService) QuarterlyReport(_ context.Context, academicYear, quarter int) (dto.QuarterlyReportResponse, error) {
	m.lastYear = academicYear
	m.lastQuarter = quarter
	if m.err != nil {
		return dto.QuarterlyReportResponse{}, m.err
	}
	return m.response, nil
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(body, target))
}

func TestReportHandler_QuarterlySuccess(t *testing.T) {
	svc := &mockReportService{response: dto.QuarterlyReportResponse{
		AcademicYear: 2024,
		ROCYear:      113,
		Quarter:      1,
		Percentages:  map[uint]string{3: "85%", 4: "N/A"},
	}}
	app := fiber.New()
	handler.NewReportHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/reports"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/quarterly?academic_year=2024&quarter=1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                        `json:"success"`
		Data    dto.QuarterlyReportResponse `json:"data"`
		Message string                      `json:"message"`
	}
	decodeResponse(t, resp, &body)

	require.True(t, body.Success)
	require.Equal(t, 2024, body.Data.AcademicYear)
	require.Equal(t, "85%", body.Data.Percentages[3])
	require.Equal(t, "N/A", body.Data.Percentages[4])
	require.Equal(t, 2024, svc.lastYear)
	require.Equal(t, 1, svc.lastQuarter)
}

func TestReportHandler_InvalidQuarter(t *testing.T) {
	svc := &mockReportService{err: service.ErrInvalidQuarter}
	app := fiber.New()
	handler.NewReportHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/reports"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/quarterly?academic_year=2024&quarter=9", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestReportHandler_InvalidYearQuery(t *testing.T) {
	svc := &mockReportService{}
	app := fiber.New()
	handler.NewReportHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/reports"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/quarterly?academic_year=oops", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestReportHandler_ServiceError(t *testing.T) {
	svc := &mockReportService{err: errors.New("boom")}
	app := fiber.New()
	handler.NewReportHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/reports"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/quarterly?academic_year=2024&quarter=1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

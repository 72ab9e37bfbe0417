package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/shipai-tjc/logbook-api/internal/dto"
	"github.com/shipai-tjc/logbook-api/internal/handler"
)

type stubReportService struct {
	response dto.QuarterlyReportResponse
}

func (s stubReportService) QuarterlyReport(context.Context, int, int) (dto.QuarterlyReportResponse, error) {
	return s.response, nil
}

func TestQuarterlyReportContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "quarterly_report.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	response := dto.QuarterlyReportResponse{
		AcademicYear: 2024,
		ROCYear:      113,
		Quarter:      1,
		ClassOrder:   []uint{1, 2},
		ClassNames:   map[uint]string{1: "nursery", 2: "junior-elementary"},
		Enrolled: map[uint]dto.EnrolledCounts{
			1: {Members: 8, Seekers: 2, Teachers: 3},
			2: {Members: 12, Seekers: 0, Teachers: 2},
		},
		Weeks: []dto.WeeklyRow{
			{
				Month: 9,
				Day:   7,
				Date:  "2024-09-07",
				Cells: map[uint]dto.WeeklyClassCell{
					1: {Members: 7, Seekers: 1, Auditors: 2, Teachers: 3, Offering: 350.5},
					2: {NoRecord: true},
				},
			},
			{
				Month: 9,
				Day:   14,
				Date:  "2024-09-14",
				Cells: map[uint]dto.WeeklyClassCell{
					1: {IsCancelled: true, CancellationReason: "typhoon day"},
					2: {Members: 11, Teachers: 2, Offering: 200},
				},
			},
		},
		Totals: map[uint]dto.ClassTotals{
			1: {Members: 7, Seekers: 1, Auditors: 2, Teachers: 3, Offering: 350.5},
			2: {Members: 11, Teachers: 2, Offering: 200},
		},
		Averages: map[uint]dto.ClassAverages{
			1: {Members: 7, Seekers: 1, Auditors: 2, Teachers: 3, Offering: 350.5},
			2: {Members: 11, Teachers: 2, Offering: 200},
		},
		Percentages: map[uint]string{1: "80%", 2: "N/A"},
	}

	app := fiber.New()
	handler.NewReportHandler(stubReportService{response: response}, zerolog.Nop()).Register(app.Group("/api/v1/reports"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/quarterly?academic_year=2024&quarter=1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}

package service

import (
	"sort"
	"time"

	"github.com/shipai-tjc/logbook-api/internal/academic"
	"github.com/shipai-tjc/logbook-api/internal/dto"
	"github.com/shipai-tjc/logbook-api/internal/models"
)

// Row labels of the fixed-size history grid on the student detail card.
const (
	RowPreschool = "pre-school"
	RowYear1     = "Year 1"
	RowYear2     = "Year 2"
	RowYear3     = "Year 3"
)

// HistoryRowLabels lists the grid rows top to bottom.
var HistoryRowLabels = []string{RowPreschool, RowYear1, RowYear2, RowYear3}

var sequentialRows = []string{RowYear1, RowYear2, RowYear3}

type gridKey struct {
	row       string
	className string
}

// computedHistoryGrid places the aggregated per-year entries onto the fixed
// grid. For the nursery cohort the row is keyed by age at the year's Sept 1
// boundary: three or younger lands on the pre-school row, four on Year 1,
// five on Year 2, with an ordinal fallback for out-of-band ages. Every other
// class maps its Nth attended year to Year N. Entries past the third year
// are not placed; the grid is a fixed-size report, not an unbounded history.
func computedHistoryGrid(dob *time.Time, entries []dto.AggregatedHistoryEntry) map[gridKey]float64 {
	byClass := make(map[string][]dto.AggregatedHistoryEntry)
	for _, entry := range entries {
		byClass[entry.ClassName] = append(byClass[entry.ClassName], entry)
	}

	grid := make(map[gridKey]float64)
	for className, classEntries := range byClass {
		sort.Slice(classEntries, func(i, j int) bool {
			return classEntries[i].AcademicYear < classEntries[j].AcademicYear
		})

		for index, entry := range classEntries {
			row := ""

			if className == academic.ClassNursery && dob != nil {
				age := academic.AgeOn(*dob, academic.YearStart(entry.AcademicYear))
				switch {
				case age <= 3:
					row = RowPreschool
				case age == 4:
					row = RowYear1
				case age == 5:
					row = RowYear2
				default:
					if index < len(sequentialRows) {
						row = sequentialRows[index]
					} else {
						row = RowYear3
					}
				}
			} else if index < len(sequentialRows) {
				row = sequentialRows[index]
			}

			if row != "" {
				grid[gridKey{row, className}] = float64(entry.Percentage)
			}
		}
	}
	return grid
}

// cellValue reconciles one grid cell: a manual entry wins over the computed
// value, and a cell with neither stays nil. Absence of data must never be
// conflated with a 0% attendance record. Stored manual percentages are
// already on the 0-100 scale; rescaling here would corrupt legitimate
// sub-1% values.
func cellValue(row, className string, manual []models.ManualHistoryEntry, computed map[gridKey]float64) (*float64, bool) {
	for _, entry := range manual {
		if entry.RowLabel == row && entry.ClassName == className {
			value := entry.Percentage
			return &value, true
		}
	}

	if value, ok := computed[gridKey{row, className}]; ok {
		return &value, false
	}
	return nil, false
}

// BuildHistoryGrid merges computed aggregates with manual overrides into the
// fixed row/class grid rendered on the student detail card.
func BuildHistoryGrid(dob *time.Time, manual []models.ManualHistoryEntry, entries []dto.AggregatedHistoryEntry) []dto.HistoryCell {
	computed := computedHistoryGrid(dob, entries)

	cells := make([]dto.HistoryCell, 0, len(HistoryRowLabels)*len(academic.ClassOrder))
	for _, row := range HistoryRowLabels {
		for _, className := range academic.ClassOrder {
			value, isManual := cellValue(row, className, manual, computed)
			cells = append(cells, dto.HistoryCell{
				RowLabel:  row,
				ClassName: className,
				Value:     value,
				Manual:    isManual,
			})
		}
	}
	return cells
}

package dto

// PromotionRequest triggers a promotion pass for one reference academic
// year (the Gregorian year the cycle starts in).
type PromotionRequest struct {
	AcademicYear int `json:"academic_year" validate:"required,min=1990,max=2100"`
}

// PromotionSummary reports the outcome of a promotion pass. The pass is
// best-effort: failures are counted, never raised.
type PromotionSummary struct {
	AcademicYear int `json:"academic_year"`
	Updated      int `json:"updated"`
	Graduated    int `json:"graduated"`
	Skipped      int `json:"skipped"`
}

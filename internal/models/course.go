package models

// CourseOffering is an immutable catalog entry. Fees are whole rupees.
type CourseOffering struct {
	ID            string `db:"id" json:"id"`
	Title         string `db:"title" json:"title"`
	Duration      string `db:"duration" json:"duration"`
	Certification string `db:"certification" json:"certification"`
	Fee           int64  `db:"fee" json:"fee"`
	OriginalFee   *int64 `db:"original_fee" json:"original_fee,omitempty"`
	Description   string `db:"description" json:"description"`
}

// OrderSummary is the derived price breakdown of a selected course.
type OrderSummary struct {
	CourseID     string `json:"course_id"`
	CourseTitle  string `json:"course_title"`
	Fee          int64  `json:"fee"`
	OriginalFee  *int64 `json:"original_fee,omitempty"`
	Discount     *int64 `json:"discount,omitempty"`
	TaxRateBasis int64  `json:"tax_rate_bps"`
	Tax          int64  `json:"tax"`
	Total        int64  `json:"total"`
}

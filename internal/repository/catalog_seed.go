package repository

import "github.com/noah-isme/dsa-enrollment-api/internal/models"

func fee(v int64) *int64 { return &v }

// seedCourses is the authoritative catalog. Fees are the checkout prices; OriginalFee carries the
// list price shown on the home page where one existed.
var seedCourses = []models.CourseOffering{
	{
		ID:            "iso",
		Title:         "Industrial Safety Officer",
		Duration:      "6 Months",
		Certification: "NEBOSH Certified",
		Fee:           35000,
		OriginalFee:   fee(45000),
		Description:   "Comprehensive safety training for industrial environments with international certification.",
	},
	{
		ID:            "fss",
		Title:         "Fire Safety Specialist",
		Duration:      "3 Months",
		Certification: "NFPA Certified",
		Fee:           20000,
		OriginalFee:   fee(25000),
		Description:   "Fire prevention, evacuation procedures, and emergency response training.",
	},
	{
		ID:            "cs",
		Title:         "Construction Safety",
		Duration:      "4 Months",
		Certification: "OSHA Certified",
		Fee:           28000,
		OriginalFee:   fee(35000),
		Description:   "Construction site safety management and hazard prevention.",
	},
	{
		ID:            "es",
		Title:         "Environmental Safety",
		Duration:      "5 Months",
		Certification: "ISO 14001",
		Fee:           32000,
		OriginalFee:   fee(40000),
		Description:   "Environmental safety management and compliance training.",
	},
	{
		ID:            "wsm",
		Title:         "Workplace Safety Management",
		Duration:      "4 Months",
		Certification: "OSHA Certified",
		Fee:           30000,
		Description:   "Workplace hazard identification, risk assessment and safety management systems.",
	},
	{
		ID:            "sai",
		Title:         "Safety Audit & Inspection",
		Duration:      "3 Months",
		Certification: "NEBOSH Certified",
		Fee:           25000,
		Description:   "Planning and conducting safety audits and site inspections with corrective action follow-up.",
	},
}

var seedSchedule = []models.ScheduleEntry{
	{ID: "1", Course: "Industrial Safety Officer", CourseID: "iso", Batch: "ISO-2025-01", StartDate: "2025-02-01", EndDate: "2025-07-31", Time: "9:00 AM - 12:00 PM", Duration: "6 Months", Instructor: "Dr. Rajesh Kumar", Location: "Main Campus - Room A1", AvailableSeats: 5, TotalSeats: 25, Fee: 35000, Status: models.ScheduleStatusUpcoming},
	{ID: "2", Course: "Fire Safety Specialist", CourseID: "fss", Batch: "FSS-2025-01", StartDate: "2025-01-15", EndDate: "2025-04-15", Time: "2:00 PM - 5:00 PM", Duration: "3 Months", Instructor: "Priya Sharma", Location: "Fire Lab - Building B", AvailableSeats: 8, TotalSeats: 20, Fee: 20000, Status: models.ScheduleStatusOngoing},
	{ID: "3", Course: "Construction Safety", CourseID: "cs", Batch: "CS-2025-01", StartDate: "2025-02-15", EndDate: "2025-06-15", Time: "10:00 AM - 1:00 PM", Duration: "4 Months", Instructor: "Amit Singh", Location: "Practical Training Area", AvailableSeats: 12, TotalSeats: 30, Fee: 28000, Status: models.ScheduleStatusUpcoming},
	{ID: "4", Course: "Environmental Safety", CourseID: "es", Batch: "ES-2025-01", StartDate: "2025-03-01", EndDate: "2025-07-31", Time: "9:00 AM - 12:00 PM", Duration: "5 Months", Instructor: "Sunita Verma", Location: "Main Campus - Room B2", AvailableSeats: 15, TotalSeats: 25, Fee: 32000, Status: models.ScheduleStatusUpcoming},
	{ID: "5", Course: "Workplace Safety Management", CourseID: "wsm", Batch: "WSM-2025-01", StartDate: "2025-01-20", EndDate: "2025-05-20", Time: "6:00 PM - 9:00 PM", Duration: "4 Months", Instructor: "Dr. Rajesh Kumar", Location: "Main Campus - Room A2", AvailableSeats: 3, TotalSeats: 20, Fee: 30000, Status: models.ScheduleStatusOngoing},
	{ID: "6", Course: "Safety Audit & Inspection", CourseID: "sai", Batch: "SAI-2025-01", StartDate: "2025-02-10", EndDate: "2025-05-10", Time: "11:00 AM - 2:00 PM", Duration: "3 Months", Instructor: "Amit Singh", Location: "Main Campus - Room C1", AvailableSeats: 18, TotalSeats: 25, Fee: 25000, Status: models.ScheduleStatusUpcoming},
	{ID: "7", Course: "Industrial Safety Officer", CourseID: "iso", Batch: "ISO-2025-02", StartDate: "2025-03-15", EndDate: "2025-09-15", Time: "2:00 PM - 5:00 PM", Duration: "6 Months", Instructor: "Priya Sharma", Location: "Main Campus - Room A1", AvailableSeats: 20, TotalSeats: 25, Fee: 35000, Status: models.ScheduleStatusUpcoming},
	{ID: "8", Course: "Fire Safety Specialist", CourseID: "fss", Batch: "FSS-2024-04", StartDate: "2024-10-15", EndDate: "2025-01-15", Time: "9:00 AM - 12:00 PM", Duration: "3 Months", Instructor: "Sunita Verma", Location: "Fire Lab - Building B", AvailableSeats: 0, TotalSeats: 20, Fee: 20000, Status: models.ScheduleStatusCompleted},
}

package models

// Application form field names.
const (
	FieldFirstName        = "firstName"
	FieldLastName         = "lastName"
	FieldDateOfBirth      = "dateOfBirth"
	FieldGender           = "gender"
	FieldEmail            = "email"
	FieldPhone            = "phone"
	FieldAddress          = "address"
	FieldCity             = "city"
	FieldState            = "state"
	FieldPincode          = "pincode"
	FieldQualification    = "qualification"
	FieldExperience       = "experience"
	FieldCourse           = "course"
	FieldBatch            = "batch"
	FieldPreferredTime    = "preferredTime"
	FieldEmergencyContact = "emergencyContact"
	FieldEmergencyPhone   = "emergencyPhone"
	FieldAdditionalInfo   = "additionalInfo"
)

// ApplicantRecord holds the values of the course application form.
type ApplicantRecord struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	DateOfBirth      string `json:"dateOfBirth"`
	Gender           string `json:"gender"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	City             string `json:"city"`
	State            string `json:"state"`
	Pincode          string `json:"pincode"`
	Qualification    string `json:"qualification"`
	Experience       string `json:"experience"`
	Course           string `json:"course"`
	Batch            string `json:"batch"`
	PreferredTime    string `json:"preferredTime"`
	EmergencyContact string `json:"emergencyContact"`
	EmergencyPhone   string `json:"emergencyPhone"`
	AdditionalInfo   string `json:"additionalInfo"`
}

// Option is a value/label pair of an enumerated form field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ApplicationCourses lists the courses an applicant can choose.
var ApplicationCourses = []Option{
	{Value: "Industrial Safety Officer", Label: "Industrial Safety Officer"},
	{Value: "Fire Safety Specialist", Label: "Fire Safety Specialist"},
	{Value: "Construction Safety", Label: "Construction Safety"},
	{Value: "Environmental Safety", Label: "Environmental Safety"},
	{Value: "Workplace Safety Management", Label: "Workplace Safety Management"},
	{Value: "Safety Audit & Inspection", Label: "Safety Audit & Inspection"},
}

// ApplicationBatches lists the batch slots.
var ApplicationBatches = []Option{
	{Value: "morning", Label: "Morning Batch (9:00 AM - 12:00 PM)"},
	{Value: "afternoon", Label: "Afternoon Batch (1:00 PM - 4:00 PM)"},
	{Value: "evening", Label: "Evening Batch (5:00 PM - 8:00 PM)"},
	{Value: "weekend", Label: "Weekend Batch (Saturday & Sunday)"},
}

// ApplicationGenders lists the gender choices.
var ApplicationGenders = []Option{
	{Value: "male", Label: "Male"},
	{Value: "female", Label: "Female"},
	{Value: "other", Label: "Other"},
}

// ApplicationStartTimes lists the preferred start-time categories.
var ApplicationStartTimes = []Option{
	{Value: "immediate", Label: "Immediate"},
	{Value: "next-month", Label: "Next Month"},
	{Value: "next-quarter", Label: "Next Quarter"},
}

// ApplicationOptions groups the enumerations for clients rendering the form.
type ApplicationOptions struct {
	Courses        []Option `json:"courses"`
	Batches        []Option `json:"batches"`
	Genders        []Option `json:"genders"`
	PreferredTimes []Option `json:"preferred_times"`
}

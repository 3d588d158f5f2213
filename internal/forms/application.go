package forms

import (
	"fmt"
	"time"

	"github.com/noah-isme/dsa-enrollment-api/internal/models"
)

var applicationFields = map[string]func(*models.ApplicantRecord) *string{
	models.FieldFirstName:        func(r *models.ApplicantRecord) *string { return &r.FirstName },
	models.FieldLastName:         func(r *models.ApplicantRecord) *string { return &r.LastName },
	models.FieldDateOfBirth:      func(r *models.ApplicantRecord) *string { return &r.DateOfBirth },
	models.FieldGender:           func(r *models.ApplicantRecord) *string { return &r.Gender },
	models.FieldEmail:            func(r *models.ApplicantRecord) *string { return &r.Email },
	models.FieldPhone:            func(r *models.ApplicantRecord) *string { return &r.Phone },
	models.FieldAddress:          func(r *models.ApplicantRecord) *string { return &r.Address },
	models.FieldCity:             func(r *models.ApplicantRecord) *string { return &r.City },
	models.FieldState:            func(r *models.ApplicantRecord) *string { return &r.State },
	models.FieldPincode:          func(r *models.ApplicantRecord) *string { return &r.Pincode },
	models.FieldQualification:    func(r *models.ApplicantRecord) *string { return &r.Qualification },
	models.FieldExperience:       func(r *models.ApplicantRecord) *string { return &r.Experience },
	models.FieldCourse:           func(r *models.ApplicantRecord) *string { return &r.Course },
	models.FieldBatch:            func(r *models.ApplicantRecord) *string { return &r.Batch },
	models.FieldPreferredTime:    func(r *models.ApplicantRecord) *string { return &r.PreferredTime },
	models.FieldEmergencyContact: func(r *models.ApplicantRecord) *string { return &r.EmergencyContact },
	models.FieldEmergencyPhone:   func(r *models.ApplicantRecord) *string { return &r.EmergencyPhone },
	models.FieldAdditionalInfo:   func(r *models.ApplicantRecord) *string { return &r.AdditionalInfo },
}

// ApplicationFieldOrder is the order in which application fields are validated.
var ApplicationFieldOrder = []string{
	models.FieldFirstName,
	models.FieldLastName,
	models.FieldEmail,
	models.FieldPhone,
	models.FieldAddress,
	models.FieldCity,
	models.FieldState,
	models.FieldPincode,
	models.FieldDateOfBirth,
	models.FieldGender,
	models.FieldQualification,
	models.FieldCourse,
	models.FieldBatch,
	models.FieldEmergencyContact,
	models.FieldEmergencyPhone,
	models.FieldPreferredTime,
}

var enumeratedApplicationFields = map[string][]models.Option{
	models.FieldGender:        models.ApplicationGenders,
	models.FieldCourse:        models.ApplicationCourses,
	models.FieldBatch:         models.ApplicationBatches,
	models.FieldPreferredTime: models.ApplicationStartTimes,
}

// Application is the course application form session.
type Application struct {
	ID            string                  `json:"id"`
	Phase         models.FormPhase        `json:"phase"`
	Values        models.ApplicantRecord  `json:"values"`
	Errors        models.ValidationErrors `json:"errors"`
	ApplicationID string                  `json:"application_id,omitempty"`
	SubmittedAt   *time.Time              `json:"submitted_at,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// NewApplication starts an empty form in the editing phase.
func NewApplication(id string, now time.Time) *Application {
	return &Application{
		ID:        id,
		Phase:     models.FormPhaseEditing,
		Errors:    models.ValidationErrors{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetField stores value and drops any recorded error for the field without re-validating it.
func (a *Application) SetField(name, value string, now time.Time) error {
	if a.Phase != models.FormPhaseEditing {
		return ErrNotEditing
	}
	field, ok := applicationFields[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	*field(&a.Values) = value
	delete(a.Errors, name)
	a.UpdatedAt = now
	return nil
}

// Validate recomputes the full error set and records it on the form.
func (a *Application) Validate(now time.Time) (models.ValidationErrors, error) {
	if a.Phase != models.FormPhaseEditing {
		return nil, ErrNotEditing
	}
	a.Errors = ValidateApplicant(a.Values)
	a.UpdatedAt = now
	return a.Errors.Clone(), nil
}

// Submit validates and, when the form is clean, freezes it with an application number.
func (a *Application) Submit(now time.Time) error {
	errs, err := a.Validate(now)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return ErrInvalid
	}
	submittedAt := now
	a.Phase = models.FormPhaseSubmitted
	a.ApplicationID = ApplicationNumber(now)
	a.SubmittedAt = &submittedAt
	return nil
}

// Reset clears every value and returns to editing.
func (a *Application) Reset(now time.Time) {
	a.Phase = models.FormPhaseEditing
	a.Values = models.ApplicantRecord{}
	a.Errors = models.ValidationErrors{}
	a.ApplicationID = ""
	a.SubmittedAt = nil
	a.UpdatedAt = now
}

// ValidateApplicant applies the application rules to r.
func ValidateApplicant(r models.ApplicantRecord) models.ValidationErrors {
	errs := models.ValidationErrors{}
	requireText := func(field, value, msg string) {
		if blank(value) {
			errs[field] = msg
		}
	}

	requireText(models.FieldFirstName, r.FirstName, "First name is required")
	requireText(models.FieldLastName, r.LastName, "Last name is required")
	switch {
	case blank(r.Email):
		errs[models.FieldEmail] = "Email is required"
	case !ValidEmail(r.Email):
		errs[models.FieldEmail] = "Email is invalid"
	}
	switch {
	case blank(r.Phone):
		errs[models.FieldPhone] = "Phone number is required"
	case !ValidPhone(r.Phone):
		errs[models.FieldPhone] = "Phone number must be 10 digits"
	}
	requireText(models.FieldAddress, r.Address, "Address is required")
	requireText(models.FieldCity, r.City, "City is required")
	requireText(models.FieldState, r.State, "State is required")
	requireText(models.FieldPincode, r.Pincode, "Pincode is required")
	requireText(models.FieldDateOfBirth, r.DateOfBirth, "Date of birth is required")
	requireText(models.FieldGender, r.Gender, "Gender is required")
	requireText(models.FieldQualification, r.Qualification, "Qualification is required")
	requireText(models.FieldCourse, r.Course, "Course selection is required")
	requireText(models.FieldBatch, r.Batch, "Batch selection is required")
	requireText(models.FieldEmergencyContact, r.EmergencyContact, "Emergency contact is required")
	requireText(models.FieldEmergencyPhone, r.EmergencyPhone, "Emergency phone is required")

	for field, options := range enumeratedApplicationFields {
		if _, failed := errs[field]; failed {
			continue
		}
		value := *applicationFields[field](&r)
		if value != "" && !hasOption(options, value) {
			errs[field] = "Please choose a valid option"
		}
	}
	return errs
}

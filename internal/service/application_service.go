package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/dsa-enrollment-api/internal/forms"
	"github.com/noah-isme/dsa-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/dsa-enrollment-api/pkg/errors"
	"github.com/noah-isme/dsa-enrollment-api/pkg/export"
)

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ApplicationService drives course application form sessions.
type ApplicationService struct {
	sessions sessionGateway
	locks    *keyedMutex
	pdf      pdfRenderer
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(store SessionRepository, pdf pdfRenderer, metrics *MetricsService, logger *zap.Logger) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter(issuerName)
	}
	return &ApplicationService{
		sessions: sessionGateway{kind: models.FormKindApplication, store: store, metrics: metrics, logger: logger},
		locks:    newKeyedMutex(),
		pdf:      pdf,
		metrics:  metrics,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Create opens an empty application.
func (s *ApplicationService) Create(ctx context.Context) (*forms.Application, error) {
	app := forms.NewApplication(s.newID(), s.now())
	if err := s.sessions.save(ctx, app.ID, app); err != nil {
		return nil, err
	}
	s.logger.Info("application session opened", zap.String("session_id", app.ID))
	return app, nil
}

// Get loads an application.
func (s *ApplicationService) Get(ctx context.Context, id string) (*forms.Application, error) {
	var app forms.Application
	if err := s.sessions.load(ctx, id, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// SetField updates one field, clearing its recorded error.
func (s *ApplicationService) SetField(ctx context.Context, id, field, value string) (*forms.Application, error) {
	return s.mutate(ctx, id, func(app *forms.Application) error {
		return app.SetField(field, value, s.now())
	})
}

// Validate recomputes the error set without submitting.
func (s *ApplicationService) Validate(ctx context.Context, id string) (*forms.Application, error) {
	return s.mutate(ctx, id, func(app *forms.Application) error {
		_, err := app.Validate(s.now())
		return err
	})
}

// Submit validates and freezes the application. An invalid form is saved with its errors and
// returned together with a FORM_INVALID error.
func (s *ApplicationService) Submit(ctx context.Context, id string) (*forms.Application, error) {
	var invalid error
	app, err := s.mutate(ctx, id, func(app *forms.Application) error {
		err := app.Submit(s.now())
		if errors.Is(err, forms.ErrInvalid) {
			s.metrics.RecordSubmission(models.FormKindApplication, app.Errors)
			invalid = invalidForm(app.Errors)
			return nil
		}
		if err == nil {
			s.metrics.RecordSubmission(models.FormKindApplication, nil)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if invalid != nil {
		s.logger.Info("application rejected", zap.String("session_id", id), zap.Int("errors", len(app.Errors)))
		return app, invalid
	}
	s.logger.Info("application submitted", zap.String("session_id", id), zap.String("application_id", app.ApplicationID))
	return app, nil
}

// Reset clears the application for another submission.
func (s *ApplicationService) Reset(ctx context.Context, id string) (*forms.Application, error) {
	return s.mutate(ctx, id, func(app *forms.Application) error {
		app.Reset(s.now())
		return nil
	})
}

// Acknowledgement renders the summary of a submitted application as a PDF.
func (s *ApplicationService) Acknowledgement(ctx context.Context, id string) ([]byte, string, error) {
	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if app.Phase != models.FormPhaseSubmitted {
		return nil, "", appErrors.Clone(appErrors.ErrConflict, "application has not been submitted")
	}
	v := app.Values
	doc := export.Document{
		Title:    "Application Acknowledgement",
		Subtitle: "Application ID: " + app.ApplicationID,
		Sections: []export.Section{
			{Heading: "Applicant", Lines: []export.Line{
				{Label: "Name", Value: v.FirstName + " " + v.LastName},
				{Label: "Date of birth", Value: v.DateOfBirth},
				{Label: "Gender", Value: optionLabel(models.ApplicationGenders, v.Gender)},
				{Label: "Email", Value: v.Email},
				{Label: "Phone", Value: v.Phone},
				{Label: "Address", Value: v.Address + ", " + v.City + ", " + v.State + " - " + v.Pincode},
			}},
			{Heading: "Course", Lines: []export.Line{
				{Label: "Course", Value: v.Course},
				{Label: "Batch", Value: optionLabel(models.ApplicationBatches, v.Batch)},
				{Label: "Preferred start", Value: optionLabel(models.ApplicationStartTimes, v.PreferredTime)},
				{Label: "Qualification", Value: v.Qualification},
				{Label: "Experience", Value: v.Experience},
			}},
			{Heading: "Emergency contact", Lines: []export.Line{
				{Label: "Name", Value: v.EmergencyContact},
				{Label: "Phone", Value: v.EmergencyPhone},
			}},
		},
		Footer: "Thank you for your application. We will review your submission and contact you within 2-3 business days.",
	}
	out, err := s.pdf.Render(doc)
	if err != nil {
		s.logger.Error("render acknowledgement", zap.String("session_id", id), zap.Error(err))
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render acknowledgement")
	}
	return out, app.ApplicationID + ".pdf", nil
}

func (s *ApplicationService) mutate(ctx context.Context, id string, fn func(*forms.Application) error) (*forms.Application, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(app); err != nil {
		return nil, formError(err)
	}
	if err := s.sessions.save(ctx, id, app); err != nil {
		return nil, err
	}
	return app, nil
}

func optionLabel(options []models.Option, value string) string {
	for _, opt := range options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

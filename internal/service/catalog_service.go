package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/dsa-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/dsa-enrollment-api/pkg/errors"
)

type catalogRepository interface {
	ListCourses(ctx context.Context) ([]models.CourseOffering, error)
	FindCourse(ctx context.Context, id string) (*models.CourseOffering, error)
	ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error)
}

// CatalogService exposes the course catalog and its pricing.
type CatalogService struct {
	repo       catalogRepository
	calculator *OrderSummaryCalculator
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(repo catalogRepository, calculator *OrderSummaryCalculator, metrics *MetricsService, logger *zap.Logger) *CatalogService {
	if calculator == nil {
		calculator = NewOrderSummaryCalculator(DefaultTaxRateBasis)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, calculator: calculator, metrics: metrics, logger: logger}
}

// List returns every course.
func (s *CatalogService) List(ctx context.Context) ([]models.CourseOffering, error) {
	start := time.Now()
	courses, err := s.repo.ListCourses(ctx)
	s.metrics.ObserveCatalogQuery("list_courses", time.Since(start))
	if err != nil {
		s.logger.Error("list courses", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Get returns a course by identifier.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.CourseOffering, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}
	start := time.Now()
	course, err := s.repo.FindCourse(ctx, id)
	s.metrics.ObserveCatalogQuery("find_course", time.Since(start))
	if err != nil {
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrNotFound.Code {
			return nil, appErr
		}
		s.logger.Error("find course", zap.String("course_id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// OrderSummary prices the given course.
func (s *CatalogService) OrderSummary(ctx context.Context, id string) (*models.OrderSummary, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := s.calculator.Summarize(*course)
	return &summary, nil
}

// Summarize prices an already loaded course.
func (s *CatalogService) Summarize(course models.CourseOffering) models.OrderSummary {
	return s.calculator.Summarize(course)
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/dsa-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/dsa-enrollment-api/pkg/errors"
)

const featuredCourseCount = 4

type contentRepository interface {
	Navigation(ctx context.Context) (models.Navigation, error)
	Home(ctx context.Context) (models.HomePage, error)
	About(ctx context.Context) (models.AboutPage, error)
	Certification(ctx context.Context) (models.CertificationPage, error)
}

type courseLister interface {
	List(ctx context.Context) ([]models.CourseOffering, error)
}

// ContentService assembles the informational pages.
type ContentService struct {
	repo    contentRepository
	courses courseLister
	logger  *zap.Logger
}

// NewContentService constructs a ContentService.
func NewContentService(repo contentRepository, courses courseLister, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{repo: repo, courses: courses, logger: logger}
}

// Navigation returns the route table and header links.
func (s *ContentService) Navigation(ctx context.Context) (*models.Navigation, error) {
	nav, err := s.repo.Navigation(ctx)
	if err != nil {
		return nil, s.internal("navigation", err)
	}
	return &nav, nil
}

// Home returns the landing page with the featured courses taken from the catalog.
func (s *ContentService) Home(ctx context.Context) (*models.HomePage, error) {
	page, err := s.repo.Home(ctx)
	if err != nil {
		return nil, s.internal("home", err)
	}
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(courses) > featuredCourseCount {
		courses = courses[:featuredCourseCount]
	}
	page.Courses = make([]models.FeaturedCourse, 0, len(courses))
	for _, course := range courses {
		page.Courses = append(page.Courses, models.FeaturedCourse{
			CourseOffering: course,
			ApplyPath:      "/apply",
			PaymentPath:    "/payment?course=" + course.ID,
		})
	}
	return &page, nil
}

// About returns the institute profile.
func (s *ContentService) About(ctx context.Context) (*models.AboutPage, error) {
	page, err := s.repo.About(ctx)
	if err != nil {
		return nil, s.internal("about", err)
	}
	return &page, nil
}

// Certification returns the certification partners.
func (s *ContentService) Certification(ctx context.Context) (*models.CertificationPage, error) {
	page, err := s.repo.Certification(ctx)
	if err != nil {
		return nil, s.internal("certification", err)
	}
	return &page, nil
}

// ApplicationOptions returns the enumerations of the application form.
func (s *ContentService) ApplicationOptions() models.ApplicationOptions {
	return models.ApplicationOptions{
		Courses:        models.ApplicationCourses,
		Batches:        models.ApplicationBatches,
		Genders:        models.ApplicationGenders,
		PreferredTimes: models.ApplicationStartTimes,
	}
}

func (s *ContentService) internal(page string, err error) error {
	s.logger.Error("load page content", zap.String("page", page), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load page")
}

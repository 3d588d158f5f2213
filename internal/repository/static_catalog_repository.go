package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/dsa-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/dsa-enrollment-api/pkg/errors"
)

// StaticCatalogRepository serves the built-in course catalog and batch schedule.
type StaticCatalogRepository struct {
	courses  []models.CourseOffering
	schedule []models.ScheduleEntry
}

// NewStaticCatalogRepository constructs the repository over the built-in seed. It panics if the seed
// breaks a schedule invariant.
func NewStaticCatalogRepository() *StaticCatalogRepository {
	repo, err := newStaticCatalogRepository(seedCourses, seedSchedule)
	if err != nil {
		panic(err)
	}
	return repo
}

func newStaticCatalogRepository(courses []models.CourseOffering, schedule []models.ScheduleEntry) (*StaticCatalogRepository, error) {
	for _, entry := range schedule {
		if err := entry.Check(); err != nil {
			return nil, fmt.Errorf("static catalog: %w", err)
		}
	}
	return &StaticCatalogRepository{courses: courses, schedule: schedule}, nil
}

// ListCourses returns the catalog in display order.
func (r *StaticCatalogRepository) ListCourses(ctx context.Context) ([]models.CourseOffering, error) {
	out := make([]models.CourseOffering, len(r.courses))
	copy(out, r.courses)
	return out, nil
}

// FindCourse returns a single course by identifier.
func (r *StaticCatalogRepository) FindCourse(ctx context.Context, id string) (*models.CourseOffering, error) {
	for _, course := range r.courses {
		if course.ID == id {
			found := course
			return &found, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

// ListSchedule returns every batch.
func (r *StaticCatalogRepository) ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error) {
	out := make([]models.ScheduleEntry, len(r.schedule))
	copy(out, r.schedule)
	return out, nil
}

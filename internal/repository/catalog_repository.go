package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dsa-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/dsa-enrollment-api/pkg/errors"
)

const courseColumns = `id, title, duration, certification, fee, original_fee, description`

const scheduleColumns = `id, course, course_id, batch,
       to_char(start_date, 'YYYY-MM-DD') AS start_date, to_char(end_date, 'YYYY-MM-DD') AS end_date,
       time_label, duration, instructor, location, available_seats, total_seats, fee, status`

// CatalogRepository reads courses and batches from PostgreSQL.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCourses returns the catalog in display order.
func (r *CatalogRepository) ListCourses(ctx context.Context) ([]models.CourseOffering, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses ORDER BY position ASC, id ASC`, courseColumns)
	var courses []models.CourseOffering
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindCourse returns a single course by identifier.
func (r *CatalogRepository) FindCourse(ctx context.Context, id string) (*models.CourseOffering, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1`, courseColumns)
	var course models.CourseOffering
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, fmt.Errorf("find course %s: %w", id, err)
	}
	return &course, nil
}

// ListSchedule returns every batch in display order.
func (r *CatalogRepository) ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_entries ORDER BY position ASC, id ASC`, scheduleColumns)
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	for _, entry := range entries {
		if err := entry.Check(); err != nil {
			return nil, fmt.Errorf("list schedule: %w", err)
		}
	}
	return entries, nil
}

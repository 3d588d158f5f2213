package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dsa-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/dsa-enrollment-api/pkg/errors"
)

func newCatalogRepoMock(t *testing.T) (*CatalogRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewCatalogRepository(sqlxDB), mock, func() {
		sqlxDB.Close()
	}
}

var courseRowColumns = []string{"id", "title", "duration", "certification", "fee", "original_fee", "description"}

func TestCatalogRepositoryListCourses(t *testing.T) {
	repo, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows(courseRowColumns).
		AddRow("iso", "Industrial Safety Officer", "6 Months", "NEBOSH Certified", 35000, 45000, "desc").
		AddRow("wsm", "Workplace Safety Management", "4 Months", "OSHA Certified", 30000, nil, "desc")
	mock.ExpectQuery("SELECT id, title, duration, certification, fee, original_fee, description FROM courses ORDER BY position").
		WillReturnRows(rows)

	courses, err := repo.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	require.NotNil(t, courses[0].OriginalFee)
	assert.Equal(t, int64(45000), *courses[0].OriginalFee)
	assert.Nil(t, courses[1].OriginalFee)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryFindCourseNotFound(t *testing.T) {
	repo, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("FROM courses WHERE id = \\$1").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(courseRowColumns))

	_, err := repo.FindCourse(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestCatalogRepositoryFindCourseFailure(t *testing.T) {
	repo, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("FROM courses WHERE id = \\$1").
		WithArgs("iso").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.FindCourse(context.Background(), "iso")
	require.Error(t, err)
	assert.False(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Contains(t, err.Error(), "find course iso")
}

func TestCatalogRepositoryListSchedule(t *testing.T) {
	repo, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "course", "course_id", "batch", "start_date", "end_date", "time_label", "duration", "instructor", "location", "available_seats", "total_seats", "fee", "status"}).
		AddRow("2", "Fire Safety Specialist", "fss", "FSS-2025-01", "2025-01-15", "2025-04-15", "2:00 PM - 5:00 PM", "3 Months", "Priya Sharma", "Fire Lab - Building B", 8, 20, 20000, "ongoing")
	mock.ExpectQuery("FROM schedule_entries ORDER BY position").WillReturnRows(rows)

	entries, err := repo.ListSchedule(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "FSS-2025-01", entries[0].Batch)
	assert.Equal(t, "2:00 PM - 5:00 PM", entries[0].Time)
	assert.Equal(t, 8, entries[0].AvailableSeats)
	assert.NoError(t, entries[0].Check())
}

func TestCatalogRepositoryListScheduleRejectsOverbookedRow(t *testing.T) {
	repo, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "course", "course_id", "batch", "start_date", "end_date", "time_label", "duration", "instructor", "location", "available_seats", "total_seats", "fee", "status"}).
		AddRow("2", "Fire Safety Specialist", "fss", "FSS-2025-01", "2025-01-15", "2025-04-15", "2:00 PM - 5:00 PM", "3 Months", "Priya Sharma", "Fire Lab - Building B", 25, 20, 20000, "ongoing")
	mock.ExpectQuery("FROM schedule_entries ORDER BY position").WillReturnRows(rows)

	_, err := repo.ListSchedule(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available seats 25 outside 0..20")
}

func TestStaticCatalogRepositoryRejectsInvalidSeed(t *testing.T) {
	bad := []models.ScheduleEntry{{ID: "9", AvailableSeats: 3, TotalSeats: 2, Status: models.ScheduleStatusUpcoming}}
	_, err := newStaticCatalogRepository(seedCourses, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "static catalog")
}

func TestStaticCatalogRepository(t *testing.T) {
	repo := NewStaticCatalogRepository()
	ctx := context.Background()

	courses, err := repo.ListCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 6)

	ids := map[string]bool{}
	for _, c := range courses {
		assert.False(t, ids[c.ID], "duplicate course id %s", c.ID)
		ids[c.ID] = true
	}

	entries, err := repo.ListSchedule(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 8)
	for _, e := range entries {
		assert.NoError(t, e.Check())
		assert.True(t, ids[e.CourseID], "schedule %s references unknown course %s", e.ID, e.CourseID)
		assert.Equal(t, courseTitle(courses, e.CourseID), e.Course)
	}

	course, err := repo.FindCourse(ctx, "fss")
	require.NoError(t, err)
	assert.Equal(t, int64(20000), course.Fee)

	courses[0].Title = "mutated"
	again, err := repo.FindCourse(ctx, courses[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Title)

	_, err = repo.FindCourse(ctx, "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func courseTitle(courses []models.CourseOffering, id string) string {
	for _, c := range courses {
		if c.ID == id {
			return c.Title
		}
	}
	return ""
}

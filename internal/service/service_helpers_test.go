package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dsa-enrollment-api/internal/repository"
	appErrors "github.com/noah-isme/dsa-enrollment-api/pkg/errors"
	"github.com/noah-isme/dsa-enrollment-api/pkg/jobs"
)

type fakeScheduler struct {
	mu    sync.Mutex
	tasks map[string]jobs.Task
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{tasks: make(map[string]jobs.Task)}
}

func (f *fakeScheduler) Schedule(task jobs.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[task.Key] = task
	return nil
}

func (f *fakeScheduler) Cancel(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.tasks[key]
	delete(f.tasks, key)
	return ok
}

func (f *fakeScheduler) Pending(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.tasks[key]
	return ok
}

func (f *fakeScheduler) task(key string) (jobs.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[key]
	return task, ok
}

// fire runs the pending task for key as the scheduler would once its delay elapses.
func (f *fakeScheduler) fire(t *testing.T, key string) {
	t.Helper()
	f.mu.Lock()
	task, ok := f.tasks[key]
	delete(f.tasks, key)
	f.mu.Unlock()
	require.True(t, ok, "no task pending for %s", key)
	require.NoError(t, task.Run(context.Background()))
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCatalog() *CatalogService {
	return NewCatalogService(repository.NewStaticCatalogRepository(), nil, nil, nil)
}

func errorCode(err error) string {
	return appErrors.FromError(err).Code
}

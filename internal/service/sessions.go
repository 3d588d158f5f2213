package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/dsa-enrollment-api/internal/forms"
	"github.com/noah-isme/dsa-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/dsa-enrollment-api/pkg/errors"
)

// SessionRepository persists form sessions between requests.
type SessionRepository interface {
	Get(ctx context.Context, kind models.FormKind, id string, dest interface{}) error
	Save(ctx context.Context, kind models.FormKind, id string, value interface{}) error
}

// keyedMutex serialises work per session id. Entries are dropped once no goroutine holds or
// waits for them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refLock)}
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

type sessionGateway struct {
	kind    models.FormKind
	store   SessionRepository
	metrics *MetricsService
	logger  *zap.Logger
}

func (g sessionGateway) load(ctx context.Context, id string, dest interface{}) error {
	start := time.Now()
	err := g.store.Get(ctx, g.kind, id, dest)
	miss := errors.Is(err, appErrors.ErrCacheMiss)
	g.metrics.ObserveSessionStore("get", miss, time.Since(start))
	if err == nil {
		return nil
	}
	if miss {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s session not found", g.kind))
	}
	g.logger.Error("load form session", zap.String("kind", string(g.kind)), zap.String("session_id", id), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
}

func (g sessionGateway) save(ctx context.Context, id string, value interface{}) error {
	start := time.Now()
	err := g.store.Save(ctx, g.kind, id, value)
	g.metrics.ObserveSessionStore("save", false, time.Since(start))
	if err != nil {
		g.logger.Error("save form session", zap.String("kind", string(g.kind)), zap.String("session_id", id), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save session")
	}
	return nil
}

// formError maps state machine errors onto API errors.
func formError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, forms.ErrUnknownField):
		return appErrors.Clone(appErrors.ErrUnknownField, err.Error())
	case errors.Is(err, forms.ErrNotEditing):
		return appErrors.Clone(appErrors.ErrConflict, "form is not editable in its current state")
	case errors.Is(err, forms.ErrNotProcessing):
		return appErrors.Clone(appErrors.ErrConflict, "payment is not processing")
	case errors.Is(err, forms.ErrNoCourse):
		return appErrors.ErrNoCourseSelected
	case errors.Is(err, forms.ErrUnknownMethod), errors.Is(err, forms.ErrUnknownUPIApp):
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	default:
		return err
	}
}

// invalidForm builds the FORM_INVALID error carrying the field messages.
func invalidForm(errs models.ValidationErrors) error {
	return appErrors.WithDetails(appErrors.ErrFormInvalid, errs.Clone())
}

package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is a unit of work that runs once after Delay unless cancelled first.
type Task struct {
	Key     string
	Type    string
	Delay   time.Duration
	Run     func(context.Context) error
	Attempt int
}

// SchedulerConfig configures retry behaviour.
type SchedulerConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

type pendingTask struct {
	task  Task
	timer *time.Timer
	seq   uint64
}

// Scheduler runs delayed tasks keyed by an identifier. Scheduling a key that is already pending
// replaces the earlier task.
type Scheduler struct {
	name       string
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	pending map[string]*pendingTask
	seq     uint64
	started bool
}

// NewScheduler builds a scheduler; call Start before scheduling.
func NewScheduler(name string, cfg SchedulerConfig) *Scheduler {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Scheduler{
		name:       name,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
		pending:    make(map[string]*pendingTask),
	}
}

// Start enables scheduling. Safe to call once.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true
	s.logger.Sugar().Infow("scheduler started", "scheduler", s.name)
}

// Stop cancels every pending task and waits for running ones to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	for key, p := range s.pending {
		if p.timer.Stop() {
			s.wg.Done()
		}
		delete(s.pending, key)
	}
	s.cancel()
	s.started = false
	s.mu.Unlock()
	s.wg.Wait()
	s.logger.Sugar().Infow("scheduler stopped", "scheduler", s.name)
}

// Schedule arms task to run after its delay.
func (s *Scheduler) Schedule(task Task) error {
	if task.Key == "" || task.Run == nil {
		return fmt.Errorf("scheduler %s: task key and run func required", s.name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return fmt.Errorf("scheduler %s not started", s.name)
	}
	if err := s.ctx.Err(); err != nil {
		return fmt.Errorf("scheduler %s stopped: %w", s.name, err)
	}

	if prev, ok := s.pending[task.Key]; ok {
		if prev.timer.Stop() {
			s.wg.Done()
		}
		delete(s.pending, task.Key)
	}

	s.seq++
	p := &pendingTask{task: task, seq: s.seq}
	s.wg.Add(1)
	p.timer = time.AfterFunc(task.Delay, func() { s.fire(task.Key, p.seq) })
	s.pending[task.Key] = p
	return nil
}

// Cancel drops a pending task. It reports false when nothing was pending or the task already started.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[key]
	if !ok {
		return false
	}
	delete(s.pending, key)
	if !p.timer.Stop() {
		return false
	}
	s.wg.Done()
	s.logger.Sugar().Debugw("task cancelled", "scheduler", s.name, "key", key, "type", p.task.Type)
	return true
}

// Pending reports whether a task is armed for key.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[key]
	return ok
}

func (s *Scheduler) fire(key string, seq uint64) {
	defer s.wg.Done()

	s.mu.Lock()
	p, ok := s.pending[key]
	if !ok || p.seq != seq {
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	ctx := s.ctx
	s.mu.Unlock()

	task := p.task
	if err := task.Run(ctx); err != nil {
		s.handleFailure(task, err)
	}
}

func (s *Scheduler) handleFailure(task Task, err error) {
	task.Attempt++
	if task.Attempt > s.maxRetries {
		s.logger.Sugar().Errorw("task exceeded retries", "scheduler", s.name, "key", task.Key, "type", task.Type, "error", err)
		return
	}
	s.logger.Sugar().Warnw("task failed, retrying", "scheduler", s.name, "key", task.Key, "type", task.Type, "attempt", task.Attempt, "error", err)

	task.Delay = s.retryDelay
	if schedErr := s.Schedule(task); schedErr != nil {
		s.logger.Sugar().Errorw("failed to reschedule task", "scheduler", s.name, "key", task.Key, "error", schedErr)
	}
}

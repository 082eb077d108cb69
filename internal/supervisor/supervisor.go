// Package supervisor implements C9: the stage supervisor that owns the
// single shutdown token shared by all workers, exposing idempotent
// start/stop per stage and a process-wide lifecycle to the ingress layer.
// Grounded on the teacher's internal/daemon.Daemon Start/Stop idempotence
// and shared shutdown context, plus gofrs/flock for the single-instance
// lock file.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"cfwai/internal/logging"
	"cfwai/internal/model"
)

// Stage is the narrow contract the supervisor needs from each pipeline
// worker.
type Stage interface {
	Start(ctx context.Context)
	Stop()
}

// Supervisor starts/stops/joins the three stage workers and propagates a
// single shutdown signal.
type Supervisor struct {
	logger *slog.Logger

	mu      sync.Mutex
	stages  map[model.Stage]Stage
	running map[model.Stage]bool

	lockPath string
	lock     *flock.Flock

	ctx    context.Context
	cancel context.CancelFunc
}

// New constructs a Supervisor over the three named stages, taking its
// single-instance lock file under dataDir (teacher's spindle.lock idiom).
func New(dataDir string, decision, aging, download Stage, logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := filepath.Join(dataDir, "cfwai.lock")
	return &Supervisor{
		logger: logger,
		stages: map[model.Stage]Stage{
			model.StageDecision: decision,
			model.StageAging:    aging,
			model.StageDownload: download,
		},
		running:  map[model.Stage]bool{},
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
}

// AcquireLock takes the single-instance lock file, failing fast if another
// process already holds it.
func (s *Supervisor) AcquireLock() error {
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another cfwai daemon instance is already running")
	}
	return nil
}

// ReleaseLock releases the single-instance lock file.
func (s *Supervisor) ReleaseLock() {
	_ = s.lock.Unlock()
}

// StartAll starts every stage enabled in runFlags (keyed by stage name),
// under a shared shutdown context derived from ctx.
func (s *Supervisor) StartAll(ctx context.Context, runFlags map[model.Stage]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx, s.cancel = context.WithCancel(ctx)

	for _, name := range []model.Stage{model.StageDecision, model.StageAging, model.StageDownload} {
		if runFlags[name] {
			s.startLocked(s.ctx, name)
		}
	}
}

// Start starts a single stage by name. Idempotent: starting an
// already-running stage is a no-op.
func (s *Supervisor) Start(name model.Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return errors.New("supervisor not initialized: call StartAll first")
	}
	s.startLocked(s.ctx, name)
	return nil
}

func (s *Supervisor) startLocked(ctx context.Context, name model.Stage) {
	if s.running[name] {
		return
	}
	stage, ok := s.stages[name]
	if !ok || stage == nil {
		return
	}
	stage.Start(ctx)
	s.running[name] = true
	s.logger.Info("stage started", logging.String("stage", name.String()))
}

// Stop stops a single stage by name. Idempotent: stopping an already
// stopped stage is a no-op.
func (s *Supervisor) Stop(name model.Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked(name)
}

func (s *Supervisor) stopLocked(name model.Stage) error {
	if !s.running[name] {
		return nil
	}
	stage, ok := s.stages[name]
	if !ok || stage == nil {
		return fmt.Errorf("unknown stage %q", name)
	}
	stage.Stop()
	s.running[name] = false
	s.logger.Info("stage stopped", logging.String("stage", name.String()))
	return nil
}

// Running reports whether the named stage is currently running.
func (s *Supervisor) Running(name model.Stage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running[name]
}

// Shutdown stops every running stage, cancels the shared context, and
// releases the single-instance lock. Safe to call more than once.
func (s *Supervisor) Shutdown() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	for _, name := range []model.Stage{model.StageDecision, model.StageAging, model.StageDownload} {
		_ = s.stopLocked(name)
	}
	s.mu.Unlock()
	s.ReleaseLock()
}

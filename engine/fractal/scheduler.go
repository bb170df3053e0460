package fractal

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-fractal/engine/logger"
)

// SchedulerState is the lifecycle phase of a scheduler run.
type SchedulerState int32

const (
	// SchedulerIdle means no run is in flight.
	SchedulerIdle SchedulerState = iota
	// SchedulerScheduling means a run is enqueueing level jobs.
	SchedulerScheduling
	// SchedulerDraining means every level job has been enqueued and the run is waiting for the last one.
	SchedulerDraining
)

func (s SchedulerState) String() string {
	switch s {
	case SchedulerIdle:
		return "Idle"
	case SchedulerScheduling:
		return "Scheduling"
	case SchedulerDraining:
		return "Draining"
	default:
		return "Unknown"
	}
}

// Handle tracks the completion of one scheduled level job. A job that depends on a handle
// starts no index before the handle is done.
type Handle struct {
	done chan struct{}
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// completedHandle returns a handle that is already done, used as the dependency of level 0.
func completedHandle() *Handle {
	h := newHandle()
	close(h.done)
	return h
}

// Complete blocks until the job behind the handle has finished every index.
func (h *Handle) Complete() {
	<-h.done
}

// Done returns a channel closed once the job behind the handle has finished.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Scheduler runs the per-level update jobs of a hierarchy on a bounded worker pool.
// Indices within a level run in parallel; level L starts only after level L-1 has completed.
type Scheduler interface {
	// Workers returns the maximum number of pool workers.
	//
	// Returns:
	//   - int: the configured worker count
	Workers() int

	// BatchSize returns the number of consecutive indices a single pool task processes.
	//
	// Returns:
	//   - int: the configured batch size
	BatchSize() int

	// State returns the current phase of the scheduler.
	//
	// Returns:
	//   - SchedulerState: Idle between runs
	State() SchedulerState

	// Run updates every level of h for one frame and returns once every matrix has been written.
	// Run must not be called concurrently on the same scheduler.
	//
	// Parameters:
	//   - h: the active hierarchy to update
	//   - frame: the frame time and owner placement
	Run(h *Hierarchy, frame Frame)

	// Release stops the worker pool. The scheduler must not be used afterwards.
	Release()
}

type scheduler struct {
	pool worker.DynamicWorkerPool

	workers   int
	batchSize int
	queueSize int

	state  atomic.Int32
	taskID atomic.Int64
}

var _ Scheduler = &scheduler{}

// NewScheduler creates a level scheduler backed by a dynamic worker pool.
//
// Parameters:
//   - options: functional options applied before the pool is created
//
// Returns:
//   - Scheduler: the new scheduler, Idle
func NewScheduler(options ...SchedulerBuilderOption) Scheduler {
	s := &scheduler{
		workers:   max(runtime.NumCPU()-1, 1),
		batchSize: BranchFactor,
		queueSize: 256,
	}

	for _, option := range options {
		option(s)
	}

	// Created after options so WithWorkers and WithQueueSize can override the defaults.
	s.pool = worker.NewDynamicWorkerPool(s.workers, s.queueSize, 1*time.Second)

	logger.Logger().Debug("fractal scheduler created",
		"workers", s.workers,
		"batch_size", s.batchSize,
		"queue_size", s.queueSize,
	)
	return s
}

func (s *scheduler) Workers() int {
	return s.workers
}

func (s *scheduler) BatchSize() int {
	return s.batchSize
}

func (s *scheduler) State() SchedulerState {
	return SchedulerState(s.state.Load())
}

func (s *scheduler) Run(h *Hierarchy, frame Frame) {
	if !h.Active() {
		return
	}

	s.state.Store(int32(SchedulerScheduling))

	dependency := completedHandle()
	for l := range h.Depth() {
		dependency = s.scheduleLevel(newLevelTask(h, l, frame), dependency)
	}

	s.state.Store(int32(SchedulerDraining))
	dependency.Complete()
	s.state.Store(int32(SchedulerIdle))
}

func (s *scheduler) Release() {
	s.pool.Stop()
}

// scheduleLevel enqueues the job for one level. The job waits for dependency, then fans its
// indices out to the pool in batches and completes its own handle once every batch is done.
func (s *scheduler) scheduleLevel(task *levelTask, dependency *Handle) *Handle {
	h := newHandle()
	go func() {
		defer close(h.done)
		dependency.Complete()

		count := task.count()
		var wg sync.WaitGroup
		for start := 0; start < count; start += s.batchSize {
			end := min(start+s.batchSize, count)
			wg.Add(1)
			s.pool.SubmitTask(worker.Task{
				ID: int(s.taskID.Add(1)),
				Do: func() (any, error) {
					defer wg.Done()
					task.executeRange(start, end)
					return nil, nil
				},
			})
		}
		wg.Wait()
	}()
	return h
}

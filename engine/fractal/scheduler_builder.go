package fractal

// SchedulerBuilderOption configures a scheduler created by NewScheduler.
type SchedulerBuilderOption func(*scheduler)

// WithWorkers sets the maximum number of pool workers. Defaults to max(NumCPU-1, 1).
//
// Parameters:
//   - n: the worker count (minimum 1)
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithWorkers(n int) SchedulerBuilderOption {
	return func(s *scheduler) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// WithBatchSize sets how many consecutive indices one pool task updates. Defaults to BranchFactor.
//
// Parameters:
//   - n: the batch size (minimum 1)
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithBatchSize(n int) SchedulerBuilderOption {
	return func(s *scheduler) {
		if n < 1 {
			n = 1
		}
		s.batchSize = n
	}
}

// WithQueueSize sets the capacity of the pool's task queue. Defaults to 256.
//
// Parameters:
//   - n: the queue capacity (minimum 1)
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithQueueSize(n int) SchedulerBuilderOption {
	return func(s *scheduler) {
		if n < 1 {
			n = 1
		}
		s.queueSize = n
	}
}

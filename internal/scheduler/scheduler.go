package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// JobFunc is the work a scheduled job performs on each tick.
type JobFunc func(ctx context.Context)

// job is one named periodic task with its own ticker goroutine.
type job struct {
	name     string
	interval time.Duration
	fn       JobFunc

	stopChan chan struct{}
	wg       sync.WaitGroup

	mu       sync.Mutex
	running  bool
	inFlight bool
}

// Scheduler is an owned registry of named periodic jobs. Registering a
// name twice replaces the prior job; each job can be stopped, started
// and removed independently without restarting the process.
type Scheduler struct {
	mu   sync.Mutex
	jobs map[string]*job
}

func New() *Scheduler {
	return &Scheduler{
		jobs: make(map[string]*job),
	}
}

// Add registers a job under name. An existing job with the same name is
// stopped and replaced. The job does not run until started.
func (s *Scheduler) Add(name string, interval time.Duration, fn JobFunc) {
	s.mu.Lock()
	old, exists := s.jobs[name]
	s.jobs[name] = &job{
		name:     name,
		interval: interval,
		fn:       fn,
	}
	s.mu.Unlock()

	if exists {
		slog.Info("Replacing scheduled job", "job", name)
		old.stop()
	}
}

// Remove stops and deregisters a job. Unknown names are a no-op.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	j, exists := s.jobs[name]
	delete(s.jobs, name)
	s.mu.Unlock()

	if exists {
		j.stop()
		slog.Info("Removed scheduled job", "job", name)
	}
}

// Start begins the ticker loop for one job. Starting a running job is a
// no-op.
func (s *Scheduler) Start(name string) bool {
	s.mu.Lock()
	j, exists := s.jobs[name]
	s.mu.Unlock()

	if !exists {
		return false
	}
	j.start()
	return true
}

// Stop halts one job's ticker loop without deregistering it.
func (s *Scheduler) Stop(name string) bool {
	s.mu.Lock()
	j, exists := s.jobs[name]
	s.mu.Unlock()

	if !exists {
		return false
	}
	j.stop()
	return true
}

// StartAll starts every registered job.
func (s *Scheduler) StartAll() {
	s.mu.Lock()
	jobs := make([]*job, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	s.mu.Unlock()

	for _, j := range jobs {
		j.start()
	}
}

// StopAll stops every registered job and waits for in-flight runs.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	jobs := make([]*job, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	s.mu.Unlock()

	for _, j := range jobs {
		j.stop()
	}
	slog.Info("All scheduled jobs stopped")
}

// Names returns the registered job names.
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

func (j *job) start() {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return
	}
	j.running = true
	j.stopChan = make(chan struct{})
	j.mu.Unlock()

	slog.Info("Starting scheduled job", "job", j.name, "interval", j.interval)

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-j.stopChan:
				slog.Info("Scheduled job stopped", "job", j.name)
				return
			case <-ticker.C:
				j.run()
			}
		}
	}()
}

func (j *job) stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	j.running = false
	close(j.stopChan)
	j.mu.Unlock()

	j.wg.Wait()
}

// run executes one tick. A tick that fires while the previous run is
// still in flight is skipped so the same job never overlaps itself.
func (j *job) run() {
	j.mu.Lock()
	if j.inFlight {
		j.mu.Unlock()
		slog.Warn("Skipping job tick, previous run still in flight", "job", j.name)
		return
	}
	j.inFlight = true
	j.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Scheduled job panicked", "job", j.name, "panic", r)
		}
		j.mu.Lock()
		j.inFlight = false
		j.mu.Unlock()
	}()

	start := time.Now()
	j.fn(context.Background())
	slog.Debug("Scheduled job completed", "job", j.name, "duration", time.Since(start))
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/nemanja-m/wasimpi/internal/controller/core"
	"github.com/nemanja-m/wasimpi/internal/shared/logging"
)

// Spawner launches admitted jobs one at a time in submission order.
type Spawner struct {
	queue          core.JobQueue
	launcher       core.ProcessLauncher
	hostExecutable string
	logger         logging.Logger
}

func NewSpawner(
	queue core.JobQueue,
	launcher core.ProcessLauncher,
	hostExecutable string,
	logger logging.Logger,
) *Spawner {
	return &Spawner{
		queue:          queue,
		launcher:       launcher,
		hostExecutable: hostExecutable,
		logger:         logger,
	}
}

// Start consumes the queue until ctx ends or the queue is closed and empty.
func (s *Spawner) Start(ctx context.Context) {
	for {
		job, err := s.queue.Pop(ctx)
		if err != nil {
			if !errors.Is(err, core.ErrQueueClosed) && ctx.Err() == nil {
				s.logger.Error("Failed to dequeue job", "error", err)
			}
			return
		}
		s.spawn(ctx, job)
	}
}

func (s *Spawner) spawn(ctx context.Context, job *core.Job) {
	req := LaunchRequestFor(job, s.hostExecutable)

	start := time.Now()
	err := s.launcher.Launch(ctx, req)
	elapsed := time.Since(start)

	// Launch failures leave the job SUBMITTED with its slots held.
	if err != nil {
		s.logger.Error(
			"Failed to spawn job",
			"job_id", job.ID.String(),
			"world_size", job.WorldSize,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return
	}
	s.logger.Info(
		"Job spawned",
		"job_id", job.ID.String(),
		"world_size", job.WorldSize,
		"duration_ms", elapsed.Milliseconds(),
	)
}

// LaunchRequestFor builds the host command line for job:
// host --callback <url> <module> <argv...>, on world_size processes.
func LaunchRequestFor(job *core.Job, hostExecutable string) core.LaunchRequest {
	args := make([]string, 0, len(job.Argv)+3)
	args = append(args, "--callback", job.Callback, job.Path)
	args = append(args, job.Argv...)
	return core.LaunchRequest{
		Command: hostExecutable,
		Args:    args,
		Procs:   job.WorldSize,
	}
}

package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/nemanja-m/wasimpi/internal/controller/core"
	"github.com/nemanja-m/wasimpi/internal/shared/logging"
)

// DefaultPrefix runs a job through the cluster's MPI launcher.
var DefaultPrefix = []string{"mpirun"}

// Process is a started command.
type Process interface {
	Wait() error
}

// CommandStarter starts a command without waiting for it.
type CommandStarter interface {
	Start(args []string) (Process, error)
}

// RealCommandStarter starts commands with os/exec. Children inherit the
// controller's stdout and stderr.
type RealCommandStarter struct{}

func (RealCommandStarter) Start(args []string) (Process, error) {
	if len(args) < 1 {
		return nil, errors.New("no command provided")
	}
	cmd := exec.Command(args[0], args[1:]...) //nolint:gosec // arguments come from admitted jobs
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// ExecLauncher runs "<prefix...> -np <procs> <command> <args...>" as a child
// process. Launch returns once the child has started; its exit is logged.
type ExecLauncher struct {
	prefix  []string
	starter CommandStarter
	logger  logging.Logger
}

type ExecOption func(*ExecLauncher)

func WithPrefix(prefix ...string) ExecOption {
	return func(l *ExecLauncher) {
		l.prefix = prefix
	}
}

func WithCommandStarter(starter CommandStarter) ExecOption {
	return func(l *ExecLauncher) {
		l.starter = starter
	}
}

func WithLogger(logger logging.Logger) ExecOption {
	return func(l *ExecLauncher) {
		l.logger = logger
	}
}

func NewExecLauncher(opts ...ExecOption) *ExecLauncher {
	l := &ExecLauncher{
		prefix:  DefaultPrefix,
		starter: RealCommandStarter{},
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CommandLine is the full argument vector Launch would start for req.
func (l *ExecLauncher) CommandLine(req core.LaunchRequest) []string {
	args := make([]string, 0, len(l.prefix)+len(req.Args)+3)
	args = append(args, l.prefix...)
	args = append(args, "-np", strconv.Itoa(req.Procs), req.Command)
	return append(args, req.Args...)
}

func (l *ExecLauncher) Launch(ctx context.Context, req core.LaunchRequest) error {
	if req.Procs <= 0 {
		return errors.New("procs must be positive")
	}
	if len(l.prefix) == 0 {
		return errors.New("exec launcher has no command prefix")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	args := l.CommandLine(req)
	proc, err := l.starter.Start(args)
	if err != nil {
		return fmt.Errorf("start %s: %w", args[0], err)
	}

	go func() {
		if err := proc.Wait(); err != nil {
			l.logger.Warn("Launched process exited with error", "command", req.Command, "error", err)
			return
		}
		l.logger.Debug("Launched process exited", "command", req.Command)
	}()
	return nil
}

var _ core.ProcessLauncher = (*ExecLauncher)(nil)

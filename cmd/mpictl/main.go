package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nemanja-m/wasimpi/internal/controller/api/rest"
)

type globalOptions struct {
	addr      string
	transport string
	output    string
	timeout   time.Duration
}

// session is what every subcommand runs with: a connected client, a
// printer and a deadline.
func (o *globalOptions) session(cmd *cobra.Command, fn func(ctx context.Context, c controlClient, p *printer) error) error {
	p, err := newPrinter(cmd.OutOrStdout(), o.output)
	if err != nil {
		return err
	}
	c, err := dial(o.transport, o.addr)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	defer cancel()
	return fn(ctx, c, p)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "mpictl",
		Short:         "Submit and inspect jobs on a wasimpi controller",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.addr, "addr", "localhost:8080", "controller address")
	rootCmd.PersistentFlags().StringVar(&opts.transport, "transport", transportREST, "transport: rest or grpc")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputTable, "output format: table, json or yaml")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")

	rootCmd.AddCommand(
		jobsCmd(opts),
		slotsCmd(opts),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func jobsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage jobs",
	}
	cmd.AddCommand(
		listJobsCmd(opts),
		getJobCmd(opts),
		submitJobCmd(opts),
		reportJobCmd(opts),
	)
	return cmd
}

func listJobsCmd(opts *globalOptions) *cobra.Command {
	var (
		state  string
		limit  int
		offset int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs in submission order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.session(cmd, func(ctx context.Context, c controlClient, p *printer) error {
				resp, err := c.ListJobs(ctx, state, limit, offset)
				if err != nil {
					return err
				}
				return p.jobs(resp)
			})
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "only jobs in this state")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of jobs (0 for all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of jobs to skip")
	return cmd
}

func getJobCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.session(cmd, func(ctx context.Context, c controlClient, p *printer) error {
				job, err := c.GetJob(ctx, args[0])
				if err != nil {
					return err
				}
				return p.job(job)
			})
		},
	}
}

func submitJobCmd(opts *globalOptions) *cobra.Command {
	var worldSize int
	cmd := &cobra.Command{
		Use:   "submit <module.wasm> [args...]",
		Short: "Submit a module to run on world-size processes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.session(cmd, func(ctx context.Context, c controlClient, p *printer) error {
				job, err := c.SubmitJob(ctx, rest.SubmitJobRequest{
					Path:      args[0],
					Argv:      args[1:],
					WorldSize: worldSize,
				})
				if err != nil {
					return err
				}
				return p.job(job)
			})
		},
	}
	cmd.Flags().IntVarP(&worldSize, "world-size", "n", 1, "number of processes")
	// Flags after the module path are the module's own.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func reportJobCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report <id> <state>",
		Short: "Report a job state change, as a running host would",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.session(cmd, func(ctx context.Context, c controlClient, p *printer) error {
				if err := c.ReportJobState(ctx, args[0], args[1]); err != nil {
					return err
				}
				job, err := c.GetJob(ctx, args[0])
				if err != nil {
					return err
				}
				return p.job(job)
			})
		},
	}
}

func slotsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "Show slot usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.session(cmd, func(ctx context.Context, c controlClient, p *printer) error {
				s, err := c.GetSlots(ctx)
				if err != nil {
					return err
				}
				return p.slots(s)
			})
		},
	}
}

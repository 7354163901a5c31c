package grpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"

	"github.com/nemanja-m/wasimpi/internal/controller/core"
	pb "github.com/nemanja-m/wasimpi/internal/shared/proto"
)

// Client calls the control service of a controller.
type Client struct {
	conn *grpc.ClientConn
	jobs pb.JobControlClient
}

// NewClient connects lazily to addr. Extra options are appended to the
// defaults, so tests can supply their own dialer.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(
			keepalive.ClientParameters{
				Time:                30 * time.Second,
				Timeout:             5 * time.Second,
				PermitWithoutStream: true,
			},
		),
	}
	conn, err := grpc.NewClient(addr, append(dialOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to controller: %w", err)
	}
	return &Client{conn: conn, jobs: pb.NewJobControlClient(conn)}, nil
}

func (c *Client) ListJobs(ctx context.Context, req *pb.ListJobsRequest) (*pb.ListJobsResponse, error) {
	resp, err := c.jobs.ListJobs(ctx, req)
	return resp, fromStatus(err)
}

func (c *Client) GetJob(ctx context.Context, id string) (*pb.Job, error) {
	job, err := c.jobs.GetJob(ctx, &pb.GetJobRequest{Id: id})
	return job, fromStatus(err)
}

func (c *Client) SubmitJob(ctx context.Context, req *pb.SubmitJobRequest) (*pb.Job, error) {
	job, err := c.jobs.SubmitJob(ctx, req)
	return job, fromStatus(err)
}

func (c *Client) ReportJobState(ctx context.Context, id string, state pb.JobState) (*pb.Job, error) {
	job, err := c.jobs.ReportJobState(ctx, &pb.ReportJobStateRequest{Id: id, State: state})
	return job, fromStatus(err)
}

func (c *Client) GetSlots(ctx context.Context) (*pb.Slots, error) {
	slots, err := c.jobs.GetSlots(ctx, &pb.GetSlotsRequest{})
	return slots, fromStatus(err)
}

// Conn exposes the connection for other services served alongside, such
// as health.
func (c *Client) Conn() grpc.ClientConnInterface {
	return c.conn
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// fromStatus maps well-known status codes back onto the job errors so
// callers can test them with errors.Is. The status stays reachable through
// status.Code.
func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return &statusError{sentinel: core.ErrJobNotFound, st: st}
	case codes.FailedPrecondition:
		return &statusError{sentinel: core.ErrFinalState, st: st}
	}
	return err
}

type statusError struct {
	sentinel error
	st       *status.Status
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%v: %s", e.sentinel, e.st.Message())
}

func (e *statusError) Unwrap() error {
	return e.sentinel
}

func (e *statusError) GRPCStatus() *status.Status {
	return e.st
}

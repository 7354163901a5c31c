package grpc

import (
	"fmt"

	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/nemanja-m/wasimpi/internal/controller/core"
	pb "github.com/nemanja-m/wasimpi/internal/shared/proto"
)

var stateToProto = map[core.JobState]pb.JobState{
	core.JobStateSubmitted: pb.JobState_JOB_STATE_SUBMITTED,
	core.JobStateRunning:   pb.JobState_JOB_STATE_RUNNING,
	core.JobStateFailed:    pb.JobState_JOB_STATE_FAILED,
	core.JobStateCompleted: pb.JobState_JOB_STATE_COMPLETED,
}

var stateFromProto = map[pb.JobState]core.JobState{
	pb.JobState_JOB_STATE_SUBMITTED: core.JobStateSubmitted,
	pb.JobState_JOB_STATE_RUNNING:   core.JobStateRunning,
	pb.JobState_JOB_STATE_FAILED:    core.JobStateFailed,
	pb.JobState_JOB_STATE_COMPLETED: core.JobStateCompleted,
}

// StateToProto returns JOB_STATE_UNSPECIFIED for states it does not know.
func StateToProto(s core.JobState) pb.JobState {
	return stateToProto[s]
}

// StateFromProto rejects JOB_STATE_UNSPECIFIED and values outside the enum.
func StateFromProto(s pb.JobState) (core.JobState, error) {
	state, ok := stateFromProto[s]
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrInvalidState, s)
	}
	return state, nil
}

func toProtoJob(job *core.Job) *pb.Job {
	return &pb.Job{
		Id:          job.ID.String(),
		Path:        job.Path,
		Argv:        job.Argv,
		WorldSize:   int32(job.WorldSize),
		State:       StateToProto(job.State),
		Callback:    job.Callback,
		SubmittedAt: timestamppb.New(job.SubmittedAt),
		UpdatedAt:   timestamppb.New(job.UpdatedAt),
	}
}

func toProtoSlots(usage core.SlotUsage) *pb.Slots {
	return &pb.Slots{
		UniverseSize: int32(usage.UniverseSize),
		FreeSlots:    int32(usage.Free),
		InUse:        int32(usage.InUse),
	}
}

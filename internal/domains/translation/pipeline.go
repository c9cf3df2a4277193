package translation

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/xpanvictor/vietrans/pkg/Logger"
)

// job tracks one audio request through its stages:
//
//	received -> stored -> decoded -> transcribed -> translated -> completed
//
// Any non-terminal stage can move to failed.
type job struct {
	machine *fsm.FSM
	logger  *Logger.Logger
	failed  string
}

func newJob(logger *Logger.Logger) *job {
	j := &job{logger: logger}
	live := []string{StageReceived, StageStored, StageDecoded, StageTranscribed, StageTranslated}

	j.machine = fsm.NewFSM(
		StageReceived,
		fsm.Events{
			{Name: eventStore, Src: []string{StageReceived}, Dst: StageStored},
			{Name: eventDecode, Src: []string{StageStored}, Dst: StageDecoded},
			{Name: eventTranscribe, Src: []string{StageDecoded}, Dst: StageTranscribed},
			{Name: eventTranslate, Src: []string{StageTranscribed}, Dst: StageTranslated},
			{Name: eventComplete, Src: []string{StageTranslated}, Dst: StageCompleted},
			{Name: eventFail, Src: live, Dst: StageFailed},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				j.logger.Debugf("audio job %s -> %s", e.Src, e.Dst)
			},
			"before_" + eventFail: func(_ context.Context, e *fsm.Event) {
				j.failed = e.Src
			},
		},
	)
	return j
}

func (j *job) Stage() string {
	return j.machine.Current()
}

// FailedStage is the stage the job was in when it failed, or "".
func (j *job) FailedStage() string {
	return j.failed
}

func (j *job) advance(ctx context.Context, event string) error {
	if err := j.machine.Event(ctx, event); err != nil {
		return fmt.Errorf("audio job cannot %s from %s: %w", event, j.machine.Current(), err)
	}
	return nil
}

// fail moves the job to failed and logs the stage that broke.
func (j *job) fail(ctx context.Context, cause error) {
	if err := j.machine.Event(ctx, eventFail); err != nil {
		j.logger.Warnf("audio job could not record failure in %s: %v", j.machine.Current(), err)
		return
	}
	j.logger.Errorw("audio job failed", "stage", j.failed, "error", cause)
}

package upload

import "fmt"

// Stage identifies one step of the publish sequence. Every saga failure
// carries the stage it happened in, so callers can decide what is safe
// to retry.
type Stage string

const (
	StageSelect        Stage = "placeholder_select"
	StageDeviceAckPre  Stage = "device_ack_pre"
	StageReselect      Stage = "placeholder_reselect"
	StageUpload        Stage = "blob_upload"
	StageReconcile     Stage = "metadata_reconcile"
	StageDeviceAckPost Stage = "device_ack_post"
)

// SagaError wraps a stage failure. Match the cause with errors.Is
// (common.ErrRejectedByServer, common.ErrDeviceAckTimeout,
// common.ErrContentIntegrity, common.ErrReconciliationMismatch) and
// inspect Stage to tell which step died.
type SagaError struct {
	Stage Stage
	Err   error
}

func (e *SagaError) Error() string {
	return fmt.Sprintf("upload stage %s: %v", e.Stage, e.Err)
}

func (e *SagaError) Unwrap() error {
	return e.Err
}

func failed(stage Stage, err error) *SagaError {
	return &SagaError{Stage: stage, Err: err}
}

package upload

import (
	"github.com/auragophers/aurago/internal/models"
)

// State is the saga's position in the publish sequence.
type State string

const (
	StateCreated               State = "created"
	StatePlaceholderSelected   State = "placeholder_selected"
	StateDeviceAckedPre        State = "device_acked_pre"
	StatePlaceholderReasserted State = "placeholder_reasserted"
	StateUploaded              State = "uploaded"
	StateReconciled            State = "reconciled"
	StateDeviceAckedPost       State = "device_acked_post"
	StateFailed                State = "failed"
)

// session tracks one upload attempt: the target frame, the pending
// identity, the payload and how far the sequence has progressed. A
// session lives for exactly one Upload call and is never resumed; a
// retry means a fresh session, because the selection handshake is not
// safely restartable once the device may be mid-consumption.
type session struct {
	frameID  string
	queueURL string
	ref      models.AssetPartialID

	data      []byte
	extension string

	state       State
	failedStage Stage
}

func newSession(frameID, queueURL, localIdentifier string, data []byte, extension string) *session {
	return &session{
		frameID:   frameID,
		queueURL:  queueURL,
		ref:       models.LocalAssetID(localIdentifier),
		data:      data,
		extension: extension,
		state:     StateCreated,
	}
}

func (s *session) advance(state State) {
	s.state = state
}

func (s *session) fail(stage Stage, err error) *SagaError {
	s.state = StateFailed
	s.failedStage = stage
	return failed(stage, err)
}

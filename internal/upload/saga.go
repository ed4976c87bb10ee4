// Package upload implements the asset publish saga: the multi-step
// workflow that places a locally captured image or video onto a remote
// frame, coordinating the metadata API, the object store and the
// device's acknowledgement queue.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"

	"github.com/auragophers/aurago/internal/common"
	"github.com/auragophers/aurago/internal/logging"
	"github.com/auragophers/aurago/internal/models"
	"github.com/auragophers/aurago/internal/queue"
	"github.com/auragophers/aurago/internal/storage"
)

// FrameSelector is the slice of the frame gateway the saga drives.
type FrameSelector interface {
	SelectAsset(ctx context.Context, frameID string, ref models.AssetPartialID) (int, error)
}

// AssetUpdater is the slice of the asset gateway the saga drives.
type AssetUpdater interface {
	BatchUpdate(ctx context.Context, asset *models.Asset) ([]string, []models.AssetPartialID, error)
}

// BlobUploader puts raw bytes into the object store and reports the
// generated storage key plus a checksum of what was written.
type BlobUploader interface {
	UploadFile(ctx context.Context, data []byte, extension string) (string, string, error)
}

// AckWaiter blocks until the device acknowledges a prior instruction.
type AckWaiter interface {
	WaitForAck(ctx context.Context, queueURL string, match func(queue.AckMessage) bool) (*queue.AckMessage, error)
}

// Orchestrator sequences one logically atomic "add this asset to that
// frame" operation across the three collaborators. It holds no mutable
// state of its own, so one Orchestrator may serve concurrent uploads —
// as long as no two run for the same local identifier at once, which is
// a caller obligation.
type Orchestrator struct {
	frames FrameSelector
	assets AssetUpdater
	blobs  BlobUploader
	acks   AckWaiter
	log    logging.Logger

	now func() time.Time
}

func NewOrchestrator(frames FrameSelector, assets AssetUpdater, blobs BlobUploader, acks AckWaiter, log logging.Logger) *Orchestrator {
	return &Orchestrator{
		frames: frames,
		assets: assets,
		blobs:  blobs,
		acks:   acks,
		log:    log,
		now:    time.Now,
	}
}

// Upload runs the full publish sequence against frame and returns the
// server-confirmed asset record:
//
//  1. select the placeholder, keyed by the local identifier
//  2. wait for the device to acknowledge the placeholder
//  3. re-assert the selection (the vendor protocol requires repeating
//     it after the acknowledgement; do not "optimize" this away)
//  4. upload the bytes and verify the reported checksum
//  5. reconcile metadata via batch update and confirm the local
//     identifier is among the successes
//  6. wait for the device to acknowledge the finalized asset
//
// A failure in any stage aborts the saga and surfaces as *SagaError
// with that stage tagged; nothing is retried here beyond the bounded
// polling inside a single acknowledgement wait. Reconciliation is the
// success boundary: a timeout on the final wait (stage 6) is logged as
// a warning and the upload still counts as complete, because the
// metadata already references the content.
//
// An empty localIdentifier gets a fresh UUID. Re-running with the same
// identifier is safe after failures in stages 1-3; after stage 4-5
// failures, check the record is still local (no remote id) first.
func (o *Orchestrator) Upload(ctx context.Context, frame *models.Frame, data []byte, extension, localIdentifier string) (*models.Asset, error) {
	if localIdentifier == "" {
		localIdentifier = uuid.NewString()
	}
	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}

	s := newSession(frame.ID, frame.ClientQueueURL, localIdentifier, data, extension)
	log := o.log.With("frame_id", s.frameID, "local_identifier", localIdentifier)
	log.Info(ctx, "starting upload", "size", len(data))

	// Stage 1: placeholder selection. A non-zero failure count is an
	// explicit server rejection, not a transient fault.
	if err := o.selectPlaceholder(ctx, s, StageSelect); err != nil {
		return nil, err
	}
	s.advance(StatePlaceholderSelected)

	// Stage 2: the device consumes the placeholder asynchronously; do
	// not upload before it signals readiness.
	match := queue.MatchLocalIdentifier(localIdentifier)
	if _, err := o.acks.WaitForAck(ctx, s.queueURL, match); err != nil {
		return nil, s.fail(StageDeviceAckPre, err)
	}
	s.advance(StateDeviceAckedPre)

	// Stage 3: repeat the selection after the acknowledgement.
	if err := o.selectPlaceholder(ctx, s, StageReselect); err != nil {
		return nil, err
	}
	s.advance(StatePlaceholderReasserted)

	// Stage 4: blob upload with integrity check. The remote metadata
	// must never reference corrupted content.
	wantDigest := storage.MD5Base64(data)
	key, gotDigest, err := o.blobs.UploadFile(ctx, data, extension)
	if err != nil {
		return nil, s.fail(StageUpload, err)
	}
	if gotDigest != wantDigest {
		return nil, s.fail(StageUpload, fmt.Errorf("%w: sent %s, store reports %s",
			common.ErrContentIntegrity, wantDigest, gotDigest))
	}
	s.advance(StateUploaded)
	log.Info(ctx, "blob uploaded", "key", key)

	// Stage 5: metadata reconciliation.
	asset := o.buildAsset(s, key, gotDigest)
	ids, successes, err := o.assets.BatchUpdate(ctx, asset)
	if err != nil {
		return nil, s.fail(StageReconcile, err)
	}
	remoteID, ok := confirmedRemoteID(localIdentifier, ids, successes)
	if !ok {
		return nil, s.fail(StageReconcile, common.ErrReconciliationMismatch)
	}
	asset.ID = &remoteID
	s.advance(StateReconciled)
	log.Info(ctx, "metadata reconciled", "asset_id", remoteID)

	// Stage 6: final acknowledgement. Soft-fails: the record is already
	// reconciled, so the upload stands even if the device is slow.
	if _, err := o.acks.WaitForAck(ctx, s.queueURL, match); err != nil {
		log.Warn(ctx, "device did not confirm finalized asset", "stage", StageDeviceAckPost, "error", err)
		return asset, nil
	}
	s.advance(StateDeviceAckedPost)

	log.Info(ctx, "upload complete", "asset_id", remoteID)
	return asset, nil
}

func (o *Orchestrator) selectPlaceholder(ctx context.Context, s *session, stage Stage) error {
	numFailed, err := o.frames.SelectAsset(ctx, s.frameID, s.ref)
	if err != nil {
		return s.fail(stage, err)
	}
	if numFailed != 0 {
		return s.fail(stage, fmt.Errorf("%w: number_failed=%d", common.ErrRejectedByServer, numFailed))
	}
	return nil
}

// buildAsset assembles the record for reconciliation: the placeholder
// identity plus the storage key and checksum, with image dimensions
// sniffed from the payload when the format allows it.
func (o *Orchestrator) buildAsset(s *session, key, digest string) *models.Asset {
	asset := models.NewLocalAsset(s.ref.LocalIdentifier, o.now())
	asset.FileName = key
	asset.MD5Hash = &digest

	if cfg, format, err := image.DecodeConfig(bytes.NewReader(s.data)); err == nil {
		asset.Width = cfg.Width
		asset.Height = cfg.Height
		if uti, ok := formatUTIs[format]; ok {
			asset.DataUTI = uti
		}
	}
	return asset
}

var formatUTIs = map[string]string{
	"jpeg": "public.jpeg",
	"png":  "public.png",
	"gif":  "com.compuserve.gif",
}

// confirmedRemoteID checks the submitted local identifier appears in the
// batch-update successes and pairs it with the assigned remote id. The
// backend returns ids and successes as parallel lists.
func confirmedRemoteID(localIdentifier string, ids []string, successes []models.AssetPartialID) (string, bool) {
	for i, s := range successes {
		if s.LocalIdentifier != localIdentifier {
			continue
		}
		if i < len(ids) {
			return ids[i], true
		}
		if len(ids) > 0 {
			return ids[0], true
		}
		return "", false
	}
	return "", false
}

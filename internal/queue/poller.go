// Package queue waits for device acknowledgements. Each frame exposes a
// client queue; the physical device posts a message there after it has
// processed a server-side instruction, and the upload saga polls that
// queue before moving on.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/sethvargo/go-retry"

	"github.com/auragophers/aurago/internal/common"
	"github.com/auragophers/aurago/internal/logging"
)

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// AckMessage is one acknowledgement pulled off a frame's queue. Fields
// are best-effort: firmware versions vary in body shape, so Raw always
// carries the original payload.
type AckMessage struct {
	MessageID       string
	Raw             string
	FrameID         string
	AssetID         string
	LocalIdentifier string
	Kind            string
}

func parseAckBody(messageID, raw string) AckMessage {
	m := AckMessage{MessageID: messageID, Raw: raw}

	var body struct {
		FrameID         string `json:"frame_id"`
		AssetID         string `json:"asset_id"`
		LocalIdentifier string `json:"asset_local_identifier"`
		Kind            string `json:"type"`
	}
	if err := json.Unmarshal([]byte(raw), &body); err == nil {
		m.FrameID = body.FrameID
		m.AssetID = body.AssetID
		m.LocalIdentifier = body.LocalIdentifier
		m.Kind = body.Kind
	}
	return m
}

// MatchAny accepts the first message received.
func MatchAny(AckMessage) bool { return true }

// MatchLocalIdentifier accepts a message correlated to the given local
// identifier. Falls back to a substring check for firmwares whose body
// shape we do not parse.
func MatchLocalIdentifier(localIdentifier string) func(AckMessage) bool {
	return func(m AckMessage) bool {
		if m.LocalIdentifier != "" {
			return m.LocalIdentifier == localIdentifier
		}
		return strings.Contains(m.Raw, localIdentifier)
	}
}

// Poller polls a frame's acknowledgement queue with bounded exponential
// backoff between empty receives. The backoff bounds and the overall
// deadline are fields so tests can shrink them to microseconds.
type Poller struct {
	client sqsAPI
	log    logging.Logger

	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Timeout        time.Duration
}

// NewPoller wraps an SQS client. Zero settings get production defaults
// (1s initial backoff, 30s cap, 2m overall).
func NewPoller(client sqsAPI, log logging.Logger) *Poller {
	return &Poller{
		client:         client,
		log:            log,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		Timeout:        2 * time.Minute,
	}
}

// NewPollerFromConfig builds a poller with a real SQS client for the
// given region, using the default AWS credential chain.
func NewPollerFromConfig(ctx context.Context, region string, log logging.Logger) (*Poller, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewPoller(sqs.NewFromConfig(cfg), log), nil
}

// WaitForAck blocks until a message matching the predicate arrives on
// queueURL, the overall deadline lapses, or ctx is cancelled. Matching
// messages are deleted from the queue; messages for other consumers are
// left to reappear after their visibility timeout.
//
// A lapsed deadline returns common.ErrDeviceAckTimeout. Transport errors
// abort the wait immediately and are returned as-is; retrying across
// them is the caller's decision, not the poller's.
func (p *Poller) WaitForAck(ctx context.Context, queueURL string, match func(AckMessage) bool) (*AckMessage, error) {
	backoff := retry.WithMaxDuration(p.Timeout,
		retry.WithCappedDuration(p.MaxBackoff,
			retry.NewExponential(p.InitialBackoff)))

	var matched *AckMessage

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		out, err := p.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueURL),
			MaxNumberOfMessages: 10,
		})
		if err != nil {
			return fmt.Errorf("receive message: %w", err)
		}

		for _, msg := range out.Messages {
			m := parseAckBody(aws.ToString(msg.MessageId), aws.ToString(msg.Body))
			if !match(m) {
				continue
			}

			if _, err := p.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
				QueueUrl:      aws.String(queueURL),
				ReceiptHandle: msg.ReceiptHandle,
			}); err != nil {
				p.log.Warn(ctx, "failed to delete acknowledgement", "message_id", m.MessageID, "error", err)
			}

			matched = &m
			return nil
		}

		return retry.RetryableError(common.ErrDeviceAckTimeout)
	})

	if err != nil {
		if errors.Is(err, common.ErrDeviceAckTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return nil, common.ErrDeviceAckTimeout
		}
		return nil, err
	}
	return matched, nil
}

package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/notify"
	"wedding-rsvp/internal/storage"
)

// ConfirmationMessage is returned to the guest once the RSVP is recorded
const ConfirmationMessage = "回答を受け付けました。ありがとうございます。"

// State is a step of a single submission's lifecycle
type State string

const (
	StateReceived             State = "received"
	StateValidated            State = "validated"
	StateStored               State = "stored"
	StateNotified             State = "notified"
	StateCompleted            State = "completed"
	StateRejectedInvalid      State = "rejected_invalid"
	StateRejectedStoreFailure State = "rejected_store_failure"
	StateFailed               State = "failed"
)

// RecordWriter persists a submission
type RecordWriter interface {
	AppendRecord(ctx context.Context, sub models.Submission) (storage.Ack, error)
}

// Notifier tells the operator about a submission
type Notifier interface {
	Notify(ctx context.Context, sub models.Submission) (string, error)
}

// Result is the outcome of one submission
type Result struct {
	State         State
	SubmissionID  string
	Message       string
	MissingFields []string
	Cause         string
	RecordRef     string
	DeliveryID    string

	// NotifyErr is kept for operators only; it never turns a completed result into a failure
	NotifyErr error
}

// OK reports whether the RSVP was recorded
func (r Result) OK() bool {
	return r.State == StateCompleted
}

// RSVPHandler runs validation, storage and notification for each submission.
// It holds no per-request state and is safe for concurrent use.
type RSVPHandler struct {
	writer   RecordWriter
	notifier Notifier
	log      zerolog.Logger
}

// NewRSVPHandler creates a new RSVP handler
func NewRSVPHandler(writer RecordWriter, notifier Notifier, logger zerolog.Logger) *RSVPHandler {
	return &RSVPHandler{
		writer:   writer,
		notifier: notifier,
		log:      logger.With().Str("component", "RSVP").Logger(),
	}
}

// Submit processes one RSVP form.
// The record is written before the operator is notified: a failed write rejects
// the request and skips notification, a failed or panicking notifier is only logged.
func (h *RSVPHandler) Submit(ctx context.Context, form models.Form) (res Result) {
	log := h.log
	state := StateReceived

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("state", string(state)).Msg("Unexpected error handling RSVP")
			res = Result{
				State:        StateFailed,
				SubmissionID: res.SubmissionID,
				Cause:        fmt.Sprint(r),
			}
		}
	}()

	transition := func(next State) {
		log.Debug().Str("from", string(state)).Str("to", string(next)).Msg("State transition")
		state = next
	}

	sub, err := models.NewSubmission(form)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			transition(StateRejectedInvalid)
			log.Warn().Strs("missing", verr.Missing).Msg("RSVP rejected: missing required fields")
			return Result{State: StateRejectedInvalid, MissingFields: verr.Missing, Cause: err.Error()}
		}
		return h.unexpected(log, err, res)
	}

	res.SubmissionID = sub.ID
	log = log.With().Str("submission_id", sub.ID).Logger()
	transition(StateValidated)

	ack, err := h.writer.AppendRecord(ctx, sub)
	if err != nil {
		var werr *storage.WriteError
		if !errors.As(err, &werr) {
			return h.unexpected(log, err, res)
		}
		transition(StateRejectedStoreFailure)
		log.Error().Err(err).Msg("RSVP rejected: failed to store record")
		return Result{State: StateRejectedStoreFailure, SubmissionID: sub.ID, Cause: werr.Cause}
	}
	res.RecordRef = ack.Ref
	transition(StateStored)

	deliveryID, err := h.safeNotify(ctx, sub)
	if err != nil {
		log.Error().Err(err).Str("record", ack.Ref).Msg("Failed to notify operator; RSVP is stored")
		res.NotifyErr = err
	}
	res.DeliveryID = deliveryID
	transition(StateNotified)

	transition(StateCompleted)
	log.Info().
		Str("attendance", sub.Attendance.String()).
		Str("record", ack.Ref).
		Bool("notified", err == nil).
		Msg("RSVP recorded")

	res.State = StateCompleted
	res.Message = ConfirmationMessage
	return res
}

func (h *RSVPHandler) unexpected(log zerolog.Logger, err error, res Result) Result {
	log.Error().Err(err).Msg("Unexpected error handling RSVP")
	return Result{State: StateFailed, SubmissionID: res.SubmissionID, Cause: err.Error()}
}

// safeNotify runs the notifier with its own recover so a panic after the
// record is stored is reported like any other notification failure.
func (h *RSVPHandler) safeNotify(ctx context.Context, sub models.Submission) (id string, err error) {
	defer func() {
		if r := recover(); r != nil {
			id, err = "", &notify.NotifyError{Cause: fmt.Sprint(r)}
		}
	}()
	return h.notifier.Notify(ctx, sub)
}

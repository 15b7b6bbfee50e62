package notify

import (
	"context"
	"fmt"
	"strings"

	"wedding-rsvp/internal/models"
)

const (
	bodyHeader  = "結婚式の出欠回答が届きました。"
	placeholder = "記載なし"
)

// Sender dispatches a plain-text message to the operator and returns a delivery id
type Sender interface {
	Send(ctx context.Context, subject, body string) (string, error)
}

// NotifyError reports that the operator notification could not be delivered
type NotifyError struct {
	Cause string
	Err   error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("failed to send notification: %s", e.Cause)
}

func (e *NotifyError) Unwrap() error { return e.Err }

// Notifier composes the operator notification for a submission
type Notifier struct {
	sender Sender
}

// NewNotifier creates a new notifier
func NewNotifier(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

// Notify sends one notification for the submission. It does not retry.
func (n *Notifier) Notify(ctx context.Context, sub models.Submission) (string, error) {
	id, err := n.sender.Send(ctx, Subject(sub), Body(sub))
	if err != nil {
		return "", &NotifyError{Cause: err.Error(), Err: err}
	}
	return id, nil
}

// Subject returns the notification subject line
func Subject(sub models.Submission) string {
	return fmt.Sprintf("結婚式出欠回答: %s様 (%s)", sub.Name, sub.Attendance.Label())
}

// Body returns the plain-text notification body
func Body(sub models.Submission) string {
	var b strings.Builder
	b.WriteString(bodyHeader + "\n\n")
	fmt.Fprintf(&b, "お名前: %s\n", sub.Name)
	fmt.Fprintf(&b, "ふりがな: %s\n", sub.Kana)
	fmt.Fprintf(&b, "出欠: %s\n", sub.Attendance.Label())
	fmt.Fprintf(&b, "メールアドレス: %s\n\n", sub.Email)
	fmt.Fprintf(&b, "アレルギー:\n%s\n\n", orPlaceholder(sub.Allergy))
	fmt.Fprintf(&b, "メッセージ:\n%s", orPlaceholder(sub.Message))
	return b.String()
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

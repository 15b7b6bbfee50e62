package notify

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-rsvp/internal/models"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("ses-123")}, nil
}

func TestSESSenderSend(t *testing.T) {
	client := &fakeSES{}
	s := NewSESSender(client, "from@example.com", "to@example.com")

	id, err := s.Send(context.Background(), "件名", "本文")
	require.NoError(t, err)
	assert.Equal(t, "ses-123", id)

	in := client.input
	assert.Equal(t, "from@example.com", aws.ToString(in.FromEmailAddress))
	assert.Equal(t, []string{"to@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "件名", aws.ToString(in.Content.Simple.Subject.Data))
	assert.Equal(t, "本文", aws.ToString(in.Content.Simple.Body.Text.Data))
	assert.Equal(t, "UTF-8", aws.ToString(in.Content.Simple.Body.Text.Charset))
}

func TestSESSenderAPIError(t *testing.T) {
	client := &fakeSES{err: &smithy.GenericAPIError{Code: "MessageRejected", Message: "Email address is not verified."}}
	s := NewSESSender(client, "from@example.com", "to@example.com")

	_, err := s.Send(context.Background(), "s", "b")
	assert.ErrorContains(t, err, "MessageRejected")
	assert.ErrorContains(t, err, "Email address is not verified.")

	_, err = NewNotifier(s).Notify(context.Background(), models.Submission{})
	var nerr *NotifyError
	require.ErrorAs(t, err, &nerr)
	var apiErr smithy.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "MessageRejected", apiErr.ErrorCode())
}

func TestLogSender(t *testing.T) {
	id, err := NewLogSender(zerolog.Nop()).Send(context.Background(), "s", "b")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/rentflow/internal/lib/twilio"
)

type MockSMSClient struct {
	mock.Mock
}

func (m *MockSMSClient) SendSMS(ctx context.Context, to, body string) (*twilio.MessageResponse, error) {
	args := m.Called(ctx, to, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*twilio.MessageResponse), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, html string) error {
	args := m.Called(ctx, to, subject, html)
	return args.Error(0)
}

func TestSMS_Send(t *testing.T) {
	tests := []struct {
		name      string
		msg       Message
		setupMock func(m *MockSMSClient)
		wantErr   error
	}{
		{
			name: "sent",
			msg:  Message{To: "4165550123", Text: "hello"},
			setupMock: func(m *MockSMSClient) {
				m.On("SendSMS", mock.Anything, "4165550123", "hello").
					Return(&twilio.MessageResponse{SID: "SM1"}, nil).Once()
			},
		},
		{
			name:      "no recipient",
			msg:       Message{Text: "hello"},
			setupMock: func(_ *MockSMSClient) {},
			wantErr:   ErrNoRecipient,
		},
		{
			name: "provider error",
			msg:  Message{To: "4165550123", Text: "hello"},
			setupMock: func(m *MockSMSClient) {
				m.On("SendSMS", mock.Anything, "4165550123", "hello").
					Return(nil, twilio.ErrNotConfigured).Once()
			},
			wantErr: twilio.ErrNotConfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockSMSClient)
			tt.setupMock(client)

			gw := NewSMS(client)
			assert.Equal(t, ChannelSMS, gw.Channel())

			err := gw.Send(context.Background(), tt.msg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			client.AssertExpectations(t)
		})
	}
}

func TestEmail_Send(t *testing.T) {
	mailer := new(MockMailer)
	mailer.On("Send", mock.Anything, "jane@example.com", "Rent", "<p>Pay &lt;now&gt;</p>").Return(nil).Once()
	mailer.On("Send", mock.Anything, "jane@example.com", "Custom", "<b>x</b>").Return(errors.New("550")).Once()

	gw := NewEmail(mailer)
	assert.Equal(t, ChannelEmail, gw.Channel())

	require.NoError(t, gw.Send(context.Background(), Message{To: "jane@example.com", Subject: "Rent", Text: "Pay <now>"}))
	require.Error(t, gw.Send(context.Background(), Message{To: "jane@example.com", Subject: "Custom", HTML: "<b>x</b>"}))
	require.ErrorIs(t, gw.Send(context.Background(), Message{Subject: "x"}), ErrNoRecipient)
	mailer.AssertExpectations(t)
}

func TestTextToHTML(t *testing.T) {
	assert.Equal(t, "<p>a &amp; b</p><p>c<br>d</p>", TextToHTML("a & b\n\nc\nd\n\n"))
	assert.Empty(t, TextToHTML("  "))
}

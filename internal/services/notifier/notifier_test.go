package notifier

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/dramabox/internal/lib/smtp"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) Sender() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type bufWriter struct {
	bytes.Buffer
	closed bool
}

func (w *bufWriter) Close() error {
	w.closed = true
	return nil
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const vipBody = `{"member_id":7,"username":"alice","email":"alice@example.com","expiry_date":"2025-03-02T00:00:00Z"}`

func TestService_Send(t *testing.T) {
	tests := []struct {
		name        string
		send        func(*Service, []byte) error
		body        string
		setupMocks  func(*MockTransport, *MockSMTPClient)
		wantErr     string
		wantInEmail []string
	}{
		{
			name: "expiring",
			send: (*Service).SendVipExpiring,
			body: vipBody,
			setupMocks: func(tr *MockTransport, c *MockSMTPClient) {
				tr.On("Connect").Return(c, nil).Once()
				c.On("Mail", "robot@example.com").Return(nil).Once()
				c.On("Rcpt", "alice@example.com").Return(nil).Once()
				c.On("Quit").Return(nil).Once()
				c.On("Close").Return(nil).Once()
			},
			wantInEmail: []string{"To: alice@example.com", "Subject: Drama Short: VIP заканчивается завтра", "2025-03-02", "alice"},
		},
		{
			name: "expired",
			send: (*Service).SendVipExpired,
			body: vipBody,
			setupMocks: func(tr *MockTransport, c *MockSMTPClient) {
				tr.On("Connect").Return(c, nil).Once()
				c.On("Mail", "robot@example.com").Return(nil).Once()
				c.On("Rcpt", "alice@example.com").Return(nil).Once()
				c.On("Quit").Return(nil).Once()
				c.On("Close").Return(nil).Once()
			},
			wantInEmail: []string{"Subject: Drama Short: VIP закончился", "2025-03-02"},
		},
		{
			name:       "invalid JSON",
			send:       (*Service).SendVipExpiring,
			body:       `invalid json`,
			setupMocks: func(_ *MockTransport, _ *MockSMTPClient) {},
			wantErr:    "notifier.SendVipExpiring",
		},
		{
			name: "SMTP connection error",
			send: (*Service).SendVipExpired,
			body: vipBody,
			setupMocks: func(tr *MockTransport, _ *MockSMTPClient) {
				tr.On("Connect").Return(nil, errors.New("connection error")).Once()
			},
			wantErr: "connection error",
		},
		{
			name: "recipient rejected",
			send: (*Service).SendVipExpiring,
			body: vipBody,
			setupMocks: func(tr *MockTransport, c *MockSMTPClient) {
				tr.On("Connect").Return(c, nil).Once()
				c.On("Mail", "robot@example.com").Return(nil).Once()
				c.On("Rcpt", "alice@example.com").Return(errors.New("550 no such user")).Once()
				c.On("Close").Return(nil).Once()
			},
			wantErr: "550 no such user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			client := new(MockSMTPClient)
			writer := &bufWriter{}
			transport.On("Sender").Return("robot@example.com").Maybe()
			client.On("Data").Return(writer, nil).Maybe()
			tt.setupMocks(transport, client)

			s := NewService(transport, "Drama Short", newNoopLogger())
			err := tt.send(s, []byte(tt.body))

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.True(t, writer.closed)
				for _, want := range tt.wantInEmail {
					assert.Contains(t, writer.String(), want)
				}
			}
			transport.AssertExpectations(t)
			client.AssertExpectations(t)
		})
	}
}

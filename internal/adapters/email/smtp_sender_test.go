package email

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type mockDialer struct {
	mock.Mock
}

func (m *mockDialer) DialAndSend(msgs ...*gomail.Message) error {
	args := m.Called(msgs)
	return args.Error(0)
}

func newTestSender(d dialer) *smtpSender {
	return &smtpSender{dialer: d, from: "noreply@example.com", log: zerolog.Nop()}
}

func TestSMTPSender_BuildsMessage(t *testing.T) {
	d := new(mockDialer)
	d.On("DialAndSend", mock.MatchedBy(func(msgs []*gomail.Message) bool {
		if len(msgs) != 1 {
			return false
		}
		m := msgs[0]
		return m.GetHeader("To")[0] == "member@example.com" &&
			m.GetHeader("From")[0] == "noreply@example.com" &&
			m.GetHeader("Subject")[0] == "Welcome"
	})).Return(nil).Once()

	err := newTestSender(d).Send(context.Background(), "member@example.com", "Welcome", "<p>hi</p>")
	require.NoError(t, err)
	d.AssertExpectations(t)
}

func TestSMTPSender_PropagatesFailure(t *testing.T) {
	d := new(mockDialer)
	d.On("DialAndSend", mock.Anything).Return(errors.New("connection refused")).Once()

	err := newTestSender(d).Send(context.Background(), "member@example.com", "Welcome", "<p>hi</p>")
	assert.ErrorContains(t, err, "connection refused")
}

func TestSMTPSender_CancelledContext(t *testing.T) {
	d := new(mockDialer)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestSender(d).Send(ctx, "member@example.com", "Welcome", "")
	assert.ErrorIs(t, err, context.Canceled)
	d.AssertNotCalled(t, "DialAndSend", mock.Anything)
}

func TestNewSMTPSender_FromDefaultsToUser(t *testing.T) {
	nopLogger := zerolog.Nop()
	s := NewSMTPSender("smtp.example.com", 587, "bot@example.com", "pw", "", &nopLogger).(*smtpSender)
	assert.Equal(t, "bot@example.com", s.from)
}

func TestLogSender_NeverFails(t *testing.T) {
	nopLogger := zerolog.Nop()
	assert.NoError(t, NewLogSender(&nopLogger).Send(context.Background(), "a@b.c", "s", "b"))
}

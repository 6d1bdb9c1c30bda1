package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExpirer struct {
	expired int
	err     error
	calls   int
}

func (s *stubExpirer) ExpireClosedWeeks(context.Context) (int, error) {
	s.calls++
	return s.expired, s.err
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := NewScheduler("every now and then", &stubExpirer{}, log)
	assert.Error(t, err)
}

func TestRunExpiryLogs(t *testing.T) {
	log, hook := test.NewNullLogger()
	expirer := &stubExpirer{expired: 2}
	s, err := NewScheduler("@every 1h", expirer, log)
	require.NoError(t, err)

	s.RunExpiry()
	assert.Equal(t, 1, expirer.calls)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, 2, hook.LastEntry().Data["expired"])

	expirer.err = errors.New("db down")
	s.RunExpiry()
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)

	s.Start()
	s.Stop(context.Background())
}

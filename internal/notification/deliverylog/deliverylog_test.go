package deliverylog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"bizsuite/internal/notification/models"
	id "bizsuite/pkg/domain"
	"bizsuite/pkg/platform/circuit"
	"bizsuite/pkg/requestcontext"
)

type flakyStore struct {
	*InMemoryStore
	mu    sync.Mutex
	err   error
	calls int
}

func (s *flakyStore) Append(ctx context.Context, records []Record) error {
	s.mu.Lock()
	s.calls++
	err := s.err
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.InMemoryStore.Append(ctx, records)
}

func (s *flakyStore) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

type RecorderSuite struct {
	suite.Suite
	store  *flakyStore
	tenant id.TenantID
}

func TestRecorderSuite(t *testing.T) {
	suite.Run(t, new(RecorderSuite))
}

func (s *RecorderSuite) SetupTest() {
	s.store = &flakyStore{InMemoryStore: NewInMemoryStore()}
	s.tenant = id.TenantID(uuid.New())
}

func (s *RecorderSuite) outcome(status models.Status) models.Outcome {
	return models.Outcome{
		EventID:   id.NewEventID(),
		EventType: "employee.created",
		TenantID:  s.tenant,
		Key:       models.KeyNewEmployee,
		Channel:   models.ChannelTelegram,
		Status:    status,
	}
}

func (s *RecorderSuite) list() []Record {
	records, err := s.store.ListByTenant(context.Background(), s.tenant, 100)
	s.Require().NoError(err)
	return records
}

func (s *RecorderSuite) TestNew() {
	s.Run("nil store", func() {
		r, err := New(nil)
		s.Require().Error(err)
		s.Nil(r)
	})
	s.Run("defaults", func() {
		r, err := New(s.store, nil)
		s.Require().NoError(err)
		s.Equal(defaultBatchSize, r.batchSize)
		s.Equal(defaultFlushInterval, r.flushInterval)
	})
}

func (s *RecorderSuite) TestRecordAndFlush() {
	r, err := New(s.store)
	s.Require().NoError(err)

	ctx := requestcontext.WithRequestID(context.Background(), "req-42")
	failed := s.outcome(models.StatusSendFailed)
	failed.Err = errors.New("telegram: status 502")
	r.Record(ctx, []models.Outcome{s.outcome(models.StatusSent), failed})
	s.Equal(2, r.Pending())

	r.Flush(context.Background())
	s.Zero(r.Pending())

	records := s.list()
	s.Require().Len(records, 2)
	s.Equal(models.StatusSendFailed, records[0].Status)
	s.Equal("telegram: status 502", records[0].Error)
	s.Equal("req-42", records[0].RequestID)
	s.Equal(models.StatusSent, records[1].Status)
	s.Empty(records[1].Error)
	s.False(records[1].RecordedAt.IsZero())
}

func (s *RecorderSuite) TestSamplingSkipsDisabled() {
	r, err := New(s.store, WithSampler(NewSampler(0)))
	s.Require().NoError(err)

	r.Record(context.Background(), []models.Outcome{
		s.outcome(models.StatusDisabled),
		s.outcome(models.StatusIncomplete),
	})
	r.Flush(context.Background())

	records := s.list()
	s.Require().Len(records, 1)
	s.Equal(models.StatusIncomplete, records[0].Status)
}

func (s *RecorderSuite) TestBatchesRespectSize() {
	r, err := New(s.store, WithBatchSize(2))
	s.Require().NoError(err)

	outcomes := make([]models.Outcome, 5)
	for i := range outcomes {
		outcomes[i] = s.outcome(models.StatusSent)
	}
	r.Record(context.Background(), outcomes)
	r.Flush(context.Background())

	s.Len(s.list(), 5)
	s.Equal(3, s.store.calls)
}

func (s *RecorderSuite) TestFullBufferEvictsOldest() {
	r, err := New(s.store, WithBufferSize(2))
	s.Require().NoError(err)

	first := s.outcome(models.StatusSent)
	second := s.outcome(models.StatusSent)
	third := s.outcome(models.StatusSent)
	r.Record(context.Background(), []models.Outcome{first, second, third})
	s.Equal(2, r.Pending())
	s.EqualValues(1, r.buffer.droppedTotal())

	r.Flush(context.Background())
	records := s.list()
	s.Require().Len(records, 2)
	s.Equal(third.EventID, records[0].EventID)
	s.Equal(second.EventID, records[1].EventID)
}

func (s *RecorderSuite) TestStoreFailureOpensBreaker() {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	breaker := circuit.New("test",
		circuit.WithFailureThreshold(2),
		circuit.WithCooldown(time.Minute),
		circuit.WithClock(func() time.Time { return now }),
	)
	r, err := New(s.store, WithBreaker(breaker), WithBatchSize(1))
	s.Require().NoError(err)
	s.store.fail(errors.New("connection refused"))

	for range 3 {
		r.Record(context.Background(), []models.Outcome{s.outcome(models.StatusSent)})
		r.Flush(context.Background())
	}
	s.True(breaker.IsOpen())
	s.Equal(2, s.store.calls, "open circuit skips the store")
	s.Zero(r.Pending(), "batches are dropped, not retried")

	s.store.fail(nil)
	now = now.Add(2 * time.Minute)
	r.Record(context.Background(), []models.Outcome{s.outcome(models.StatusSent)})
	r.Flush(context.Background())
	s.False(breaker.IsOpen())
	s.Len(s.list(), 1)
}

func (s *RecorderSuite) TestRunFlushesOnCancel() {
	r, err := New(s.store, WithFlushInterval(time.Hour))
	s.Require().NoError(err)
	r.Record(context.Background(), []models.Outcome{s.outcome(models.StatusSent)})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(time.Second):
		s.FailNow("Run did not return after cancellation")
	}
	s.Len(s.list(), 1)
}

func (s *RecorderSuite) TestRunFlushesOnTick() {
	r, err := New(s.store, WithFlushInterval(10*time.Millisecond))
	s.Require().NoError(err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	r.Record(context.Background(), []models.Outcome{s.outcome(models.StatusSent)})
	s.Eventually(func() bool { return r.Pending() == 0 && len(s.list()) == 1 }, time.Second, 5*time.Millisecond)
}

func (s *RecorderSuite) TestRunFlushesFullBatchBeforeTick() {
	r, err := New(s.store, WithFlushInterval(time.Hour), WithBatchSize(2))
	s.Require().NoError(err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	r.Record(context.Background(), []models.Outcome{s.outcome(models.StatusSent)})
	s.Never(func() bool { return len(s.list()) > 0 }, 50*time.Millisecond, 5*time.Millisecond,
		"a partial batch waits for the tick")

	r.Record(context.Background(), []models.Outcome{s.outcome(models.StatusSendFailed)})
	s.Eventually(func() bool { return r.Pending() == 0 && len(s.list()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestSampler(t *testing.T) {
	t.Run("rates are clamped", func(t *testing.T) {
		s := NewSampler(-1)
		assert.False(t, s.Keep(models.StatusDisabled))
		s.SetRate(models.StatusDisabled, 7)
		assert.True(t, s.Keep(models.StatusDisabled))
	})
	t.Run("other statuses use the default", func(t *testing.T) {
		s := NewSampler(0)
		assert.True(t, s.Keep(models.StatusSent))
		assert.True(t, s.Keep(models.StatusTemplateMissing))
	})
	t.Run("fractional rate compares against the draw", func(t *testing.T) {
		s := NewSampler(0.25)
		s.random = func() float64 { return 0.2 }
		assert.True(t, s.Keep(models.StatusDisabled))
		s.random = func() float64 { return 0.3 }
		assert.False(t, s.Keep(models.StatusDisabled))
	})
}

func TestInMemoryStore_ListByTenant(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	tenant := id.TenantID(uuid.New())
	other := id.TenantID(uuid.New())

	require.NoError(t, store.Append(ctx, []Record{
		{TenantID: tenant, EventType: "a"},
		{TenantID: other, EventType: "b"},
		{TenantID: tenant, EventType: "c"},
	}))

	records, err := store.ListByTenant(ctx, tenant, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "c", records[0].EventType)

	records, err = store.ListByTenant(ctx, id.TenantID(uuid.New()), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFromOutcomeTruncatesError(t *testing.T) {
	long := make([]byte, maxErrorLen*2)
	for i := range long {
		long[i] = 'x'
	}
	r := fromOutcome(models.Outcome{Status: models.StatusSendFailed, Err: errors.New(string(long))}, "", time.Now())
	assert.Len(t, r.Error, maxErrorLen)
}

package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Skufu/riskscope/internal/history"
	"github.com/Skufu/riskscope/internal/history/mocks"
	"github.com/Skufu/riskscope/internal/measure"
	"github.com/Skufu/riskscope/internal/risk"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func entry(n int) history.Entry {
	return history.Entry{
		ID:            history.NewID(),
		ConditionID:   "diabetes",
		ConditionName: "Diabetes",
		Score:         10 * n,
		Tier:          risk.TierFromScore(10 * n),
		Measurements: measure.Measurements{
			"age":            measure.Number(float64(40 + n)),
			"family_history": measure.Text("no"),
		},
		Timestamp: base.Add(time.Duration(n) * time.Hour),
	}
}

// exerciseStore runs the behaviour every Store backend must share.
func exerciseStore(t *testing.T, s history.Store) {
	t.Helper()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Append(ctx, entry(i)))
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, 50, all[0].Score, "newest first")
	assert.Equal(t, risk.TierModerate, all[2].Tier)
	assert.Equal(t, measure.Number(45), all[0].Measurements["age"])
	assert.Equal(t, measure.Text("no"), all[0].Measurements["family_history"])
	assert.True(t, base.Add(5*time.Hour).Equal(all[0].Timestamp))

	two, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, 40, two[1].Score)

	removed, err := s.Prune(ctx, base.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	rest, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, rest, 3)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, history.NewMemoryStore())
}

func TestMemoryStore_ConcurrentAppend(t *testing.T) {
	s := history.NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Append(context.Background(), entry(1)))
		}()
	}
	wg.Wait()

	all, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 50)
}

func TestMemoryStore_CopiesMeasurements(t *testing.T) {
	s := history.NewMemoryStore()
	e := entry(1)
	require.NoError(t, s.Append(context.Background(), e))
	e.Measurements["age"] = measure.Number(99)

	all, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, measure.Number(41), all[0].Measurements["age"])
}

func TestSQLiteStore(t *testing.T) {
	s, err := history.OpenSQLite(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Ping(context.Background()))
	exerciseStore(t, s)
}

func TestSQLiteStore_RejectsDuplicateID(t *testing.T) {
	s, err := history.OpenSQLite(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	e := entry(1)
	require.NoError(t, s.Append(context.Background(), e))
	assert.Error(t, s.Append(context.Background(), e))
}

func TestNewID_TimeOrdered(t *testing.T) {
	a := history.NewID()
	time.Sleep(2 * time.Millisecond)
	b := history.NewID()

	ua, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), ua.Version())
	assert.Less(t, a, b)
}

func TestFanout_WritesEverywhere(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockStore(ctrl)
	extra := mocks.NewMockSink(ctrl)
	e := entry(2)

	primary.EXPECT().Append(gomock.Any(), e).Return(nil)
	extra.EXPECT().Append(gomock.Any(), e).Return(nil)

	f := history.NewFanout(primary, extra)
	require.NoError(t, f.Append(context.Background(), e))
}

func TestFanout_ReportsExtraFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockStore(ctrl)
	extra := mocks.NewMockSink(ctrl)
	boom := errors.New("broker down")

	primary.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
	extra.EXPECT().Append(gomock.Any(), gomock.Any()).Return(boom)

	f := history.NewFanout(primary, extra)
	err := f.Append(context.Background(), entry(1))
	assert.ErrorIs(t, err, boom)

	var sinkErr *history.SinkError
	require.ErrorAs(t, err, &sinkErr)
	assert.NotEqual(t, "primary", sinkErr.Sink)
}

// slowStore finishes its write after delay unless ctx is cancelled first.
type slowStore struct {
	*history.MemoryStore
	delay time.Duration
}

func (s slowStore) Append(ctx context.Context, e history.Entry) error {
	select {
	case <-time.After(s.delay):
		return s.MemoryStore.Append(ctx, e)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestFanout_ExtraFailureKeepsPrimaryWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := slowStore{MemoryStore: history.NewMemoryStore(), delay: 50 * time.Millisecond}
	extra := mocks.NewMockSink(ctrl)
	boom := errors.New("kafka down")
	extra.EXPECT().Append(gomock.Any(), gomock.Any()).Return(boom)

	f := history.NewFanout(primary, extra)
	err := f.Append(context.Background(), entry(1))
	require.ErrorIs(t, err, boom)

	var sinkErr *history.SinkError
	require.ErrorAs(t, err, &sinkErr)
	assert.NotEqual(t, "primary", sinkErr.Sink)

	stored, err := primary.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, stored, 1, "primary write must survive an extra sink failure")
}

func TestFanout_ReportsPrimaryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockStore(ctrl)
	extra := mocks.NewMockSink(ctrl)
	boom := errors.New("disk full")

	primary.EXPECT().Append(gomock.Any(), gomock.Any()).Return(boom)
	extra.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	err := history.NewFanout(primary, extra).Append(context.Background(), entry(1))
	var sinkErr *history.SinkError
	require.ErrorAs(t, err, &sinkErr)
	assert.Equal(t, "primary", sinkErr.Sink)
	assert.ErrorIs(t, err, boom)
}

func TestFanout_ReadsFromPrimary(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockStore(ctrl)
	want := []history.Entry{entry(3)}

	primary.EXPECT().List(gomock.Any(), 10).Return(want, nil)
	primary.EXPECT().Prune(gomock.Any(), base).Return(int64(4), nil)
	primary.EXPECT().Close().Return(nil)

	f := history.NewFanout(primary)
	got, err := f.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	n, err := f.Prune(context.Background(), base)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	assert.NoError(t, f.Close())
	assert.Equal(t, history.Store(primary), f.Unwrap())
}

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type rateLimited struct {
	after time.Duration
}

func (e rateLimited) Error() string             { return "rate limited" }
func (e rateLimited) RetryAfter() time.Duration { return e.after }

var errPermanent = errors.New("permanent")

type recorder struct {
	delays []time.Duration
}

func (r *recorder) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	rec := &recorder{}
	calls := 0

	err := Do(context.Background(), Policy{
		MaxAttempts: 3,
		Delay:       ServerOr(Exponential(time.Second)),
		Sleep:       rec.sleep,
	}, func(context.Context) error {
		calls++
		if calls < 3 {
			return rateLimited{after: time.Second}
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, []time.Duration{time.Second, time.Second}, rec.delays)
}

func TestDo_Exhausted(t *testing.T) {
	rec := &recorder{}
	calls := 0

	err := Do(context.Background(), Policy{MaxAttempts: 3, Sleep: rec.sleep}, func(context.Context) error {
		calls++
		return rateLimited{}
	})

	var rl rateLimited
	require.ErrorAs(t, err, &rl)
	require.Equal(t, 3, calls)
	require.Len(t, rec.delays, 2)
}

func TestDo_MaxDelay(t *testing.T) {
	tests := []struct {
		name        string
		after       time.Duration
		wantCalls   int
		wantDelays  []time.Duration
		wantTooLong bool
	}{
		{name: "within bound", after: 2 * time.Second, wantCalls: 3, wantDelays: []time.Duration{2 * time.Second, 2 * time.Second}},
		{name: "equal to bound", after: 5 * time.Second, wantCalls: 3, wantDelays: []time.Duration{5 * time.Second, 5 * time.Second}},
		{name: "above bound", after: 10 * time.Minute, wantCalls: 1, wantTooLong: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			calls := 0

			err := Do(context.Background(), Policy{
				MaxAttempts: 3,
				Delay:       ServerOr(Exponential(time.Second)),
				Sleep:       rec.sleep,
				MaxDelay:    5 * time.Second,
			}, func(context.Context) error {
				calls++
				return rateLimited{after: tt.after}
			})

			require.Error(t, err)
			require.Equal(t, tt.wantCalls, calls)
			require.Equal(t, tt.wantDelays, rec.delays)

			var rl rateLimited
			require.ErrorAs(t, err, &rl)

			var tooLong *DelayTooLongError
			require.Equal(t, tt.wantTooLong, errors.As(err, &tooLong))
			if tt.wantTooLong {
				require.Equal(t, tt.after, tooLong.Delay)
			}
		})
	}
}

func TestDo_NotRetryable(t *testing.T) {
	rec := &recorder{}
	calls := 0

	err := Do(context.Background(), Policy{
		MaxAttempts: 3,
		Retryable: func(err error) bool {
			var sd ServerDelay
			return errors.As(err, &sd)
		},
		Sleep: rec.sleep,
	}, func(context.Context) error {
		calls++
		return errPermanent
	})

	require.ErrorIs(t, err, errPermanent)
	require.Equal(t, 1, calls)
	require.Empty(t, rec.delays)
}

func TestDo_ContextCancelledWhileSleeping(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, Policy{MaxAttempts: 3, Delay: Exponential(time.Hour)}, func(context.Context) error {
		calls++
		return errPermanent
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func TestExponential(t *testing.T) {
	delay := Exponential(time.Second)
	require.Equal(t, time.Second, delay(1, nil))
	require.Equal(t, 2*time.Second, delay(2, nil))
	require.Equal(t, 4*time.Second, delay(3, nil))
}

func TestServerOr(t *testing.T) {
	delay := ServerOr(Exponential(time.Second))
	require.Equal(t, 1500*time.Millisecond, delay(1, rateLimited{after: 1500 * time.Millisecond}))
	require.Equal(t, 2*time.Second, delay(2, rateLimited{}))
	require.Equal(t, 4*time.Second, delay(3, errPermanent))
}

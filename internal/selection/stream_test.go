package selection_test

import (
	"testing"
	"time"

	"github.com/deevus/compliance-tui/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, sub *selection.Subscription[T]) T {
	t.Helper()
	select {
	case v, ok := <-sub.C:
		require.True(t, ok, "subscription closed")
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestStream_ReplaysCurrentValue(t *testing.T) {
	s := selection.NewStreamWith("aws-all")
	sub := s.Subscribe()
	defer sub.Close()

	assert.Equal(t, "aws-all", receive(t, sub))
}

func TestStream_EmptyDoesNotReplay(t *testing.T) {
	s := selection.NewStream[string]()
	sub := s.Subscribe()
	defer sub.Close()

	select {
	case v := <-sub.C:
		t.Fatalf("unexpected value %q", v)
	default:
	}

	_, ok := s.Current()
	assert.False(t, ok)
}

func TestStream_PublishReachesAllSubscribers(t *testing.T) {
	s := selection.NewStream[int]()
	a := s.Subscribe()
	b := s.Subscribe()
	defer a.Close()
	defer b.Close()

	s.Publish(7)

	assert.Equal(t, 7, receive(t, a))
	assert.Equal(t, 7, receive(t, b))
}

func TestStream_SlowSubscriberSeesLatest(t *testing.T) {
	s := selection.NewStream[int]()
	sub := s.Subscribe()
	defer sub.Close()

	s.Publish(1)
	s.Publish(2)
	s.Publish(3)

	assert.Equal(t, 3, receive(t, sub))
	select {
	case v := <-sub.C:
		t.Fatalf("expected no further values, got %d", v)
	default:
	}
}

func TestSubscription_CloseStopsDelivery(t *testing.T) {
	s := selection.NewStream[string]()
	sub := s.Subscribe()
	sub.Close()
	sub.Close()

	s.Publish("ignored")

	_, ok := <-sub.C
	assert.False(t, ok, "expected closed channel")
}

func TestStream_CloseClosesSubscribers(t *testing.T) {
	s := selection.NewStreamWith("x")
	sub := s.Subscribe()
	assert.Equal(t, "x", receive(t, sub))

	s.Close()
	_, ok := <-sub.C
	assert.False(t, ok)

	late := s.Subscribe()
	_, ok = <-late.C
	assert.False(t, ok)

	// Closing after the stream is closed is a no-op.
	sub.Close()
	late.Close()
}

func TestService_SelectAssetGroup(t *testing.T) {
	svc := selection.NewService("aws-all", nil)
	defer svc.Close()

	filters, ok := svc.Filters.Current()
	require.True(t, ok)
	assert.NotNil(t, filters)

	assert.False(t, svc.SelectAssetGroup("aws-all"))
	assert.True(t, svc.SelectAssetGroup("azure"))

	cur, _ := svc.AssetGroups.Current()
	assert.Equal(t, "azure", cur)
}

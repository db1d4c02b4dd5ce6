package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNotify_ExpiresAfterTTL(t *testing.T) {
	n := New(3*time.Second, zap.NewNop())
	base := time.Now()
	n.now = func() time.Time { return base }

	n.Notify("item added to cart")
	require.Len(t, n.Active(), 1)

	n.now = func() time.Time { return base.Add(2 * time.Second) }
	assert.Len(t, n.Active(), 1)

	n.now = func() time.Time { return base.Add(3 * time.Second) }
	assert.Empty(t, n.Active())
}

func TestNotify_NoDeduplication(t *testing.T) {
	n := New(time.Minute, zap.NewNop())

	n.Notify("coupon applied")
	n.Notify("coupon applied")

	active := n.Active()
	require.Len(t, active, 2)
	assert.NotEqual(t, active[0].ID, active[1].ID)
}

func TestNotify_EachMessageExpiresIndependently(t *testing.T) {
	n := New(3*time.Second, zap.NewNop())
	base := time.Now()
	n.now = func() time.Time { return base }

	n.Notify("first")
	n.now = func() time.Time { return base.Add(2 * time.Second) }
	n.Notify("second")

	n.now = func() time.Time { return base.Add(4 * time.Second) }
	active := n.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "second", active[0].Message)
}

func TestNew_ZeroTTLUsesDefault(t *testing.T) {
	n := New(0, zap.NewNop())
	assert.Equal(t, DefaultTTL, n.ttl)
}

package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/krisalay/keepalive-tabs/types"
)

func boolPtr(b bool) *bool { return &b }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		decl     *types.KeepAlive
		expected types.Policy
	}{
		{
			name:     "omitted",
			decl:     nil,
			expected: types.Policy{Enabled: true, ReuseKey: true, Strategy: types.LRU},
		},
		{
			name:     "true",
			decl:     types.KeepAliveOn(),
			expected: types.Policy{Enabled: true, ReuseKey: true, Strategy: types.LRU},
		},
		{
			name:     "false",
			decl:     types.KeepAliveOff(),
			expected: types.Policy{Enabled: false, ReuseKey: true, Strategy: types.LRU},
		},
		{
			name: "object with every field",
			decl: &types.KeepAlive{
				Enabled:  boolPtr(true),
				Max:      3,
				TTL:      time.Minute,
				Reuse:    boolPtr(false),
				Strategy: types.FIFO,
			},
			expected: types.Policy{Enabled: true, Capacity: 3, TTL: time.Minute, ReuseKey: false, Strategy: types.FIFO},
		},
		{
			name:     "object only disables on explicit false",
			decl:     &types.KeepAlive{Max: 2},
			expected: types.Policy{Enabled: true, Capacity: 2, ReuseKey: true, Strategy: types.LRU},
		},
		{
			name:     "negative limits clamp to unbounded",
			decl:     &types.KeepAlive{Max: -1, TTL: -time.Second},
			expected: types.Policy{Enabled: true, ReuseKey: true, Strategy: types.LRU},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.decl))
		})
	}
}

func TestFor_NilDescriptor(t *testing.T) {
	assert.Equal(t, types.DefaultPolicy(), For(nil))
}

func TestParseStrategy(t *testing.T) {
	assert.Equal(t, types.FIFO, ParseStrategy("FIFO"))
	assert.Equal(t, types.LFU, ParseStrategy(" lfu "))
	assert.Equal(t, types.LRU, ParseStrategy("lru"))
	assert.Equal(t, types.LRU, ParseStrategy(""))
	assert.Equal(t, types.LRU, ParseStrategy("random"))
}

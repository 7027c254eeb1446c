package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotaAllows(t *testing.T) {
	tests := []struct {
		name  string
		quota Quota
		used  int
		want  bool
	}{
		{name: "under limit", quota: LimitedQuota(8), used: 7, want: true},
		{name: "at limit", quota: LimitedQuota(8), used: 8, want: false},
		{name: "over limit", quota: LimitedQuota(8), used: 9, want: false},
		{name: "zero limit", quota: LimitedQuota(0), used: 0, want: false},
		{name: "unlimited ignores usage", quota: UnlimitedQuota(), used: 1_000_000, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.quota.Allows(tt.used))
		})
	}
}

func TestQuotaRemaining(t *testing.T) {
	n, unlimited := LimitedQuota(100).Remaining(30)
	assert.Equal(t, 70, n)
	assert.False(t, unlimited)

	// Never negative, even if usage overshot the cap
	n, _ = LimitedQuota(8).Remaining(12)
	assert.Equal(t, 0, n)

	_, unlimited = UnlimitedQuota().Remaining(5)
	assert.True(t, unlimited)
}

func TestQuotaFromSentinel(t *testing.T) {
	assert.True(t, QuotaFromSentinel(-1).IsUnlimited())
	assert.False(t, QuotaFromSentinel(0).IsUnlimited())
	assert.Equal(t, 50, QuotaFromSentinel(50).Limit())
}

func TestQuotaJSON(t *testing.T) {
	data, err := json.Marshal(UnlimitedQuota())
	require.NoError(t, err)
	assert.Equal(t, "-1", string(data))

	data, err = json.Marshal(LimitedQuota(20))
	require.NoError(t, err)
	assert.Equal(t, "20", string(data))

	var q Quota
	require.NoError(t, json.Unmarshal([]byte("-1"), &q))
	assert.True(t, q.IsUnlimited())

	require.NoError(t, json.Unmarshal([]byte("5"), &q))
	assert.Equal(t, 5, q.Limit())

	assert.Error(t, json.Unmarshal([]byte("-2"), &q))
	assert.Error(t, json.Unmarshal([]byte(`"many"`), &q))
}

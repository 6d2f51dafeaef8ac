package gateway

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/naka-gawa/github-activity/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestUpdateRateLimit(t *testing.T) {
	reset := time.Unix(1735693200, 0).UTC()
	testCases := []struct {
		name    string
		initial domain.RateLimitInfo
		header  http.Header
		want    domain.RateLimitInfo
	}{
		{
			name: "all headers present",
			header: http.Header{
				"X-Ratelimit-Remaining": {"42"},
				"X-Ratelimit-Limit":     {"5000"},
				"X-Ratelimit-Reset":     {"1735693200"},
			},
			want: domain.RateLimitInfo{Remaining: intPtr(42), Limit: intPtr(5000), ResetAt: &reset},
		},
		{
			name:    "missing headers keep previous values",
			initial: domain.RateLimitInfo{Remaining: intPtr(10), Limit: intPtr(5000)},
			header:  http.Header{"X-Ratelimit-Remaining": {"9"}},
			want:    domain.RateLimitInfo{Remaining: intPtr(9), Limit: intPtr(5000)},
		},
		{
			name:    "malformed values are ignored",
			initial: domain.RateLimitInfo{Remaining: intPtr(10)},
			header:  http.Header{"X-Ratelimit-Remaining": {"lots"}, "X-Ratelimit-Limit": {" 60 "}},
			want:    domain.RateLimitInfo{Remaining: intPtr(10), Limit: intPtr(60)},
		},
		{
			name:    "no headers",
			initial: domain.RateLimitInfo{Limit: intPtr(1)},
			header:  http.Header{},
			want:    domain.RateLimitInfo{Limit: intPtr(1)},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			info := tc.initial
			UpdateRateLimit(&info, tc.header)
			assert.Equal(t, tc.want, info)
		})
	}
}

func TestUpdateRateLimit_NilInfo(t *testing.T) {
	assert.NotPanics(t, func() {
		UpdateRateLimit(nil, http.Header{"X-Ratelimit-Remaining": {"1"}})
	})
}

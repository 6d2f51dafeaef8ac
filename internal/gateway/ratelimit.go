package gateway

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/naka-gawa/github-activity/internal/domain"
)

const (
	headerRateLimit     = "X-RateLimit-Limit"
	headerRateRemaining = "X-RateLimit-Remaining"
	headerRateReset     = "X-RateLimit-Reset"
)

// UpdateRateLimit copies the rate-limit headers of a response onto info.
// Each header that is present and well formed overwrites the matching field;
// missing or malformed headers leave the previous value in place.
func UpdateRateLimit(info *domain.RateLimitInfo, header http.Header) {
	if info == nil || header == nil {
		return
	}
	if v, ok := intHeader(header, headerRateRemaining); ok {
		info.Remaining = &v
	}
	if v, ok := intHeader(header, headerRateLimit); ok {
		info.Limit = &v
	}
	if v, ok := intHeader(header, headerRateReset); ok {
		reset := time.Unix(int64(v), 0).UTC()
		info.ResetAt = &reset
	}
}

func intHeader(header http.Header, key string) (int, bool) {
	raw := strings.TrimSpace(header.Get(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

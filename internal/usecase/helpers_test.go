package usecase

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-activity/internal/domain"
)

var discardLogger = log.New(io.Discard, "", 0)

func day(t *testing.T, y int, m time.Month, d int) domain.ActivityWindow {
	t.Helper()
	w := domain.DayWindow(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	_, err := domain.NewActivityWindow(w.Start, w.End)
	require.NoError(t, err)
	return w
}

func at(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

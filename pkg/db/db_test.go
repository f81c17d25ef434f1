package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGormLoggerCountsQueries(t *testing.T) {
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_db_queries_total"})
	l := NewGormLogger(false, time.Second, counter)

	fc := func() (string, int64) { return "SELECT 1", 1 }
	l.Trace(context.Background(), time.Now(), fc, nil)
	l.Trace(context.Background(), time.Now(), fc, errors.New("boom"))

	assert.Equal(t, float64(2), testutil.ToFloat64(counter))
}

func TestGormLoggerNilCounter(t *testing.T) {
	l := NewGormLogger(false, time.Second, nil)

	// 没有计数器时 Trace 不应 panic
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, nil)
}

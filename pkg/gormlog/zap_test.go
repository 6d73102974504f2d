package gormlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fatflowers/fakepay/pkg/logctx"
)

func TestParseLevel(t *testing.T) {
	lv, ok := ParseLevel(" INFO ")
	require.True(t, ok)
	require.Equal(t, gormlogger.Info, lv)

	_, ok = ParseLevel("verbose")
	require.False(t, ok)
}

func TestTrace_LevelsAndContext(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := New(zap.New(core).Sugar(), WithLevel("info"), WithSlowThreshold(time.Hour))
	ctx := context.WithValue(context.Background(), logctx.TraceIDKey, "t-1")
	sql := func() (string, int64) { return `SELECT 1`, 1 }

	l.Trace(ctx, time.Now(), sql, nil)
	l.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)
	l.Trace(ctx, time.Now(), sql, errors.New("boom"))
	l.Trace(ctx, time.Now().Add(-2*time.Hour), sql, nil)

	require.Equal(t, 2, logs.FilterMessage("gorm").Len())
	require.Equal(t, 1, logs.FilterMessage("gorm_trace").Len())
	require.Equal(t, 1, logs.FilterMessage("gorm_slow").Len())
	require.Equal(t, "t-1", logs.All()[0].ContextMap()["trace_id"])
}

func TestTrace_WarnLevelSkipsRoutineQueries(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := New(zap.New(core).Sugar())
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return `SELECT 1`, 1 }, nil)
	require.Equal(t, 0, logs.Len())

	silent := l.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), func() (string, int64) { return `SELECT 1`, 1 }, errors.New("boom"))
	require.Equal(t, 0, logs.Len())
}

func TestShortCaller(t *testing.T) {
	require.Equal(t, "internal/platform/db/postgres.go:38", shortCaller("/Users/alex/repo/internal/platform/db/postgres.go:38"))
	require.Equal(t, "a/b/c.go:1", shortCaller("/x/y/a/b/c.go:1"))
	require.Equal(t, "", shortCaller(""))
}

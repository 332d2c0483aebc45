package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/tradelink-backend/pkg/logger"
)

func TestGormLoggerTrace(t *testing.T) {
	buf := &bytes.Buffer{}
	gl := newGormLogger(logger.New(logger.Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: buf}), 50*time.Millisecond)
	query := func() (string, int64) { return "SELECT 1", 1 }
	ctx := context.Background()

	gl.Trace(ctx, time.Now(), query, nil)
	assert.Empty(t, buf.String(), "fast successful statements are not logged")

	gl.Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	gl.Trace(ctx, time.Now(), query, errors.New("syntax error"))
	assert.Contains(t, buf.String(), "sql.failed")
	assert.Contains(t, buf.String(), "SELECT 1")

	buf.Reset()
	gl.Trace(ctx, time.Now().Add(-time.Second), query, nil)
	assert.Contains(t, buf.String(), "sql.slow")

	buf.Reset()
	gl.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), query, errors.New("ignored"))
	assert.Empty(t, buf.String())
}

func TestGormLoggerWithoutLoggerDiscards(t *testing.T) {
	assert.Equal(t, gormlogger.Discard, newGormLogger(nil, time.Second))
}

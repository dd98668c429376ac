package logging

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSetLevelAffectsExistingLoggers(t *testing.T) {
	defer SetLevel(zapcore.InfoLevel)

	lg := NewLogger(&Config{})

	SetLevel(zapcore.ErrorLevel)
	assert.False(t, lg.Core().Enabled(zapcore.InfoLevel))

	SetLevel(zapcore.DebugLevel)
	assert.True(t, lg.Core().Enabled(zapcore.DebugLevel))
}

func TestDefaultLogger(t *testing.T) {
	repeat := 5
	var wait sync.WaitGroup
	loggerChan := make(chan *zap.Logger, repeat)

	for i := 0; i < repeat; i++ {
		wait.Add(1)
		go func() {
			defer wait.Done()
			loggerChan <- DefaultLogger()
		}()
	}
	wait.Wait()

	l := DefaultLogger()
	for i := 0; i < repeat; i++ {
		assert.Equal(t, <-loggerChan, l)
	}
}

func TestFromContext(t *testing.T) {
	l1 := FromContext(context.Background())

	ctx := WithLogger(context.Background(), l1)
	l2 := FromContext(ctx)

	assert.Equal(t, l2, l1)
	assert.Equal(t, FromContext(nil), DefaultLogger())
}

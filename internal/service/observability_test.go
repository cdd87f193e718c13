package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogUseCaseObserver_WritesSortedFields(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "command.activate",
		Duration: 12 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"issue": "IMG-2", "flushed": "IMG-1"},
	})

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "use_case=command.activate")
	assert.Contains(t, out, "duration_ms=12")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("flushed=")), bytes.Index(buf.Bytes(), []byte("issue=")))
}

func TestLogUseCaseObserver_LogsErrors(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "command.submit-worklog",
		Err:  errors.New("issue tracker unreachable"),
	})

	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), `error="issue tracker unreachable"`)
}

func TestNewLogUseCaseObserver_NilWriter(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop([]UseCaseObserver{nil}))

	rec := &recordingObserver{}
	assert.Same(t, rec, useCaseObserverOrNoop([]UseCaseObserver{nil, rec}))
}

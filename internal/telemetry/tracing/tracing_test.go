package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

type recordingSpan struct {
	trace.Span
	recorded []error
	ended    bool
}

func (s *recordingSpan) RecordError(err error, _ ...trace.EventOption) {
	s.recorded = append(s.recorded, err)
}

func (s *recordingSpan) End(...trace.SpanEndOption) {
	s.ended = true
}

func TestEndSpanWithErrCheck(t *testing.T) {
	_, noop := GlobalTracer.Start(context.Background(), "test")

	okSpan := &recordingSpan{Span: noop}
	EndSpanWithErrCheck(okSpan, nil)
	assert.True(t, okSpan.ended)
	assert.Empty(t, okSpan.recorded)

	failedSpan := &recordingSpan{Span: noop}
	testErr := errors.New("boom")
	EndSpanWithErrCheck(failedSpan, testErr)
	assert.True(t, failedSpan.ended)
	assert.Equal(t, []error{testErr}, failedSpan.recorded)
}

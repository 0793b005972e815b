package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/vibefit/internal/telemetry/metrics"
	"github.com/2beens/vibefit/internal/telemetry/tracing"
	"github.com/2beens/vibefit/internal/workout"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=coach_test

var ErrEmptyMessage = errors.New("message empty")

type chatModel interface {
	// Reply returns the model answer to message, given the completed
	// exchanges before it and the system instruction of conv.
	Reply(ctx context.Context, conv *Conversation, history []workout.ChatMessage, message string) (string, error)
}

// DialogueError is returned when the coach could not produce a reply.
type DialogueError struct {
	Err error
}

func (e *DialogueError) Error() string {
	return fmt.Sprintf("coach dialogue: %s", e.Err)
}

func (e *DialogueError) Unwrap() error {
	return e.Err
}

func IsDialogueError(err error) bool {
	var dErr *DialogueError
	return errors.As(err, &dErr)
}

type Coach struct {
	model          chatModel
	metricsManager *metrics.Manager
}

func NewCoach(model chatModel, metricsManager *metrics.Manager) *Coach {
	return &Coach{
		model:          model,
		metricsManager: metricsManager,
	}
}

// Send forwards message to the coach within conv. history holds the completed
// user/assistant exchanges that came before message. Failures are returned as
// a *DialogueError.
func (c *Coach) Send(ctx context.Context, conv *Conversation, history []workout.ChatMessage, message string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "coach.send")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	if conv == nil {
		return "", &DialogueError{Err: errors.New("conversation not initialized")}
	}
	turns := len(history) / 2
	span.SetAttributes(attribute.Int("coach.turns", turns))

	start := time.Now()
	reply, err := c.model.Reply(ctx, conv, history, message)
	c.metricsManager.HistCoachReplyDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metricsManager.CounterCoachFailures.Inc()
		log.Errorf("coach reply failed after %d turns: %s", turns, err)
		return "", &DialogueError{Err: err}
	}

	c.metricsManager.CounterCoachReplies.Inc()
	log.Tracef("coach replied, conversation has %d turns", turns+1)

	return reply, nil
}

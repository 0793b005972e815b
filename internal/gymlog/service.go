package gymlog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/vibefit/internal/coach"
	"github.com/2beens/vibefit/internal/session"
	"github.com/2beens/vibefit/internal/telemetry/metrics"
	"github.com/2beens/vibefit/internal/telemetry/tracing"
	"github.com/2beens/vibefit/internal/workout"
	"github.com/2beens/vibefit/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=gymlog_test

var ErrNothingPending = errors.New("no unanswered message")

type coachSender interface {
	Send(ctx context.Context, conv *coach.Conversation, history []workout.ChatMessage, message string) (string, error)
}

type logbookAppender interface {
	Available() bool
	Warning() string
	Append(ctx context.Context, mode workout.Mode, entry workout.LogEntry) error
}

type ServiceParams struct {
	Controller     *workout.Controller
	Logbook        logbookAppender
	Coach          coachSender
	MetricsManager *metrics.Manager
	RestOptions    []time.Duration
	DefaultRest    time.Duration
}

// Service runs the workout flow over one session state at a time:
// validate -> remote log -> local log -> rest timer -> coach.
// Every method works on the *session.State it is given and never keeps it.
type Service struct {
	controller     *workout.Controller
	logbook        logbookAppender
	coach          coachSender
	metricsManager *metrics.Manager
	restOptions    []time.Duration
	defaultRest    time.Duration
}

func NewService(params ServiceParams) *Service {
	return &Service{
		controller:     params.Controller,
		logbook:        params.Logbook,
		coach:          params.Coach,
		metricsManager: params.MetricsManager,
		restOptions:    params.RestOptions,
		defaultRest:    params.DefaultRest,
	}
}

func (s *Service) Menu() workout.Menu {
	return s.controller.Menu()
}

func (s *Service) RestOptions() []time.Duration {
	return s.restOptions
}

func (s *Service) DefaultRest() time.Duration {
	return s.defaultRest
}

func (s *Service) LogbookAvailable() bool {
	return s.logbook.Available()
}

func (s *Service) LogbookWarning() string {
	return s.logbook.Warning()
}

type LogSetRequest struct {
	Mode  workout.Mode
	Input workout.SetInput
	// Rest is the rest period started by this set, the default rest when zero.
	Rest time.Duration
	// Forward sends the set summary to the coach.
	Forward bool
}

type LogSetResult struct {
	Entry workout.LogEntry
	// PersistenceErr is set when the remote append failed; the entry is in
	// the local log regardless.
	PersistenceErr error
	Forwarded      bool
	Reply          string
	DialogueErr    error
	RestEnd        time.Time
}

// LogSet records one set. Only an invalid submission returns an error, and
// leaves the state untouched. Remote store and coach failures are reported
// in the result.
func (s *Service) LogSet(ctx context.Context, state *session.State, req LogSetRequest) (_ *LogSetResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymlog.logset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	mode := req.Mode
	if !mode.IsValid() {
		mode = workout.ModeCoach
	}
	span.SetAttributes(attribute.String("gymlog.mode", mode.String()))

	rest, err := s.restDuration(req.Rest)
	if err != nil {
		s.metricsManager.CounterValidationFailures.Inc()
		return nil, err
	}

	entry, err := s.controller.Submit(req.Input)
	if err != nil {
		s.metricsManager.CounterValidationFailures.Inc()
		log.Debugf("log set rejected: %s", err)
		return nil, err
	}

	result := &LogSetResult{Entry: entry}
	if err := s.logbook.Append(ctx, mode, entry); err != nil {
		result.PersistenceErr = err
	}

	state.AppendEntry(entry)
	result.RestEnd = state.StartRest(s.now(), rest)
	s.metricsManager.CounterSetsLogged.WithLabelValues(mode.String()).Inc()
	log.Debugf("set logged [%s]: %s %skg x %d", mode, entry.Exercise, pkg.FormatKilos(entry.Weight), entry.Reps)

	if req.Forward {
		result.Forwarded = true
		summary := entry.Summary()
		state.AppendMessage(workout.UserMessage(summary))
		result.Reply, result.DialogueErr = s.askCoach(ctx, state, summary)
	}

	return result, nil
}

// SendMessage appends a free-text user message and asks the coach about it.
// The user message stays in the chat even when the coach fails.
func (s *Service) SendMessage(ctx context.Context, state *session.State, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &workout.ValidationError{Field: "message", Reason: "message empty"}
	}
	state.AppendMessage(workout.UserMessage(text))
	return s.askCoach(ctx, state, text)
}

// RetryPending asks the coach again about the trailing unanswered user message.
func (s *Service) RetryPending(ctx context.Context, state *session.State) (string, error) {
	pending, ok := state.PendingUserMessage()
	if !ok {
		return "", ErrNothingPending
	}
	return s.askCoach(ctx, state, pending.Content)
}

func (s *Service) askCoach(ctx context.Context, state *session.State, message string) (string, error) {
	conv := state.Conversation
	if conv == nil {
		return "", &coach.DialogueError{Err: errors.New("session has no coach conversation")}
	}

	reply, err := s.coach.Send(ctx, conv, workout.CoachHistory(state.Messages), message)
	if err != nil {
		return "", err
	}
	state.AppendMessage(workout.AssistantMessage(reply))
	return reply, nil
}

func (s *Service) SelectExercise(state *session.State, exercise string) (workout.Selection, error) {
	menu := s.controller.Menu()
	exercise = strings.TrimSpace(exercise)
	if !menu.Has(exercise) {
		return state.CurrentSelection(menu), &workout.ValidationError{Field: "exercise", Reason: fmt.Sprintf("[%s] not on the menu", exercise)}
	}
	sel := s.controller.SelectExercise(state.CurrentSelection(menu), exercise)
	state.SetSelection(sel)
	return sel, nil
}

func (s *Service) SelectWeight(state *session.State, kilos float64) (workout.Selection, error) {
	menu := s.controller.Menu()
	if !workout.ValidKilos(kilos) {
		return state.CurrentSelection(menu), &workout.ValidationError{Field: "weight", Reason: "weight must be a non-negative number"}
	}
	sel := s.controller.SelectWeight(state.CurrentSelection(menu), kilos)
	state.SetSelection(sel)
	return sel, nil
}

// ClearLog empties the local log. Rows already in the remote store stay.
func (s *Service) ClearLog(state *session.State) int {
	return state.ClearEntries()
}

func (s *Service) Export(state *session.State, format workout.ExportFormat) ([]byte, error) {
	return workout.Export(state.Entries, format)
}

// now is the clock of the form controller, so entries and timers agree.
func (s *Service) now() time.Time {
	return s.controller.Now()
}

func (s *Service) restDuration(rest time.Duration) (time.Duration, error) {
	if rest == 0 {
		return s.defaultRest, nil
	}
	if rest < 0 {
		return 0, &workout.ValidationError{Field: "rest", Reason: "rest must be positive"}
	}
	if rest > workout.MaxRest {
		return 0, &workout.ValidationError{Field: "rest", Reason: fmt.Sprintf("rest must be at most %s", workout.MaxRest)}
	}
	return rest, nil
}

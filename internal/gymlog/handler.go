package gymlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/vibefit/internal/coach"
	"github.com/2beens/vibefit/internal/session"
	"github.com/2beens/vibefit/internal/telemetry/tracing"
	"github.com/2beens/vibefit/internal/workout"
	"github.com/2beens/vibefit/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	titleCoach = "VibeFit Coach"
	titleQuick = "VibeFit Quick Log"
)

type LogSetParams struct {
	Mode        string  `json:"mode"`
	Exercise    string  `json:"exercise"`
	Weight      float64 `json:"weight"`
	Reps        int     `json:"reps"`
	RPE         int     `json:"rpe"`
	Failure     bool    `json:"failure"`
	RestSeconds int     `json:"restSeconds"`
	Forward     bool    `json:"forward"`
}

type LogSetResponse struct {
	Entry            workout.LogEntry `json:"entry"`
	Persisted        bool             `json:"persisted"`
	PersistenceError string           `json:"persistenceError,omitempty"`
	Reply            string           `json:"reply,omitempty"`
	DialogueError    string           `json:"dialogueError,omitempty"`
	Snapshot         Snapshot         `json:"snapshot"`
}

type ChatParams struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply         string   `json:"reply,omitempty"`
	DialogueError string   `json:"dialogueError,omitempty"`
	Snapshot      Snapshot `json:"snapshot"`
}

type Handler struct {
	service         *Service
	sessions        *session.Manager
	pages           *Pages
	sessionTTL      time.Duration
	coachMiddleware []mux.MiddlewareFunc
}

// NewHandler builds the web handler. coachMiddleware wraps only the routes that
// reach the coach (rate limiting).
func NewHandler(
	service *Service,
	sessions *session.Manager,
	pages *Pages,
	sessionTTL time.Duration,
	coachMiddleware ...mux.MiddlewareFunc,
) *Handler {
	return &Handler{
		service:         service,
		sessions:        sessions,
		pages:           pages,
		sessionTTL:      sessionTTL,
		coachMiddleware: coachMiddleware,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/", handler.HandleCoachPage).Methods("GET")
	r.HandleFunc("/quick", handler.HandleQuickPage).Methods("GET")

	r.Handle("/log", handler.toCoach(handler.HandleLogSet)).Methods("POST")
	r.Handle("/chat", handler.toCoach(handler.HandleChat)).Methods("POST")
	r.Handle("/chat/retry", handler.toCoach(handler.HandleRetry)).Methods("POST")

	r.HandleFunc("/quick/exercise", handler.HandleSelectExercise).Methods("POST")
	r.HandleFunc("/quick/weight", handler.HandleSelectWeight).Methods("POST")
	r.Handle("/quick/log", handler.toCoach(handler.HandleQuickLogSet)).Methods("POST")

	r.HandleFunc("/log/clear", handler.HandleClearLog).Methods("POST")
	r.HandleFunc("/log/export", handler.HandleExport).Methods("GET")
	r.HandleFunc("/session/reset", handler.HandleResetSession).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/timer", handler.HandleTimer).Methods("GET")
	api.HandleFunc("/state", handler.HandleState).Methods("GET")
	api.Handle("/log", handler.toCoach(handler.HandleAPILogSet)).Methods("POST")
	api.Handle("/chat", handler.toCoach(handler.HandleAPIChat)).Methods("POST")
}

func (handler *Handler) toCoach(h http.HandlerFunc) http.Handler {
	var wrapped http.Handler = h
	for i := len(handler.coachMiddleware) - 1; i >= 0; i-- {
		wrapped = handler.coachMiddleware[i](wrapped)
	}
	return wrapped
}

func (handler *Handler) HandleCoachPage(w http.ResponseWriter, r *http.Request) {
	handler.renderPage(w, r, PageCoach, workout.ModeCoach, titleCoach)
}

func (handler *Handler) HandleQuickPage(w http.ResponseWriter, r *http.Request) {
	handler.renderPage(w, r, PageQuick, workout.ModeQuick, titleQuick)
}

func (handler *Handler) renderPage(w http.ResponseWriter, r *http.Request, page string, mode workout.Mode, title string) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.page")
	defer span.End()
	span.SetAttributes(attribute.String("gymlog.page", page))

	state, ok := handler.loadSession(ctx, w, r)
	if !ok {
		return
	}

	data := PageData{
		Title:       title,
		Mode:        mode,
		Snapshot:    handler.service.Snapshot(state),
		Menu:        handler.service.Menu(),
		RestOptions: handler.service.RestOptions(),
		DefaultRest: handler.service.DefaultRest(),
		Notices:     state.TakeNotices(),
	}

	if err := handler.sessions.Save(ctx, state); err != nil {
		log.Errorf("render %s, save session [%s]: %s", page, state.ID, err)
	}

	w.Header().Set("Content-Type", pkg.ContentType.HTML)
	if err := handler.pages.Render(w, page, data); err != nil {
		log.Errorf("render page %s: %s", page, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

func (handler *Handler) HandleLogSet(w http.ResponseWriter, r *http.Request) {
	handler.handleFormLogSet(w, r, workout.ModeCoach, "/")
}

func (handler *Handler) HandleQuickLogSet(w http.ResponseWriter, r *http.Request) {
	handler.handleFormLogSet(w, r, workout.ModeQuick, "/quick")
}

func (handler *Handler) handleFormLogSet(w http.ResponseWriter, r *http.Request, mode workout.Mode, redirectTo string) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.logset")
	defer span.End()

	state, ok := handler.loadSession(ctx, w, r)
	if !ok {
		return
	}

	req, err := logSetRequestFromForm(r, mode)
	if err != nil {
		state.AddNotice(session.NoticeError, err.Error())
		handler.saveAndRedirect(ctx, w, r, state, redirectTo)
		return
	}

	result, err := handler.service.LogSet(ctx, state, req)
	if err != nil {
		state.AddNotice(session.NoticeError, err.Error())
		handler.saveAndRedirect(ctx, w, r, state, redirectTo)
		return
	}

	addLogSetNotices(state, result, handler.service.LogbookAvailable())
	handler.saveAndRedirect(ctx, w, r, state, redirectTo)
}

func (handler *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.chat")
	defer span.End()

	state, ok := handler.loadSession(ctx, w, r)
	if !ok {
		return
	}

	if _, err := handler.service.SendMessage(ctx, state, r.PostFormValue("message")); err != nil {
		addChatErrorNotice(state, err)
	}
	handler.saveAndRedirect(ctx, w, r, state, "/")
}

func (handler *Handler) HandleRetry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.retry")
	defer span.End()

	state, ok := handler.loadSession(ctx, w, r)
	if !ok {
		return
	}

	if _, err := handler.service.RetryPending(ctx, state); err != nil {
		addChatErrorNotice(state, err)
	}
	handler.saveAndRedirect(ctx, w, r, state, "/")
}

func (handler *Handler) HandleSelectExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.select.exercise")
	defer span.End()

	state, ok := handler.loadSession(ctx, w, r)
	if !ok {
		return
	}

	if _, err := handler.service.SelectExercise(state, r.PostFormValue("exercise")); err != nil {
		state.AddNotice(session.NoticeError, err.Error())
	}
	handler.saveAndRedirect(ctx, w, r, state, "/quick")
}

func (handler *Handler) HandleSelectWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.select.weight")
	defer span.End()

	state, ok := handler.loadSession(ctx, w, r)
	if !ok {
		return
	}

	kilos, err := parseFloatField(r.PostFormValue("weight"), "weight")
	if err == nil {
		_, err = handler.service.SelectWeight(state, kilos)
	}
	if err != nil {
		state.AddNotice(session.NoticeError, err.Error())
	}
	handler.saveAndRedirect(ctx, w, r, state, "/quick")
}

func (handler *Handler) HandleClearLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.clear")
	defer span.End()

	state, ok := handler.loadSession(ctx, w, r)
	if !ok {
		return
	}

	cleared := handler.service.ClearLog(state)
	log.Debugf("session [%s]: cleared %d local entries", state.ID, cleared)
	state.AddNotice(session.NoticeSuccess, fmt.Sprintf("已清除 %d 筆本地紀錄", cleared))

	redirectTo := "/"
	if workout.Mode(r.PostFormValue("from")) == workout.ModeQuick {
		redirectTo = "/quick"
	}
	handler.saveAndRedirect(ctx, w, r, state, redirectTo)
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.export")
	defer span.End()

	format, err := workout.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state, ok := handler.loadSession(ctx, w, r)
	if !ok {
		return
	}

	content, err := handler.service.Export(state, format)
	if err != nil {
		log.Errorf("export session [%s] log: %s", state.ID, err)
		http.Error(w, "failed to export log", http.StatusInternalServerError)
		return
	}

	contentType := pkg.ContentType.JSON
	if format == workout.FormatYAML {
		contentType = pkg.ContentType.YAML
	}
	filename := fmt.Sprintf("vibefit-%s.%s", state.Started(handler.service.now()).Format("20060102"), format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	pkg.WriteResponseBytes(w, contentType, content, http.StatusOK)
}

func (handler *Handler) HandleResetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.reset")
	defer span.End()

	id := session.IDFromRequest(r)
	if id == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if _, err := handler.sessions.Reset(ctx, id); err != nil {
		log.Errorf("reset session [%s]: %s", id, err)
		http.Error(w, "failed to reset session", http.StatusInternalServerError)
		return
	}
	log.Debugf("session [%s] reset", id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (handler *Handler) HandleTimer(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.timer")
	defer span.End()

	state, ok := handler.loadSession(ctx, w, r)
	if !ok {
		return
	}
	handler.writeJSON(w, handler.service.Timer(state), http.StatusOK)
}

func (handler *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.state")
	defer span.End()

	state, ok := handler.loadSession(ctx, w, r)
	if !ok {
		return
	}
	handler.writeJSON(w, handler.service.Snapshot(state), http.StatusOK)
}

func (handler *Handler) HandleAPILogSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.api.logset")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var params LogSetParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Errorf("log set, unmarshal json params: %s", err)
		http.Error(w, "invalid log set params", http.StatusBadRequest)
		return
	}

	state, ok := handler.loadSession(ctx, w, r)
	if !ok {
		return
	}

	mode := workout.Mode(params.Mode)
	if !mode.IsValid() {
		mode = workout.ModeCoach
	}
	rest, err := workout.RestFromSeconds(params.RestSeconds)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := handler.service.LogSet(ctx, state, LogSetRequest{
		Mode: mode,
		Input: workout.SetInput{
			Exercise: params.Exercise,
			Weight:   params.Weight,
			Reps:     params.Reps,
			RPE:      params.RPE,
			Failure:  params.Failure,
		},
		Rest:    rest,
		Forward: mode == workout.ModeCoach || params.Forward,
	})
	if err != nil {
		if workout.IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("log set, session [%s]: %s", state.ID, err)
		http.Error(w, "failed to log set", http.StatusInternalServerError)
		return
	}

	if !handler.saveSession(ctx, w, state) {
		return
	}

	resp := LogSetResponse{
		Entry:     result.Entry,
		Persisted: result.PersistenceErr == nil && handler.service.LogbookAvailable(),
		Reply:     result.Reply,
		Snapshot:  handler.service.Snapshot(state),
	}
	if result.PersistenceErr != nil {
		resp.PersistenceError = result.PersistenceErr.Error()
	}
	if result.DialogueErr != nil {
		resp.DialogueError = result.DialogueErr.Error()
	}
	handler.writeJSON(w, resp, http.StatusCreated)
}

func (handler *Handler) HandleAPIChat(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymlog.api.chat")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var params ChatParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Errorf("chat, unmarshal json params: %s", err)
		http.Error(w, "invalid chat params", http.StatusBadRequest)
		return
	}

	state, ok := handler.loadSession(ctx, w, r)
	if !ok {
		return
	}

	reply, err := handler.service.SendMessage(ctx, state, params.Message)
	if err != nil && workout.IsValidationError(err) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !handler.saveSession(ctx, w, state) {
		return
	}

	resp := ChatResponse{
		Reply:    reply,
		Snapshot: handler.service.Snapshot(state),
	}
	status := http.StatusOK
	if err != nil {
		log.Warnf("chat, session [%s]: %s", state.ID, err)
		resp.DialogueError = err.Error()
		status = http.StatusBadGateway
	}
	handler.writeJSON(w, resp, status)
}

// loadSession returns the session of the request, creating it (and setting the
// cookie) when the request carries none. On failure the response is written.
func (handler *Handler) loadSession(ctx context.Context, w http.ResponseWriter, r *http.Request) (*session.State, bool) {
	state, created, err := handler.sessions.GetOrCreate(ctx, session.IDFromRequest(r))
	if err != nil {
		log.Errorf("load session: %s", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return nil, false
	}

	if created {
		log.Debugf("new session [%s]", state.ID)
		http.SetCookie(w, &http.Cookie{
			Name:     session.CookieName,
			Value:    state.ID,
			Path:     "/",
			MaxAge:   int(handler.sessionTTL / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return state, true
}

func (handler *Handler) saveSession(ctx context.Context, w http.ResponseWriter, state *session.State) bool {
	if err := handler.sessions.Save(ctx, state); err != nil {
		log.Errorf("save session [%s]: %s", state.ID, err)
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return false
	}
	return true
}

func (handler *Handler) saveAndRedirect(ctx context.Context, w http.ResponseWriter, r *http.Request, state *session.State, to string) {
	if !handler.saveSession(ctx, w, state) {
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (handler *Handler) writeJSON(w http.ResponseWriter, v any, status int) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, b, status)
}

func logSetRequestFromForm(r *http.Request, mode workout.Mode) (LogSetRequest, error) {
	if err := r.ParseForm(); err != nil {
		return LogSetRequest{}, &workout.ValidationError{Field: "form", Reason: err.Error()}
	}

	weight, err := parseFloatField(r.PostFormValue("weight"), "weight")
	if err != nil {
		return LogSetRequest{}, err
	}
	reps, err := parseIntField(r.PostFormValue("reps"), "reps")
	if err != nil {
		return LogSetRequest{}, err
	}
	rpe, err := parseIntField(r.PostFormValue("rpe"), "rpe")
	if err != nil {
		return LogSetRequest{}, err
	}
	restSeconds, err := parseIntField(r.PostFormValue("rest"), "rest")
	if err != nil {
		return LogSetRequest{}, err
	}
	rest, err := workout.RestFromSeconds(restSeconds)
	if err != nil {
		return LogSetRequest{}, err
	}

	return LogSetRequest{
		Mode: mode,
		Input: workout.SetInput{
			Exercise: r.PostFormValue("exercise"),
			Weight:   weight,
			Reps:     reps,
			RPE:      rpe,
			Failure:  r.PostFormValue("failure") != "",
		},
		Rest:    rest,
		Forward: mode == workout.ModeCoach || r.PostFormValue("forward") != "",
	}, nil
}

func parseFloatField(value, field string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &workout.ValidationError{Field: field, Reason: "not a number"}
	}
	return f, nil
}

func parseIntField(value, field string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, &workout.ValidationError{Field: field, Reason: "not a whole number"}
	}
	return i, nil
}

func addLogSetNotices(state *session.State, result *LogSetResult, logbookAvailable bool) {
	switch {
	case result.PersistenceErr != nil:
		state.AddNotice(session.NoticeError, fmt.Sprintf("寫入失敗: %s", result.PersistenceErr))
	case logbookAvailable:
		state.AddNotice(session.NoticeSuccess, fmt.Sprintf("已儲存至資料庫: %s", result.Entry.Exercise))
	default:
		state.AddNotice(session.NoticeWarning, fmt.Sprintf("已記錄於本地: %s", result.Entry.Exercise))
	}
	if result.DialogueErr != nil {
		state.AddNotice(session.NoticeError, fmt.Sprintf("AI 連線錯誤: %s", result.DialogueErr))
	}
}

func addChatErrorNotice(state *session.State, err error) {
	switch {
	case errors.Is(err, ErrNothingPending):
		state.AddNotice(session.NoticeWarning, "沒有等待回覆的訊息")
	case coach.IsDialogueError(err):
		state.AddNotice(session.NoticeError, fmt.Sprintf("AI 連線錯誤: %s", err))
	default:
		state.AddNotice(session.NoticeError, err.Error())
	}
}

package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("sceneforge/pipeline")

// Progress event status values.
const (
	StatusStart = "start"
	StatusDone  = "done"
	StatusFail  = "fail"
)

// ProgressEvent is published to Redis as each stage starts, finishes
// or fails so frontends can stream generation progress.
type ProgressEvent struct {
	SceneID string    `json:"scene_id"`
	Mode    string    `json:"mode"`
	Stage   string    `json:"stage"`
	Status  string    `json:"status"`
	Pct     int       `json:"pct"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// tracker pairs progress events with a span per stage. A stage that
// never reaches done is closed by abort.
type tracker struct {
	svc     *Service
	sceneID string
	mode    string
	stages  map[string]Stage
	spans   map[string]trace.Span
}

func (s *Service) newTracker(sceneID, mode string, stages []Stage) *tracker {
	byName := make(map[string]Stage, len(stages))
	for _, st := range stages {
		byName[st.Name] = st
	}
	return &tracker{
		svc:     s,
		sceneID: sceneID,
		mode:    mode,
		stages:  byName,
		spans:   make(map[string]trace.Span),
	}
}

// start opens the stage span and publishes the entry event. The
// returned context carries the span for the stage's outbound calls.
func (t *tracker) start(ctx context.Context, name string) context.Context {
	st, ok := t.stages[name]
	if !ok {
		return ctx
	}
	ctx, span := tracer.Start(ctx, "pipeline."+name)
	t.spans[name] = span
	t.publish(ctx, name, StatusStart, st.StartPct, st.StartMsg)
	return ctx
}

func (t *tracker) done(ctx context.Context, name string) {
	if span, ok := t.spans[name]; ok {
		span.End()
		delete(t.spans, name)
	}
	if st, ok := t.stages[name]; ok {
		t.publish(ctx, name, StatusDone, st.EndPct, st.DoneMsg)
	}
}

// abort closes whatever stage was in flight when the run failed,
// publishing a fail event pinned to that stage's entry percentage.
func (t *tracker) abort(ctx context.Context, err error) {
	for name, span := range t.spans {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		delete(t.spans, name)
		if st, ok := t.stages[name]; ok {
			t.publish(ctx, name, StatusFail, st.StartPct, err.Error())
		}
	}
}

func (t *tracker) publish(ctx context.Context, stage, status string, pct int, msg string) {
	ev := ProgressEvent{
		SceneID: t.sceneID,
		Mode:    t.mode,
		Stage:   stage,
		Status:  status,
		Pct:     pct,
		Message: msg,
		At:      time.Now().UTC(),
	}
	if err := t.svc.progress.Publish(ctx, ev); err != nil {
		t.svc.log.Warn("Progress publish failed", "stage", stage, "error", err)
	}
}

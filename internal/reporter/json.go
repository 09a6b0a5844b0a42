package reporter

import (
	"encoding/json"
	"io"
	"os"

	"github.com/example/nodestrap/internal/engine"
)

// JSON emits newline-delimited event objects while running and a
// single report object at the end, so callers can stream progress or
// just parse the last line.
type JSON struct {
	enc *json.Encoder
}

func NewJSON() *JSON {
	return NewJSONTo(os.Stdout)
}

func NewJSONTo(w io.Writer) *JSON {
	return &JSON{enc: json.NewEncoder(w)}
}

type jsonEvent struct {
	Event   string `json:"event"`
	Step    string `json:"step,omitempty"`
	Label   string `json:"label,omitempty"`
	Outcome string `json:"outcome,omitempty"`
	Error   string `json:"error,omitempty"`
	Count   int    `json:"count,omitempty"`
}

func (j *JSON) PlanHeader(plan engine.ExecutionPlan, _ *engine.Registry) {
	j.enc.Encode(jsonEvent{Event: "plan", Count: plan.Len()})
	for _, id := range plan.StepIDs {
		j.enc.Encode(jsonEvent{Event: "planned", Step: id})
	}
}

func (j *JSON) StepStarted(id, label string) {
	j.enc.Encode(jsonEvent{Event: "step-started", Step: id, Label: label})
}

func (j *JSON) StepFinished(res engine.StepResult) {
	j.enc.Encode(jsonEvent{
		Event: "step-finished", Step: res.ID, Label: res.Label,
		Outcome: string(res.Outcome), Error: res.Err,
	})
}

func (j *JSON) RollbackStarted(id string) {
	j.enc.Encode(jsonEvent{Event: "rollback-started", Step: id})
}

func (j *JSON) RollbackFinished(id string, err error) {
	ev := jsonEvent{Event: "rollback-finished", Step: id}
	if err != nil {
		ev.Error = err.Error()
	}
	j.enc.Encode(ev)
}

func (j *JSON) Finish(report *engine.Report) {
	j.enc.Encode(struct {
		Event   string         `json:"event"`
		Status  string         `json:"status"`
		Summary string         `json:"summary"`
		Report  *engine.Report `json:"report"`
	}{Event: "finished", Status: string(report.Status()), Summary: report.Summary(), Report: report})
}

package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pjcdawkins/harmonics/internal/harmonic"
	"github.com/pjcdawkins/harmonics/internal/instrument"
	"github.com/pjcdawkins/harmonics/internal/lookup"
	"github.com/pjcdawkins/harmonics/internal/pitch"
	"github.com/pjcdawkins/harmonics/internal/report"
	"github.com/pjcdawkins/harmonics/internal/store"
	"github.com/pjcdawkins/harmonics/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios with a deterministic clock and run token.
type Harness struct {
	store    *store.Store
	service  *lookup.Service
	recorder *store.Recorder
	logger   *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Execution flow:
// 1. Create fresh in-memory database
// 2. Load custom instruments and build the catalog
// 3. Perform each lookup, recording successes and checking expectations
// 4. Evaluate assertions against the stored history
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()

	service, err := newService(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to build instrument catalog: %w", err)
	}

	token := scenario.RunToken
	if token == "" {
		token = testutil.DefaultRunToken
	}
	recorder, err := store.NewRecorder(ctx, st,
		store.WithTokenGenerator(testutil.NewFixedTokenGenerator(token)),
		store.WithClock(testutil.NewDeterministicClock()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create recorder: %w", err)
	}

	h := &Harness{
		store:    st,
		service:  service,
		recorder: recorder,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult()
	result.RunToken = recorder.RunToken()

	for i, step := range scenario.Lookups {
		event, err := h.executeStep(ctx, i+1, step)
		if err != nil {
			return nil, fmt.Errorf("lookups[%d]: %w", i, err)
		}
		result.AddTrace(event)
		for _, msg := range checkExpect(event, step.Expect) {
			result.AddError(msg)
		}
	}

	actx := &AssertionContext{
		Store:   st,
		Service: service,
		Ctx:     ctx,
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

func newService(scenario *Scenario) (*lookup.Service, error) {
	reference := scenario.Reference
	if reference == 0 {
		reference = pitch.DefaultReference
	}
	var custom []*instrument.Instrument
	for _, path := range scenario.Instruments {
		insts, err := instrument.LoadCUE(path, reference)
		if err != nil {
			return nil, err
		}
		custom = append(custom, insts...)
	}
	catalog, err := instrument.NewCatalog(reference, custom...)
	if err != nil {
		return nil, err
	}
	return lookup.NewService(catalog), nil
}

// executeStep performs one lookup. Lookup failures are part of the trace;
// only store and report errors are returned.
func (h *Harness) executeStep(ctx context.Context, n int, step LookupStep) (TraceEvent, error) {
	event := TraceEvent{
		Step:       n,
		Note:       step.Note,
		Instrument: step.Instrument,
	}

	req := lookup.Request{
		Note:       step.Note,
		Instrument: step.Instrument,
		Reference:  step.Reference,
	}
	if step.Constraints != nil {
		c := step.Constraints.Apply(h.service.Defaults().Constraints)
		req.Constraints = &c
	}
	if step.Intervals != nil {
		ivs, err := harmonic.ParseIntervals(step.Intervals)
		if err != nil {
			return event, err
		}
		req.Intervals = ivs
	}

	res, err := h.service.Lookup(req)
	if err != nil {
		event.Outcome = ErrorKind(err)
		event.Error = err.Error()
		h.logger.Debug("lookup failed", "step", n, "note", step.Note, "error", err)
		return event, nil
	}

	records := res.Records()
	l, err := h.recorder.Record(ctx, res.Request, records)
	if err != nil {
		return event, err
	}
	rep, err := report.Build(res)
	if err != nil {
		return event, err
	}

	event.Outcome = OutcomeOK
	event.Seq = l.Seq
	event.LookupID = l.ID
	event.RequestHash = l.RequestHash
	event.Count = len(res.Harmonics)
	event.rows = matchRows(res, rep)
	for _, hm := range res.Harmonics {
		event.Harmonics = append(event.Harmonics, harmonic.Describe(hm))
	}
	h.logger.Debug("lookup recorded", "step", n, "seq", l.Seq, "count", event.Count)
	return event, nil
}

// matchRows pairs each harmonic with its report row. Report groups keep
// result order, so flattening them lines up with res.Harmonics.
func matchRows(res *lookup.Result, rep *report.Report) []matchRow {
	var rows []matchRow
	i := 0
	for _, g := range rep.Strings {
		for _, r := range g.Rows {
			m := matchRow{
				String:    g.String,
				Kind:      r.Kind,
				Number:    r.Number,
				Sounding:  r.Sounding,
				BaseStop:  r.BaseStop,
				TouchStop: r.TouchStop,
			}
			if a, ok := res.Harmonics[i].(harmonic.Artificial); ok {
				m.Interval = a.Interval().String()
			}
			rows = append(rows, m)
			i++
		}
	}
	return rows
}

// ErrorKind classifies a lookup error.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case pitch.IsInvalidNoteName(err):
		return ErrorInvalidNote
	case instrument.IsUnknownInstrument(err):
		return ErrorUnknownInstrument
	case harmonic.IsInvalidConstraint(err), errors.Is(err, pitch.ErrInvalidFrequency):
		return ErrorInvalidConstraint
	default:
		return ErrorOther
	}
}

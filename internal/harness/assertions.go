package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/pjcdawkins/harmonics/internal/ir"
	"github.com/pjcdawkins/harmonics/internal/lookup"
	"github.com/pjcdawkins/harmonics/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s on %s: %s", event.Step, event.Note, event.Instrument, event.Outcome)
			if event.Outcome == OutcomeOK {
				fmt.Fprintf(&buf, " (%d found)", event.Count)
			}
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// checkExpect compares a lookup event with its expectation and returns a
// message for every mismatch.
func checkExpect(event TraceEvent, expect *Expect) []string {
	if expect == nil {
		return nil
	}
	prefix := fmt.Sprintf("lookup %d (%s on %s)", event.Step, event.Note, event.Instrument)

	want := expect.Error
	if want == "" {
		want = OutcomeOK
	}
	if event.Outcome != want {
		actual := event.Outcome
		if event.Error != "" {
			actual += ": " + event.Error
		}
		return []string{fmt.Sprintf("%s: expected outcome %s, got %s", prefix, want, actual)}
	}
	if expect.Error != "" {
		return nil
	}

	var errs []string
	if expect.Count != nil && event.Count != *expect.Count {
		errs = append(errs, fmt.Sprintf("%s: expected %d harmonics, got %d", prefix, *expect.Count, event.Count))
	}
	if expect.Empty && event.Count != 0 {
		errs = append(errs, fmt.Sprintf("%s: expected no harmonics, got %d", prefix, event.Count))
	}
	for _, m := range expect.Contains {
		if !containsMatch(event.rows, m) {
			errs = append(errs, fmt.Sprintf("%s: no harmonic matches %s", prefix, formatMatch(m)))
		}
	}
	return errs
}

func containsMatch(rows []matchRow, m HarmonicMatch) bool {
	for _, r := range rows {
		if matches(r, m) {
			return true
		}
	}
	return false
}

func matches(r matchRow, m HarmonicMatch) bool {
	fields := []struct{ want, got string }{
		{m.String, r.String},
		{m.Kind, r.Kind},
		{m.Interval, r.Interval},
		{m.Sounding, r.Sounding},
		{m.BaseStop, r.BaseStop},
		{m.TouchStop, r.TouchStop},
	}
	for _, f := range fields {
		if f.want != "" && f.want != f.got {
			return false
		}
	}
	return m.Number == 0 || m.Number == r.Number
}

// formatMatch renders the set fields of m in a stable order.
func formatMatch(m HarmonicMatch) string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("string", m.String)
	add("kind", m.Kind)
	if m.Number != 0 {
		parts = append(parts, fmt.Sprintf("number=%d", m.Number))
	}
	add("interval", m.Interval)
	add("sounding", m.Sounding)
	add("base_stop", m.BaseStop)
	add("touch_stop", m.TouchStop)
	return "{" + strings.Join(parts, " ") + "}"
}

// assertHistoryCount checks the number of stored lookups.
func assertHistoryCount(ctx context.Context, st *store.Store, trace []TraceEvent, assertion Assertion) error {
	lookups, err := st.ListLookups(ctx)
	if err != nil {
		return fmt.Errorf("history_count: %w", err)
	}
	if len(lookups) != assertion.Count {
		return &AssertionError{
			Type:     AssertHistoryCount,
			Expected: fmt.Sprintf("%d stored lookups", assertion.Count),
			Actual:   fmt.Sprintf("%d stored lookups", len(lookups)),
			Trace:    trace,
		}
	}
	return nil
}

// assertReplay replays every stored lookup and requires identical result
// hashes.
func assertReplay(ctx context.Context, st *store.Store, svc *lookup.Service, trace []TraceEvent) error {
	report, err := st.Verify(ctx, func(req ir.Request) ([]ir.HarmonicRecord, error) {
		res, err := svc.Replay(req)
		if err != nil {
			return nil, err
		}
		return res.Records(), nil
	})
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	if report.OK() {
		return nil
	}

	var actual []string
	for _, m := range report.Mismatches {
		if m.Err != nil {
			actual = append(actual, fmt.Sprintf("seq %d failed: %v", m.Lookup.Seq, m.Err))
			continue
		}
		actual = append(actual, fmt.Sprintf("seq %d: %d harmonics recorded, %d replayed",
			m.Lookup.Seq, m.Lookup.ResultCount, m.ResultCount))
	}
	return &AssertionError{
		Type:     AssertReplay,
		Expected: fmt.Sprintf("%d lookups to replay identically", report.Checked),
		Actual:   strings.Join(actual, "; "),
		Trace:    trace,
	}
}

// assertSameRequest checks that the given steps share a request hash and
// that the store finds each of them by that hash.
func assertSameRequest(ctx context.Context, st *store.Store, trace []TraceEvent, assertion Assertion) error {
	fail := func(actual string) error {
		return &AssertionError{
			Type:     AssertSameRequest,
			Expected: fmt.Sprintf("steps %v to share one request", assertion.Steps),
			Actual:   actual,
			Trace:    trace,
		}
	}

	var hash string
	ids := make(map[string]bool)
	for _, s := range assertion.Steps {
		if s < 1 || s > len(trace) {
			return fail(fmt.Sprintf("step %d not in trace", s))
		}
		event := trace[s-1]
		if event.Outcome != OutcomeOK {
			return fail(fmt.Sprintf("step %d was not recorded (%s)", s, event.Outcome))
		}
		if hash == "" {
			hash = event.RequestHash
		} else if event.RequestHash != hash {
			return fail(fmt.Sprintf("step %d has a different request", s))
		}
		ids[event.LookupID] = true
	}

	found, err := st.FindByRequest(ctx, hash)
	if err != nil {
		return fmt.Errorf("same_request: %w", err)
	}
	for _, l := range found {
		delete(ids, l.ID)
	}
	if len(ids) > 0 {
		return fail(fmt.Sprintf("%d of the lookups not found by request hash", len(ids)))
	}
	return nil
}

// AssertionContext provides store and service access for history
// assertions.
type AssertionContext struct {
	Store   *store.Store
	Service *lookup.Service
	Ctx     context.Context
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		if actx == nil || actx.Store == nil {
			errors = append(errors, fmt.Sprintf("assertion[%d]: %s requires database context", i, assertion.Type))
			continue
		}

		switch assertion.Type {
		case AssertHistoryCount:
			err = assertHistoryCount(actx.Ctx, actx.Store, result.Trace, assertion)
		case AssertReplay:
			if actx.Service == nil {
				err = fmt.Errorf("assertion[%d]: replay requires a lookup service", i)
			} else {
				err = assertReplay(actx.Ctx, actx.Store, actx.Service, result.Trace)
			}
		case AssertSameRequest:
			err = assertSameRequest(actx.Ctx, actx.Store, result.Trace, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}

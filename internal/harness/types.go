package harness

// TraceEvent records one lookup step.
type TraceEvent struct {
	// Step is the 1-based position of the lookup in the scenario.
	Step       int    `json:"step"`
	Note       string `json:"note"`
	Instrument string `json:"instrument"`

	// Outcome is "ok" or one of the error kinds.
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`

	// Seq and LookupID identify the stored lookup. Zero for failed lookups,
	// which are not recorded.
	Seq         int64  `json:"seq,omitempty"`
	LookupID    string `json:"lookup_id,omitempty"`
	RequestHash string `json:"request_hash,omitempty"`

	Count int `json:"count"`

	// Harmonics holds a one-line description of each harmonic found, in
	// result order.
	Harmonics []string `json:"harmonics,omitempty"`

	rows []matchRow
}

// OutcomeOK marks a successful lookup.
const OutcomeOK = "ok"

// matchRow is the view of a harmonic that HarmonicMatch compares against.
type matchRow struct {
	String    string
	Kind      string
	Number    int
	Interval  string
	Sounding  string
	BaseStop  string
	TouchStop string
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expectations and assertions hold.
	Pass bool `json:"pass"`

	// RunToken is the token every recorded lookup was stored under.
	RunToken string `json:"run_token"`

	// Trace contains one event per lookup step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a lookup event.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}

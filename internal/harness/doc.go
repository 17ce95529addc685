// Package harness runs lookup scenarios against the harmonics finder.
//
// A scenario performs a sequence of lookups through the lookup service,
// records every successful one in a fresh in-memory history store, checks
// each step's expected outcome and then evaluates assertions over the
// recorded history.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	reference: 440
//	instruments:
//	  - path/to/instruments.cue
//	lookups:
//	  - note: E6
//	    instrument: violin
//	    constraints: { max_cents: 20 }
//	    intervals: [fourth]
//	    expect:
//	      count: 2
//	      contains:
//	        - { string: G3, kind: artificial, interval: fourth, base_stop: C4 }
//	  - note: H9
//	    instrument: violin
//	    expect: { error: invalid_note }
//	assertions:
//	  - type: history_count
//	    count: 1
//	  - type: replay
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - history_count: Verifies the number of stored lookups
//   - replay: Replays every stored request and compares result hashes
//   - same_request: Verifies that several steps canonicalize to one request
//
// # Deterministic Testing
//
// The harness uses:
//   - A fixed run token (from scenario.run_token or testutil.DefaultRunToken)
//   - Deterministic logical clock (testutil.DeterministicClock)
//   - In-memory SQLite database (isolated per run)
//
// This ensures identical traces across runs for golden file comparison.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/violin.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, msg := range result.Errors {
//	    log.Println(msg)
//	}
package harness

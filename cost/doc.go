// Package cost tracks LLM spend across a session.
//
// A Tracker accumulates per-call records (model, token counts, computed
// cost) against a pricing table and exposes totals, per-model breakdowns,
// and JSON/CSV export. Optional warning and hard-limit thresholds guard
// runaway spend: the call that crosses the hard limit is still recorded
// (spend already happened), but Record reports ErrLimitExceeded from that
// call on, so callers stop issuing further work.
//
// Trackers are explicit values with caller-controlled lifetime; there is no
// process-wide singleton.
package cost

// Package tokens provides heuristic token counting and context-window
// limits for hosted LLM models.
//
// Counts are estimates based on a characters-per-token ratio (~4 for
// English text); exact counts belong to each vendor's tokenizer and are out
// of scope. Estimates are good enough for budget trimming and pre-call cost
// prediction, which is what the rest of this module uses them for.
package tokens

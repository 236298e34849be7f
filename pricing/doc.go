// Package pricing provides per-model price tables for token-based billing.
//
// Prices are expressed in USD per 1,000 tokens, split into prompt and
// completion rates. Lookups try an exact model name first, then the longest
// table key that is a prefix of the model name, so dated variants like
// "gpt-4-turbo-2024-04-09" resolve to the "gpt-4-turbo" entry. Unknown
// models are an error, never a silent default.
//
// Tables can be loaded from TOML or YAML files and hot-reloaded with a
// Watcher:
//
//	w, err := pricing.NewWatcher(ctx, "prices.toml")
//	...
//	cost, err := w.Table().Cost("gpt-4", 100, 200)
package pricing

// Package outbox implements the outbox propagation core: locally owned
// records carry a dirty marker, a scanner produces the dirty set in
// insertion order, per-type pushers translate one record into one remote
// mutation, and a coordinator runs bounded sequential batches and reports
// aggregate results.
//
// The package defines ports only. Persistence-backed sources live in
// internal/infrastructure/persistence and remote pushers in
// internal/infrastructure/shopify.
package outbox

// Package store defines the persistence contract the scheduling engine
// depends on: review state lookup and overwrite, the append-only
// performance log, and transaction helpers. Implementations live under
// internal/platform.
package store

// Package domain contains the core scheduling entities and value objects:
// review state, quality ratings, review events and performance records.
// It has no knowledge of storage or transport.
package domain

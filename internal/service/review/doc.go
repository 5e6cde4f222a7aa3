// Package review applies quality-rated review events to stored scheduling
// state. It runs single reviews and bounded-concurrency batches, and serves
// due lists and performance statistics computed from storage snapshots.
package review

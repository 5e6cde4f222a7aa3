// Package srs implements the SM-2 scheduling transition: the ease model, the
// interval model, and the service that combines them into one state change
// per review. Every function takes the current time as a parameter and is
// safe for concurrent use.
package srs

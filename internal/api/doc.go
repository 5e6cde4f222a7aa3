// Package api exposes the review scheduler over HTTP. Handlers decode and
// validate requests, call the review service and translate its errors into
// status codes with sanitized messages. No scheduling logic lives here.
package api

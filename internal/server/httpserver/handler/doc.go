// Package handler provides the JSON handlers of the observability endpoint.
package handler

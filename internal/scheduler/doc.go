// Package scheduler collapses bursts of change events into single runs.
package scheduler

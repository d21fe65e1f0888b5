// Package model defines the data structures shared by the vaultlinks
// packages.
//
// The main types are:
//   - File: a document of the vault as enumerated by the host
//   - LinkEntry and Entries: the aggregated link records of included files
//   - CollisionMap: bare-name occurrence counts used to pick entry keys
//   - Params: validated analysis parameters with closed enums for columns,
//     categories, sort fields and sort order
//   - Stats: counters of a single run, frozen into a StatsSnapshot
//   - Analysis: the state threaded through the pipeline steps
//   - PreparedData and Row: the render-ready table
//   - Run: an archived run of the history database
//
// Models live in their own package because graph, pipeline, report and
// database all depend on them.
package model

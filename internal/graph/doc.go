// Package graph implements the link-graph analysis of a vault: collecting
// outgoing links per file, resolving them to entry keys, inverting them into
// incoming sets, filtering by category and sorting.
//
// The functions are pure with respect to the host: files and parsed links
// come in through the FileSource and LinkCache interfaces, and every call
// works on the structures of a single analysis run.
package graph

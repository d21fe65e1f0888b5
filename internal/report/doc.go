// Package report renders analysis results.
//
// This package contains writers for different output formats:
//   - MarkdownWriter: the link table as a pipe-delimited Markdown table
//   - HTMLWriter: the link table as an HTML node tree for embedded regions
//   - SimpleWriter: plain text listings of the run history
//   - JSONWriter: run history for tool integration
//
// Prepare projects an analysis into model.PreparedData. The table writers
// render the same cell text, so both formats list identical rows in the
// same order.
package report

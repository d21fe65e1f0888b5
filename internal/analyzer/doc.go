// Package analyzer is the entry point of a link analysis run. It validates
// the parameters of a request, runs the analysis pipeline and renders the
// result into a text or element sink.
//
// InsertTable and RenderElement are the outermost boundaries: every failure,
// including a panic, is logged and written to the same sink as an inline
// error so the user always gets feedback.
package analyzer

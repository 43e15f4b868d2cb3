// Package analytics holds the fixed catalog of read-only queries over
// the extracted library and a generic executor that returns stringified
// result rows for rendering. No query takes parameters or mutates state.
package analytics

// Package printer renders arbitrary Go values into a canonical, indented,
// cycle-safe text form used for test diagnostics.
//
// Composite values are labelled in first-seen order; a value met again
// renders as "Type:label" instead of being expanded twice. Each Render call
// starts from a fresh session, so labels never leak between calls.
package printer

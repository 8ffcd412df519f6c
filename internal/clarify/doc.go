// Package clarify implements the confidence gate between identification and
// commit. Candidates at or above the configured threshold pass straight
// through; borderline candidates trigger one or two disambiguating questions
// with enumerated options. An item that already carries answers is never
// questioned again, which makes a clarification round terminate after a
// single trip.
package clarify

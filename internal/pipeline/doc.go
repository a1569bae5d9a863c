// Package pipeline provides a framework for executing scan steps in sequence.
//
// A duplicate scan is processed in three stages: enumeration of candidate
// files, parallel fingerprinting, and aggregation into ranked groups. Each
// stage is implemented as a Step that receives the current ScanResult and
// fills in its part.
//
// Cancellation is checked between steps. Library callers can append their
// own steps after the default ones with AddStep.
package pipeline

// Package extract implements the concurrent entity-extraction pipeline.
//
// A Pipeline fans per-message jobs out to a fixed-size worker pool, collects
// outcomes in completion order, links the results into the relational graph
// (file report -> message -> attachments/entities) and commits them in
// batches through a single storage session owned by the controller.
//
// Failure isolation is the organizing principle: one malformed message never
// aborts the run. Analysis failures are converted into error-tagged outcomes
// inside the job function, unresolved file links degrade to null links, and
// a failed commit drops only its own batch. Only cancellation of the
// controller's context ends a run early, and even then the pipeline returns
// an ordinary status instead of an error.
package extract

// Package temporal provides Temporal workflow client integration for the
// video curation backend.
//
// This package handles workflow client initialization, workflow/activity
// registration, and worker lifecycle management.
//
// # Overview
//
// The temporal package provides:
//
//   - CurationWorkflowClient: client wrapper for starting/managing workflows
//   - WorkerManager: worker process for executing workflows and activities
//   - Workflow definitions for the curation pipeline (workflows subpackage)
//   - Activity implementations wrapping the ingest and scheduler services
//     (activities subpackage)
//
// # Client Setup
//
// Create a workflow client:
//
//	cfg := temporal.ClientConfig{
//	    HostPort:  "localhost:7233",
//	    Namespace: "guddu",
//	    TaskQueue: "curation-tasks",
//	}
//
//	c, err := temporal.NewClient(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	wc := temporal.NewCurationWorkflowClient(c, cfg.TaskQueue)
//	defer wc.Close()
//
// # Starting Workflows
//
// Kick off tag extraction for an uploaded request:
//
//	workflowID, runID, err := wc.StartExtraction(ctx, requestID,
//	    workflows.TagExtractionWorkflow,
//	    activities.ExtractTagsInput{RequestID: requestID})
//
// Batch workflows run under fixed workflow IDs, so a second start while a
// batch is in flight fails with a workflow-already-started error:
//
//	_, _, err := wc.StartTagBatch(ctx, workflows.TagBatchWorkflow)
//	if temporal.IsWorkflowAlreadyStarted(err) {
//	    // a tag batch is already running
//	}
//
// # Worker Setup
//
// Create and start a worker:
//
//	manager, err := temporal.NewWorkerManager(c, temporal.DefaultWorkerConfig(cfg.TaskQueue))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	manager.RegisterWorkflow(workflows.TagExtractionWorkflow)
//	manager.RegisterWorkflow(workflows.TagBatchWorkflow)
//	manager.RegisterWorkflow(workflows.TopicBatchWorkflow)
//	manager.RegisterActivity(curationActivities)
//
//	if err := manager.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// Workflow errors are wrapped in TemporalError and matched with the helper
// predicates:
//
//	if temporal.IsWorkflowNotFound(err) {
//	    // workflow doesn't exist or already completed
//	}
//
// # Thread Safety
//
// The Temporal client is safe for concurrent use. Workers manage their own
// goroutines for activity execution.
package temporal

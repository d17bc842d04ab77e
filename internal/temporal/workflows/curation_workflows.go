// Package workflows defines the Temporal workflows for the video curation
// pipeline.
//
// All three workflows are deliberately thin: each executes a single activity
// and returns its result. The batch activities handle per-item failure
// isolation internally, so the batch workflows disable activity retries; a
// retried batch would re-claim and could double-search items that already
// reached a terminal status.
package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/surajit20072003/guddu-backend/internal/temporal/activities"
)

// TagExtractionWorkflow extracts keyword tags for one uploaded request.
// Extraction is idempotent end to end, so transient failures are retried.
func TagExtractionWorkflow(ctx workflow.Context, input activities.ExtractTagsInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("starting tag extraction workflow", "requestID", input.RequestID)

	var act *activities.CurationActivities

	activityCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    3,
		},
	})

	if err := workflow.ExecuteActivity(activityCtx, act.ExtractTags, input).Get(ctx, nil); err != nil {
		logger.Error("tag extraction failed", "requestID", input.RequestID, "error", err)
		return err
	}

	logger.Info("tag extraction completed", "requestID", input.RequestID)
	return nil
}

// TagBatchWorkflow runs one batch search over pending keyword tags.
func TagBatchWorkflow(ctx workflow.Context) (*activities.BatchOutput, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("starting tag batch workflow")

	var act *activities.CurationActivities

	var output activities.BatchOutput
	err := workflow.ExecuteActivity(batchActivityContext(ctx), act.ProcessTagBatch).Get(ctx, &output)
	if err != nil {
		logger.Error("tag batch failed", "error", err)
		return nil, err
	}

	logger.Info("tag batch completed",
		"claimed", output.Claimed,
		"completed", output.Completed,
		"failed", output.Failed,
	)
	return &output, nil
}

// TopicBatchWorkflow runs one batch search over pending curriculum topics.
func TopicBatchWorkflow(ctx workflow.Context) (*activities.BatchOutput, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("starting topic batch workflow")

	var act *activities.CurationActivities

	var output activities.BatchOutput
	err := workflow.ExecuteActivity(batchActivityContext(ctx), act.ProcessTopicBatch).Get(ctx, &output)
	if err != nil {
		logger.Error("topic batch failed", "error", err)
		return nil, err
	}

	logger.Info("topic batch completed",
		"claimed", output.Claimed,
		"completed", output.Completed,
		"failed", output.Failed,
	)
	return &output, nil
}

// batchActivityContext builds the activity options shared by both batch
// variants. MaximumAttempts is 1: failure isolation lives inside the
// activity's sequential loop, never in the retry policy.
func batchActivityContext(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Hour,
		HeartbeatTimeout:    0,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})
}

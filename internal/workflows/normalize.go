package workflows

import (
	"encoding/json"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// TaskQueue is the default task queue of the normalization worker.
const TaskQueue = "geometry-normalization"

// NormalizeInput is the input for the normalization workflow.
type NormalizeInput struct {
	HearingID string
	DryRun    bool
}

// NormalizeResult reports what the workflow did to one hearing.
type NormalizeResult struct {
	HearingID string
	Changed   bool
	Shapes    int
}

// WorkflowID is the deterministic workflow ID for a hearing, so a backfill
// never runs twice at once for the same record.
func WorkflowID(hearingID string) string {
	return "normalize-geometry-" + hearingID
}

// NormalizeHearingGeometryWorkflow loads a hearing's stored geometry,
// rewrites it into canonical form, saves it and announces the change. If the
// announcement fails, the original geometry is restored (saga compensation).
func NormalizeHearingGeometryWorkflow(ctx workflow.Context, input NormalizeInput) (NormalizeResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting geometry normalization", "hearingID", input.HearingID, "dryRun", input.DryRun)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)
	result := NormalizeResult{HearingID: input.HearingID}

	// Step 1: Load stored geometry
	var original json.RawMessage
	if err := workflow.ExecuteActivity(ctx, "LoadGeometry", input.HearingID).Get(ctx, &original); err != nil {
		return result, err
	}

	// Step 2: Canonicalize
	var canonical CanonicalGeometry
	err := workflow.ExecuteActivity(ctx, "CanonicalizeGeometry",
		CanonicalizeInput{GeoJSON: original, DryRun: input.DryRun}).Get(ctx, &canonical)
	if err != nil {
		return result, err
	}
	result.Changed = canonical.Changed
	result.Shapes = canonical.Shapes
	if !canonical.Changed || input.DryRun {
		logger.Info("Nothing written", "hearingID", input.HearingID, "changed", canonical.Changed)
		return result, nil
	}

	// Step 3: Save
	if err := workflow.ExecuteActivity(ctx, "SaveGeometry", input.HearingID, canonical.GeoJSON).Get(ctx, nil); err != nil {
		return result, err
	}

	// Step 4: Announce
	err = workflow.ExecuteActivity(ctx, "PublishNormalized", input.HearingID, canonical.Shapes).Get(ctx, nil)
	if err != nil {
		logger.Warn("publish failed, compensating", "error", err)
		// Compensate: restore the original bytes
		_ = workflow.ExecuteActivity(ctx, "RestoreGeometry", input.HearingID, original).Get(ctx, nil)
		return result, err
	}

	logger.Info("Geometry normalized", "hearingID", input.HearingID, "shapes", canonical.Shapes)
	return result, nil
}

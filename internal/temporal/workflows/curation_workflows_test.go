package workflows

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"github.com/surajit20072003/guddu-backend/internal/temporal/activities"
)

func TestTagExtractionWorkflow(t *testing.T) {
	t.Run("executes extraction activity", func(t *testing.T) {
		var suite testsuite.WorkflowTestSuite
		env := suite.NewTestWorkflowEnvironment()

		input := activities.ExtractTagsInput{RequestID: uuid.New()}
		var act *activities.CurationActivities
		env.OnActivity(act.ExtractTags, mock.Anything, input).Return(nil)

		env.ExecuteWorkflow(TagExtractionWorkflow, input)

		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())
		env.AssertExpectations(t)
	})

	t.Run("propagates activity failure", func(t *testing.T) {
		var suite testsuite.WorkflowTestSuite
		env := suite.NewTestWorkflowEnvironment()

		input := activities.ExtractTagsInput{RequestID: uuid.New()}
		var act *activities.CurationActivities
		env.OnActivity(act.ExtractTags, mock.Anything, input).Return(errors.New("database down"))

		env.ExecuteWorkflow(TagExtractionWorkflow, input)

		require.True(t, env.IsWorkflowCompleted())
		assert.Error(t, env.GetWorkflowError())
	})
}

func TestTagBatchWorkflow(t *testing.T) {
	t.Run("returns batch summary", func(t *testing.T) {
		var suite testsuite.WorkflowTestSuite
		env := suite.NewTestWorkflowEnvironment()

		var act *activities.CurationActivities
		env.OnActivity(act.ProcessTagBatch, mock.Anything).Return(&activities.BatchOutput{
			Kind:      "tag",
			Claimed:   80,
			Completed: 78,
			Failed:    2,
		}, nil)

		env.ExecuteWorkflow(TagBatchWorkflow)

		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())

		var output activities.BatchOutput
		require.NoError(t, env.GetWorkflowResult(&output))
		assert.Equal(t, "tag", output.Kind)
		assert.Equal(t, 80, output.Claimed)
		assert.Equal(t, 78, output.Completed)
		assert.Equal(t, 2, output.Failed)
	})

	t.Run("does not retry the batch activity", func(t *testing.T) {
		var suite testsuite.WorkflowTestSuite
		env := suite.NewTestWorkflowEnvironment()

		var act *activities.CurationActivities
		env.OnActivity(act.ProcessTagBatch, mock.Anything).
			Return(nil, errors.New("claim failed")).Once()

		env.ExecuteWorkflow(TagBatchWorkflow)

		require.True(t, env.IsWorkflowCompleted())
		assert.Error(t, env.GetWorkflowError())
		env.AssertExpectations(t)
	})
}

func TestTopicBatchWorkflow(t *testing.T) {
	t.Run("returns batch summary", func(t *testing.T) {
		var suite testsuite.WorkflowTestSuite
		env := suite.NewTestWorkflowEnvironment()

		var act *activities.CurationActivities
		env.OnActivity(act.ProcessTopicBatch, mock.Anything).Return(&activities.BatchOutput{
			Kind:      "topic",
			Claimed:   5,
			Completed: 5,
		}, nil)

		env.ExecuteWorkflow(TopicBatchWorkflow)

		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())

		var output activities.BatchOutput
		require.NoError(t, env.GetWorkflowResult(&output))
		assert.Equal(t, "topic", output.Kind)
		assert.Equal(t, 5, output.Completed)
	})
}

package activities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/surajit20072003/guddu-backend/internal/scheduler"
)

func TestBatchOutput(t *testing.T) {
	t.Run("converts from batch summary", func(t *testing.T) {
		summary := &scheduler.BatchSummary{
			Kind:      "tag",
			Claimed:   80,
			Completed: 77,
			Failed:    3,
			Duration:  90 * time.Second,
		}

		output := batchOutput(summary)

		assert.Equal(t, "tag", output.Kind)
		assert.Equal(t, 80, output.Claimed)
		assert.Equal(t, 77, output.Completed)
		assert.Equal(t, 3, output.Failed)
		assert.InDelta(t, 90.0, output.DurationSeconds, 0.001)
	})
}

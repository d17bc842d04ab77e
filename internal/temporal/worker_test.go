package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWorkerConfig(t *testing.T) {
	t.Run("sets task queue and defaults", func(t *testing.T) {
		cfg := DefaultWorkerConfig("test-queue")

		assert.Equal(t, "test-queue", cfg.TaskQueue)
		assert.Equal(t, 10, cfg.MaxConcurrentActivityExecutionSize)
		assert.Equal(t, 10, cfg.MaxConcurrentWorkflowTaskExecutionSize)
		assert.Equal(t, 2, cfg.MaxConcurrentActivityTaskPollers)
		assert.Equal(t, 2, cfg.MaxConcurrentWorkflowTaskPollers)
	})
}

func TestNewWorkerManager(t *testing.T) {
	t.Run("errors when task queue is empty", func(t *testing.T) {
		cfg := WorkerConfig{TaskQueue: ""}
		_, err := NewWorkerManager(nil, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "task queue is required")
	})
}

func TestWorkerOptionsFromConfig(t *testing.T) {
	t.Run("zero values get defaults", func(t *testing.T) {
		cfg := WorkerConfig{}
		opts := workerOptionsFromConfig(cfg)

		assert.Equal(t, 10, opts.MaxConcurrentActivityExecutionSize)
		assert.Equal(t, 10, opts.MaxConcurrentWorkflowTaskExecutionSize)
		assert.Equal(t, 2, opts.MaxConcurrentActivityTaskPollers)
		assert.Equal(t, 2, opts.MaxConcurrentWorkflowTaskPollers)
	})

	t.Run("non-zero values are preserved", func(t *testing.T) {
		cfg := WorkerConfig{
			MaxConcurrentActivityExecutionSize:     40,
			MaxConcurrentWorkflowTaskExecutionSize: 20,
			MaxConcurrentActivityTaskPollers:       8,
			MaxConcurrentWorkflowTaskPollers:       4,
		}
		opts := workerOptionsFromConfig(cfg)

		assert.Equal(t, 40, opts.MaxConcurrentActivityExecutionSize)
		assert.Equal(t, 20, opts.MaxConcurrentWorkflowTaskExecutionSize)
		assert.Equal(t, 8, opts.MaxConcurrentActivityTaskPollers)
		assert.Equal(t, 4, opts.MaxConcurrentWorkflowTaskPollers)
	})

	t.Run("partial zero values get defaults selectively", func(t *testing.T) {
		cfg := WorkerConfig{
			MaxConcurrentActivityExecutionSize: 15,
			MaxConcurrentActivityTaskPollers:   6,
		}
		opts := workerOptionsFromConfig(cfg)

		assert.Equal(t, 15, opts.MaxConcurrentActivityExecutionSize)
		assert.Equal(t, 10, opts.MaxConcurrentWorkflowTaskExecutionSize)
		assert.Equal(t, 6, opts.MaxConcurrentActivityTaskPollers)
		assert.Equal(t, 2, opts.MaxConcurrentWorkflowTaskPollers)
	})
}

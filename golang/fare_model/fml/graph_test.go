package fml

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineGraph(t *testing.T) {
	X, y := makeTrips(t, 20, 8)
	trainer := NewTrainer(X, y, DefaultTrainerOptions())
	require.NoError(t, trainer.Run())

	graphViz, graph, err := trainer.Pipeline().DrawGraph()
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, graph.Close())
		assert.NoError(t, graphViz.Close())
	}()
	assert.NotNil(t, graph)

	fileName := path.Join(t.TempDir(), "pipeline.svg")
	require.NoError(t, trainer.Pipeline().RenderGraph(fileName))
	picture, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Contains(t, string(picture), "linear_regression")
	assert.Contains(t, string(picture), "stdscaler")

	assert.Error(t, trainer.Pipeline().RenderGraph(path.Join(t.TempDir(), "pipeline.bmp")))
}

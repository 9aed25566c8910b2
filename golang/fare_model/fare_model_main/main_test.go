package main

import (
	"bytes"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCommand.SetOut(&out)
	rootCommand.SetArgs(args)
	require.NoError(t, rootCommand.Execute())
	return out.String()
}

func TestGenerateImportGraph(t *testing.T) {
	dir := t.TempDir()
	csvPath := path.Join(dir, "train.csv")
	dbPath := path.Join(dir, "trips.db")
	picture := path.Join(dir, "pipeline.svg")

	execute(t, "generate", "--rows", "50", "--seed", "3", "--out", csvPath)
	assert.FileExists(t, csvPath)

	printed := execute(t, "import", "--csv", csvPath, "--db", dbPath)
	assert.Contains(t, printed, "50 trips stored, 50 in")

	t.Setenv("FARE_DATA_SOURCE", "bolt")
	t.Setenv("FARE_DATA_PATH", dbPath)
	execute(t, "graph", "--out", picture)
	assert.FileExists(t, picture)
}

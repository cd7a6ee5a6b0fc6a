package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRunPassingExamples(t *testing.T) {
	out, _, err := execute(t, "run", "books", "dates")
	require.NoError(t, err)
	assert.Contains(t, out, "Tests defined in the class: examples.BookExamples:")
	assert.Contains(t, out, "Tests defined in the class: examples.DateExamples:")
	assert.Contains(t, out, "All tests passed.")
	assert.NotContains(t, out, "Full test results")
}

func TestRunFull(t *testing.T) {
	out, _, err := execute(t, "run", "songs", "--full")
	require.NoError(t, err)
	assert.Contains(t, out, "Full test results: \n-------------------\n")
	assert.Contains(t, out, "Success in the test number 1")
	assert.Contains(t, out, "--- END OF FULL TEST RESULTS ---")
}

func TestRunPrintAll(t *testing.T) {
	out, _, err := execute(t, "run", "points", "--print-all")
	require.NoError(t, err)
	assert.Contains(t, out, "examples.PointExamples:\n---------------\n")
}

func TestRunFailingExamples(t *testing.T) {
	out, _, err := execute(t, "run", "cli-failing")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "1 of 1 examples failed")
	assert.Contains(t, out, "Error in test number 1")
	assert.Contains(t, out, "arithmetic")
	assert.Contains(t, out, "1 test failed.")
}

func TestRunAllIncludesFailures(t *testing.T) {
	_, _, err := execute(t, "run")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRunUnknownExamples(t *testing.T) {
	_, _, err := execute(t, "run", "books", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `unknown examples "nope"`)
}

func TestRunNegativeTolerance(t *testing.T) {
	_, _, err := execute(t, "run", "books", "--tolerance", "-0.5")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunJSON(t *testing.T) {
	out, _, err := execute(t, "run", "ranges", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   RunResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Passed)
	require.Len(t, resp.Data.Reports, 1)
	assert.Equal(t, "examples.RangeExamples", resp.Data.Reports[0].Examples)
	assert.NotEmpty(t, resp.Data.Reports[0].Results)
}

func TestRunYAML(t *testing.T) {
	out, _, err := execute(t, "run", "cli-failing", "--format", "yaml")
	require.Error(t, err)

	var resp map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp["status"])
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1, data["failed"])
}

func TestRunVerboseLogs(t *testing.T) {
	_, errOut, err := execute(t, "run", "books", "-v")
	require.NoError(t, err)
	assert.Contains(t, errOut, "running examples")
}

func TestRunRecordsHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	_, _, err := execute(t, "run", "books", "songs", "--history", db)
	require.NoError(t, err)

	out, _, err := execute(t, "history", "--history", db)
	require.NoError(t, err)
	assert.Contains(t, out, "examples.BookExamples")
	assert.Contains(t, out, "examples.SongExamples")
}

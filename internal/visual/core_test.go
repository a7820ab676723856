package visual

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelproof/internal/baseline"
	"pixelproof/internal/pixel"
)

func diffArtifacts(t *testing.T, dir, screenID string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read storage dir: %v", err)
	}
	var diffs []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), screenID+"_diff_") {
			diffs = append(diffs, filepath.Join(dir, e.Name()))
		}
	}
	return diffs
}

func TestNewCoreValidatesDefaultSensitivity(t *testing.T) {
	_, err := NewCore(t.TempDir(), 1.5)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestVerifyFirstRunCreatesBaseline(t *testing.T) {
	dir := t.TempDir()
	core, err := NewCore(dir, 0.05)
	require.NoError(t, err)

	m := pixel.MustMatrix([][]int{{10, 20}, {30, 40}})
	result, err := core.Verify("home", m, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, StatusBaselineCreated, result.Status)
	assert.Equal(t, 0.0, result.DiffRatio)
	assert.Equal(t, 0.05, result.Sensitivity)
	assert.Equal(t, filepath.Join(dir, "home_baseline.txt"), result.BaselinePath)
	assert.Empty(t, result.DiffPath)
	assert.Equal(t, []string{"Baseline created for future comparisons."}, result.Remediation)

	_, statErr := os.Stat(result.BaselinePath)
	assert.NoError(t, statErr, "baseline file must exist at the deterministic path")
	assert.Empty(t, diffArtifacts(t, dir, "home"), "baseline creation must not write a diff artifact")
}

func TestVerifySecondRunIdenticalPasses(t *testing.T) {
	dir := t.TempDir()
	core, err := NewCore(dir, 0.05)
	require.NoError(t, err)

	m := pixel.MustMatrix([][]int{{10, 20}, {30, 40}})
	_, err = core.Verify("home", m, nil, nil)
	require.NoError(t, err)

	result, err := core.Verify("home", pixel.MustMatrix(m.Cells()), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusPass, result.Status)
	assert.Equal(t, 0.0, result.DiffRatio)
	assert.Equal(t, []string{"Visual comparison within sensitivity threshold."}, result.Remediation)
	assert.Empty(t, diffArtifacts(t, dir, "home"))
}

func TestVerifyBoundaryRatioPasses(t *testing.T) {
	dir := t.TempDir()
	core, err := NewCore(dir, 0.05)
	require.NoError(t, err)

	baseline := pixel.MustMatrix([][]int{{100, 100}})
	_, err = core.Verify("exact", baseline, nil, nil)
	require.NoError(t, err)

	// Uniform +51 shift gives ratio 51/255 = 0.2, exactly the override.
	candidate := pixel.MustMatrix([][]int{{151, 151}})
	override := 0.2
	result, err := core.Verify("exact", candidate, &override, nil)
	require.NoError(t, err)

	assert.Equal(t, StatusPass, result.Status, "ratio equal to threshold must pass")
	assert.InDelta(t, 0.2, result.DiffRatio, 1e-12)
}

func TestVerifyFailWritesDiffAndTwoSuggestions(t *testing.T) {
	dir := t.TempDir()
	core, err := NewCore(dir, 0.05)
	require.NoError(t, err)

	baseline := pixel.MustMatrix([][]int{{100, 100}, {100, 100}})
	_, err = core.Verify("dashboard", baseline, nil, nil)
	require.NoError(t, err)

	candidate := pixel.MustMatrix([][]int{{130, 130}, {130, 130}})
	result, err := core.Verify("dashboard", candidate, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, StatusFail, result.Status)
	assert.InDelta(t, 30.0/255.0, result.DiffRatio, 1e-12)
	require.NotEmpty(t, result.DiffPath)
	assert.Equal(t, result.DiffPath, result.Screenshot())

	require.Len(t, result.Remediation, 2)
	assert.Equal(t, "Visual deviation of 0.118 exceeds sensitivity 0.050. Review UI changes.", result.Remediation[0])
	assert.Equal(t, "Consider updating baseline if the change is expected.", result.Remediation[1])

	data, readErr := os.ReadFile(result.DiffPath)
	require.NoError(t, readErr)
	assert.Equal(t, "30 30\n30 30\n", string(data), "diff artifact holds signed candidate-baseline values")
}

func TestVerifySensitivityPrecedenceEndToEnd(t *testing.T) {
	dir := t.TempDir()
	core, err := NewCore(dir, 0.05)
	require.NoError(t, err)

	baseline := pixel.MustMatrix([][]int{{100}})
	_, err = core.Verify("prec", baseline, nil, nil)
	require.NoError(t, err)

	// Ratio is 30/255 ~ 0.1176: fails the core default, passes the screen
	// override.
	candidate := pixel.MustMatrix([][]int{{130}})
	override := 0.2
	agentDefault := 0.1

	result, err := core.Verify("prec", candidate, &override, &agentDefault)
	require.NoError(t, err)
	assert.Equal(t, StatusPass, result.Status)
	assert.Equal(t, 0.2, result.Sensitivity)
}

func TestVerifyDimensionMismatchLeavesStateUntouched(t *testing.T) {
	dir := t.TempDir()
	core, err := NewCore(dir, 0.05)
	require.NoError(t, err)

	baseline := pixel.MustMatrix([][]int{{1, 2}, {3, 4}})
	first, err := core.Verify("shape", baseline, nil, nil)
	require.NoError(t, err)

	before, err := os.ReadFile(first.BaselinePath)
	require.NoError(t, err)

	_, err = core.Verify("shape", pixel.MustMatrix([][]int{{1, 2, 3}}), nil, nil)
	var mismatch *DimensionMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Contains(t, err.Error(), `"shape"`, "error must identify the offending screen")

	after, readErr := os.ReadFile(first.BaselinePath)
	require.NoError(t, readErr)
	assert.Equal(t, before, after, "stored baseline must be unchanged")
	assert.Empty(t, diffArtifacts(t, dir, "shape"), "no diff artifact on mismatch")
}

func TestVerifyInvalidOverrideSurfacesBeforeComparison(t *testing.T) {
	dir := t.TempDir()
	core, err := NewCore(dir, 0.05)
	require.NoError(t, err)

	bad := 1.2
	_, err = core.Verify("cfg", pixel.MustMatrix([][]int{{1}}), &bad, nil)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	// Resolution failed before the baseline branch, so nothing was stored.
	assert.NoFileExists(t, filepath.Join(dir, "cfg_baseline.txt"))
}

func TestVerifyCorruptBaselinePropagatesStorageError(t *testing.T) {
	dir := t.TempDir()
	core, err := NewCore(dir, 0.05)
	require.NoError(t, err)

	m := pixel.MustMatrix([][]int{{5}})
	first, err := core.Verify("corrupt", m, nil, nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(first.BaselinePath, []byte("bogus data\n"), 0o644))

	_, err = core.Verify("corrupt", m, nil, nil)
	var storageErr *baseline.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Contains(t, err.Error(), "corrupt")
}

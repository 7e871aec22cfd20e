package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annealbench/annealbench/harness"
)

const testPlanYAML = `
version: "1"
plans:
  small:
    summary: summary.csv
    machines: 4
    jobs:
      values: [100, 500]
    threads:
      values: [2, 4]
    sequential: true
    p_min: 1
    p_max: 50
    cooling: {type: geom, t0: 3000, param: 0.995}
    max_no_improve: 200
    outer_no_improve: 5
    runs:
      by_jobs: {100: 5, 500: 3}
    hard_limit:
      default: 200000
    seed:
      by_jobs: {100: 4242100, 500: 4242500}
`

func writePlan(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plans.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_StrictParsing_RejectsUnknownKeys(t *testing.T) {
	// GIVEN a plan with a typo in a field name
	path := writePlan(t, "version: \"1\"\nplans:\n  x:\n    machnes: 4\n")

	// WHEN loaded
	_, err := Load(path)

	// THEN the typo is rejected
	assert.Error(t, err)
}

func TestLoad_MissingFile_ReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFile_Get_UnknownPlanListsAvailable(t *testing.T) {
	f, err := Load(writePlan(t, testPlanYAML))
	require.NoError(t, err)

	_, err = f.Get("heatmap")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "small")
}

func TestAxis_Expand_InclusiveRange(t *testing.T) {
	got, err := Axis{Start: 100, End: 5000, Step: 250}.Expand()
	require.NoError(t, err)
	assert.Len(t, got, 20)
	assert.Equal(t, 100, got[0])
	assert.Equal(t, 4850, got[len(got)-1])
}

func TestAxis_Expand_ExplicitValuesKeepOrder(t *testing.T) {
	got, err := Axis{Values: []int{12, 2, 6}, Start: 1, End: 3, Step: 1}.Expand()
	require.NoError(t, err)
	assert.Equal(t, []int{12, 2, 6}, got)
}

func TestAxis_Expand_RejectsZeroStep(t *testing.T) {
	_, err := Axis{Start: 1, End: 10}.Expand()
	assert.Error(t, err)
}

func TestIntRule_Resolve_LookupOrder(t *testing.T) {
	r := IntRule{
		Default: 800000,
		ByJobs:  map[int]int{1000: 1},
		Steps:   []Step{{MaxJobs: 2000, Value: 400000}, {MaxJobs: 500, Value: 200000}},
	}
	tests := []struct {
		n    int
		want int
	}{
		{100, 200000},
		{500, 200000},
		{750, 400000},
		{1000, 1},
		{2000, 400000},
		{4850, 800000},
	}
	for _, tt := range tests {
		got, err := r.Resolve(tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "N=%d", tt.n)
	}
}

func TestIntRule_Resolve_NoMatchIsError(t *testing.T) {
	_, err := IntRule{ByJobs: map[int]int{100: 5}}.Resolve(200)
	assert.Error(t, err)
}

func TestSeedRule_Resolve(t *testing.T) {
	assert.Equal(t, int64(900350), SeedRule{Base: 900000, AddJobs: true}.Resolve(350))
	assert.Equal(t, int64(7), SeedRule{Base: 7}.Resolve(350))
	assert.Equal(t, int64(4242100), SeedRule{Base: 7, ByJobs: map[int]int64{100: 4242100}}.Resolve(100))
}

func TestSpec_Series_SequentialFirst(t *testing.T) {
	f, err := Load(writePlan(t, testPlanYAML))
	require.NoError(t, err)
	spec, err := f.Get("small")
	require.NoError(t, err)

	series, err := spec.Series()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4}, series)
}

func TestSpec_Validate_RejectsMissingRunsForJobCount(t *testing.T) {
	f, err := Load(writePlan(t, testPlanYAML))
	require.NoError(t, err)
	spec := f.Plans["small"]
	spec.Jobs.Values = append(spec.Jobs.Values, 1000)

	assert.Error(t, spec.Validate())
}

func TestSpec_Validate_RejectsEmptySweep(t *testing.T) {
	f, err := Load(writePlan(t, testPlanYAML))
	require.NoError(t, err)
	spec := f.Plans["small"]
	spec.Sequential = false
	spec.Threads = Axis{}

	assert.Error(t, spec.Validate())
}

func TestShippedPlans_LoadAndValidate(t *testing.T) {
	path := "../../plans.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("plans.yaml not found, skipping")
	}
	f, err := Load(path)
	require.NoError(t, err)
	for _, name := range []string{"compare", "heatmap"} {
		spec, err := f.Get(name)
		require.NoError(t, err, name)
		cfgs, err := Generate(spec)
		require.NoError(t, err, name)
		assert.NotEmpty(t, cfgs)
	}

	heat, err := f.Get("heatmap")
	require.NoError(t, err)
	threads, err := heat.ThreadAxis()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, threads)
	cfgs, err := Generate(heat)
	require.NoError(t, err)
	assert.Len(t, cfgs, 12*20)
	for _, c := range cfgs {
		assert.Equal(t, harness.ModeParallel, c.Mode)
	}
}

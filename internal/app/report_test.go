package app

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/verapi/internal/facade"
	"sigs.k8s.io/yaml"
)

func TestReport(t *testing.T) {
	a, _ := newTestApp(t, testHCL)

	r := a.Report()
	assert.Equal(t, "edge", r.Product)
	assert.Equal(t, "0.4.0", r.SDKVersion)
	assert.Equal(t, "2.0.0", r.Latest)
	require.Len(t, r.Bundles, 3)

	latest := r.Bundles[2]
	assert.True(t, latest.Latest)
	assert.Equal(t, 20000, latest.Code)
	assert.Equal(t, []string{"#20000", "2", "2.0", "2.0.0"}, latest.Keys)

	want := []APIReport{
		{
			Name: "greet", Resolved: true, Version: "2.0.0", Kind: "callable",
			Probes: []ProbeReport{{Path: "edge.api.02.greet", Outcome: "found"}},
		},
		{
			Name: "features", Resolved: true, Version: "1.0.0", Kind: "structured", FromLatest: true,
			Probes: []ProbeReport{{Path: "edge.api.02.features", Outcome: "absent"}},
		},
		{
			Name: "broken", FromLatest: true,
			Probes: []ProbeReport{{
				Path:    "edge.api.02.broken",
				Outcome: "error",
				Error:   "loading edge.api.02.broken: disk on fire",
			}},
		},
	}
	if diff := cmp.Diff(want, latest.APIs); diff != "" {
		t.Errorf("latest bundle APIs mismatch (-want +got):\n%s", diff)
	}
}

func TestReport_KeysOwnedByLaterBundle(t *testing.T) {
	a, _ := newTestApp(t, testHCL)
	r := a.Report()

	// "1" belongs to the last 1.x registered, so 1.0.0 keeps only its exact keys.
	assert.Equal(t, []string{"#10000", "1.0", "1.0.0"}, r.Bundles[0].Keys)
	assert.Equal(t, []string{"#10100", "1", "1.1", "1.1.0"}, r.Bundles[1].Keys)
}

func TestAPIReport(t *testing.T) {
	a, _ := newTestApp(t, testHCL)

	got, err := a.APIReport("1.1", "features")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", got.Version)

	_, err = a.APIReport("2", "broken")
	var missing *facade.NameNotFoundError
	require.True(t, errors.As(err, &missing))
	assert.EqualError(t, err, `edge "broken" (2.0.0) was not found`)

	_, err = a.APIReport("9", "greet")
	var unknown *facade.UnknownVersionError
	require.True(t, errors.As(err, &unknown))
	assert.EqualError(t, err, `invalid edge version "9"`)
}

func TestDescribe(t *testing.T) {
	a, _ := newTestApp(t, testHCL)

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, a.Describe(&out, "text"))
		s := out.String()
		assert.Contains(t, s, "edge (sdk 0.4.0), namespace edge.api, latest 2.0.0")
		assert.Contains(t, s, "version 2.0.0 (#20000) [latest]")
		assert.Contains(t, s, "from latest")
		assert.Contains(t, s, "missing")
	})

	t.Run("yaml", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, a.Describe(&out, "yaml"))

		var decoded Report
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
		if diff := cmp.Diff(a.Report(), decoded); diff != "" {
			t.Errorf("yaml round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, a.Describe(&out, "json"))
		assert.Contains(t, out.String(), `"latest": "2.0.0"`)
	})

	t.Run("unknown format", func(t *testing.T) {
		require.Error(t, a.Describe(&bytes.Buffer{}, "xml"))
	})
}

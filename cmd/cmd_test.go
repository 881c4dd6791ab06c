package cmd

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/cottand/gradual/internal/metrics"
	"github.com/cottand/gradual/symtab"
	"github.com/cottand/gradual/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"gotest.tools/v3/golden"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestQueries(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		expected string
	}{
		{"subtype", []string{"subtype", "Integer", "Numeric"}, "true\n"},
		{"not a subtype", []string{"subtype", "Numeric", "Integer"}, "false\n"},
		{"equiv", []string{"equiv", "T.any(Integer, Integer)", "Integer"}, "true\n"},
		{"lub", []string{"lub", "Integer", "Float"}, "T.any(Integer, Float)\n"},
		{"lub of literals", []string{"lub", "1", "2", "3"}, "Integer\n"},
		{"glb", []string{"glb", "T.nilable(Integer)", "NilClass"}, "NilClass\n"},
		{"subtract", []string{"subtract", "T.nilable(Integer)", "NilClass"}, "Integer\n"},
		{"dispatch", []string{"dispatch", "T::Array[Integer]", "empty?"}, "T::Boolean\n"},
		{"dispatch with arguments", []string{"dispatch", "T::Array[Integer]", "include?", "Integer"}, "T::Boolean\n"},
		{"dispatch on a user universe", []string{"--universe", "../types/testdata/zoo.toml", "dispatch", "Box[Dog]", "get"}, "Dog\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}
}

func TestGoldenOutput(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"show", []string{"show", "T::Array[T.nilable(Integer)]"}},
		{"dispatch-block", []string{"dispatch", "T::Array[Integer]", "map", "--block"}},
		{"dispatch-unknown", []string{"dispatch", "Integer", "frobnicate"}},
		{"check", []string{"check", "testdata/queries.toml", "-j", "2"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, tc.args...)
			require.NoError(t, err)
			golden.Assert(t, out, tc.name+".golden")
		})
	}
}

func TestShowDump(t *testing.T) {
	plain, err := execute(t, "show", "T::Array[Integer]")
	require.NoError(t, err)
	dumped, err := execute(t, "show", "--dump", "T::Array[Integer]")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dumped, strings.TrimSuffix(plain, "\n")))
	assert.Greater(t, len(dumped), len(plain))
}

func TestErrors(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		contains string
	}{
		{"unknown constant", []string{"subtype", "Nope", "Integer"}, `parsing "Nope"`},
		{"missing universe", []string{"--universe", "testdata/missing.toml", "lub", "1", "2"}, "opening universe"},
		{"bad log level", []string{"--log-level", "loud", "lub", "1", "2"}, "invalid --log-level"},
		{"bad query file", []string{"check", "testdata/bad_queries.toml"}, "unknown keys"},
		{"bad query", []string{"check", "testdata/bad_arity.toml"}, "query 2 (subtype Integer): subtype takes 2 types, got 1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, tc.args...)
			assert.ErrorContains(t, err, tc.contains)
		})
	}
}

func TestDispatchReleasesArguments(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	inst, err := metrics.New(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, err)
	table := symtab.MustUniverse()
	require.NoError(t, table.LoadFile("../types/testdata/zoo.toml"))
	e := &env{table: table, opts: types.Options{Metrics: inst}}

	out, err := e.run(query{Op: "dispatch", Args: []string{"Util", "1", `"s"`}, Method: "opt"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var sizes metricdata.Histogram[int64]
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == metrics.OriginsSizeName {
				sizes = m.Data.(metricdata.Histogram[int64])
			}
		}
	}
	require.Len(t, sizes.DataPoints, 1)
	assert.Equal(t, uint64(2), sizes.DataPoints[0].Count, "one record per argument")
}

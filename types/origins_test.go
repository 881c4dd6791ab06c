package types_test

import (
	"context"
	"testing"

	"github.com/cottand/gradual/internal/metrics"
	"github.com/cottand/gradual/source"
	"github.com/cottand/gradual/symtab"
	"github.com/cottand/gradual/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestExplain(t *testing.T) {
	f := newFixture(t)
	first := source.Loc{File: "a.rb", Begin: 1, End: 3}
	second := source.Loc{File: "a.rb", Begin: 10, End: 12}

	typed := types.Typed(f.parse("T.nilable(Integer)"), first, second)
	assert.Equal(t, first, typed.Loc())

	lines := typed.Explain(f.ctx, "x")
	require.Len(t, lines, 2)
	assert.Equal(t, second, lines[1].Loc)
	assert.Equal(t, "x got type `T.nilable(Integer)` here", lines[0].Message)

	untraced := types.Typed(types.String)
	assert.Equal(t, source.NoLoc, untraced.Loc())
	assert.Equal(t, "y has type `String`", untraced.Explain(f.ctx, "y")[0].Message)
}

func TestMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	inst, err := metrics.New(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, err)
	ctx := types.NewCtx(symtab.MustUniverse(), types.Options{Metrics: inst})

	types.Typed(types.Integer, source.Loc{File: "a.rb"}, source.Loc{File: "b.rb"}).Release(ctx)
	types.DispatchCall(ctx, types.Integer, types.CallArgs{Name: types.Name("to_s")})
	types.DispatchCall(ctx, types.Integer, types.CallArgs{Name: types.Name("to_s")})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	byName := map[string]metricdata.Aggregation{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m.Data
	}

	hist, ok := byName[metrics.OriginsSizeName].(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, int64(2), hist.DataPoints[0].Sum)

	dispatches, ok := byName[metrics.DispatchesName].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, dispatches.DataPoints, 1)
	assert.Equal(t, int64(2), dispatches.DataPoints[0].Value)
}

package route

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaplan/internal/types"
)

func equatorNodes() []types.SpatialNode {
	return []types.SpatialNode{
		{Index: 0, Name: "origin", Lat: 0, Lon: 0, CumulativeNm: 0, IsOriginal: true},
		{Index: 1, Lat: 0, Lon: 1.667, CumulativeNm: 100},
		{Index: 2, Name: "destination", Lat: 0, Lon: 3.333, CumulativeNm: 200, IsOriginal: true},
	}
}

func assertRouteError(t *testing.T, err error, code types.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func TestBuild(t *testing.T) {
	r, err := Build(equatorNodes())
	require.NoError(t, err)

	require.Len(t, r.Nodes, 3)
	require.Len(t, r.Legs, 2)
	for i, leg := range r.Legs {
		assert.Equal(t, i, leg.Index)
		assert.InDelta(t, 100, leg.DistanceNm, 1e-9)
		assert.InDelta(t, 90, leg.BearingDeg, 1e-6, "eastward equator leg")
	}
	assert.Equal(t, 200.0, r.TotalNm())
}

func TestBuildSortsUnorderedInput(t *testing.T) {
	nodes := equatorNodes()
	nodes[0], nodes[2] = nodes[2], nodes[0]

	r, err := Build(nodes)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Nodes[0].Index)
	assert.Equal(t, "origin", r.Nodes[0].Name)
	assert.Equal(t, 2, r.Nodes[2].Index)
}

func TestBuildTooFewNodes(t *testing.T) {
	_, err := Build(equatorNodes()[:1])
	assertRouteError(t, err, types.ErrCodeInvalidRoute)

	_, err = Build(nil)
	assertRouteError(t, err, types.ErrCodeInvalidRoute)
}

func TestBuildNonContiguousIndices(t *testing.T) {
	nodes := equatorNodes()
	nodes[1].Index = 5
	_, err := Build(nodes)
	assertRouteError(t, err, types.ErrCodeInvalidRoute)
}

func TestBuildNonZeroStart(t *testing.T) {
	nodes := equatorNodes()
	nodes[0].CumulativeNm = 3
	_, err := Build(nodes)
	assertRouteError(t, err, types.ErrCodeInvalidRoute)
}

func TestBuildZeroLengthLeg(t *testing.T) {
	nodes := equatorNodes()
	nodes[1].CumulativeNm = 0
	_, err := Build(nodes)
	assertRouteError(t, err, types.ErrCodeDegenerateLeg)
}

func TestBuildDecreasingDistance(t *testing.T) {
	nodes := equatorNodes()
	nodes[2].CumulativeNm = 50
	_, err := Build(nodes)
	assertRouteError(t, err, types.ErrCodeDegenerateLeg)
}

func TestBuildCoincidentCoordinates(t *testing.T) {
	nodes := equatorNodes()
	nodes[1].Lat, nodes[1].Lon = nodes[0].Lat, nodes[0].Lon
	_, err := Build(nodes)
	assertRouteError(t, err, types.ErrCodeDegenerateLeg)
}

func TestRemainingNm(t *testing.T) {
	r, err := Build(equatorNodes())
	require.NoError(t, err)

	assert.Equal(t, 200.0, r.RemainingNm(0))
	assert.Equal(t, 100.0, r.RemainingNm(1))
	assert.Equal(t, 0.0, r.RemainingNm(2))
	assert.Equal(t, 0.0, r.RemainingNm(99))
}

// Package route builds the ordered spatial-node sequence of a voyage and the
// legs derived from it. The node sequence comes from the weather store (or
// any other topology provider); this package validates it and computes the
// per-leg distances and initial bearings the optimizer and simulator consume.
package route

import (
	"fmt"
	"sort"

	"seaplan/internal/physics"
	"seaplan/internal/types"
)

// Route is the validated, immutable node sequence with derived legs.
// Leg i connects Nodes[i] to Nodes[i+1].
type Route struct {
	Nodes []types.SpatialNode
	Legs  []types.Leg
}

// Build validates the node records and derives the legs. Nodes must be
// contiguously indexed from 0 with strictly increasing cumulative distances;
// a zero-length leg or a coordinate-degenerate pair fails with DegenerateLeg.
func Build(nodes []types.SpatialNode) (*Route, error) {
	if len(nodes) < 2 {
		return nil, types.NewAppError(types.ErrCodeInvalidRoute,
			fmt.Sprintf("route needs at least 2 nodes, got %d", len(nodes)), nil)
	}

	ordered := make([]types.SpatialNode, len(nodes))
	copy(ordered, nodes)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	for i, n := range ordered {
		if n.Index != i {
			return nil, types.NewAppError(types.ErrCodeInvalidRoute,
				fmt.Sprintf("node indices are not contiguous from 0: position %d has index %d", i, n.Index), nil)
		}
	}
	if ordered[0].CumulativeNm != 0 {
		return nil, types.NewAppError(types.ErrCodeInvalidRoute,
			fmt.Sprintf("first node has cumulative distance %.3f nm, expected 0", ordered[0].CumulativeNm), nil)
	}

	legs := make([]types.Leg, len(ordered)-1)
	for i := 0; i < len(ordered)-1; i++ {
		a, b := ordered[i], ordered[i+1]
		dist := b.CumulativeNm - a.CumulativeNm
		if dist <= 0 {
			return nil, types.NewAppError(types.ErrCodeDegenerateLeg,
				fmt.Sprintf("leg %d has non-positive distance %.3f nm", i, dist), nil)
		}
		bearing, err := physics.Heading(a, b)
		if err != nil {
			return nil, err
		}
		legs[i] = types.Leg{Index: i, DistanceNm: dist, BearingDeg: bearing}
	}

	return &Route{Nodes: ordered, Legs: legs}, nil
}

// TotalNm returns the full route distance.
func (r *Route) TotalNm() float64 {
	return r.Nodes[len(r.Nodes)-1].CumulativeNm
}

// RemainingNm returns the distance from the start of leg firstLeg to the
// destination.
func (r *Route) RemainingNm(firstLeg int) float64 {
	if firstLeg >= len(r.Legs) {
		return 0
	}
	return r.TotalNm() - r.Nodes[firstLeg].CumulativeNm
}

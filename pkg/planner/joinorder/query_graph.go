// Copyright 2026 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package joinorder

import (
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// filterInfo describes one extracted filter expression. set covers every
// relation the filter references (nil when it references none). For binary
// comparisons with bindings on both operands, leftSet and rightSet cover
// the left and right operand respectively.
type filterInfo struct {
	filterIndex int
	set         *RelationSet
	leftSet     *RelationSet
	rightSet    *RelationSet
}

// neighborInfo is the answer of a connectivity query: the target set and
// every filter usable as a join predicate between the queried pair. An
// empty filter list marks a pure cross-product connection.
type neighborInfo struct {
	neighbor *RelationSet
	filters  []*filterInfo
}

type edgeInfo struct {
	to      *RelationSet
	filters []*filterInfo
}

// queryGraph indexes directed hyperedges between interned RelationSets.
// Callers always create both orientations of an edge, so neighbor lookups
// only need to follow the stored direction.
type queryGraph struct {
	edges map[*RelationSet][]*edgeInfo
}

func newQueryGraph() queryGraph {
	return queryGraph{edges: make(map[*RelationSet][]*edgeInfo)}
}

// CreateEdge adds a directed hyperedge from one set to another. A nil info
// creates (or keeps) a cross-product edge.
func (g *queryGraph) CreateEdge(from, to *RelationSet, info *filterInfo) {
	for _, e := range g.edges[from] {
		if e.to == to {
			if info != nil {
				e.filters = append(e.filters, info)
			}
			return
		}
	}
	e := &edgeInfo{to: to}
	if info != nil {
		e.filters = append(e.filters, info)
	}
	g.edges[from] = append(g.edges[from], e)
}

// GetNeighbors returns, in ascending order, the smallest relation id of
// every edge target reachable from node whose target does not overlap the
// exclusion set. Returning only the minimum id of each target keeps the
// enumeration from visiting a csg-cmp pair twice; callers re-expand the id
// and re-check connectivity with GetConnection.
func (g *queryGraph) GetNeighbors(node *RelationSet, excl *bitset.BitSet) []int {
	seen := bitset.New(uint(len(node.relations)))
	for from, list := range g.edges {
		if !IsSubset(node, from) {
			continue
		}
		for _, e := range list {
			if overlapsExclusion(e.to, excl) {
				continue
			}
			seen.Set(uint(e.to.relations[0]))
		}
	}
	neighbors := make([]int, 0, seen.Count())
	for i, ok := seen.NextSet(0); ok; i, ok = seen.NextSet(i + 1) {
		neighbors = append(neighbors, int(i))
	}
	return neighbors
}

// GetConnection returns the filters of every edge leading from a subset of
// node to a subset of other, merged into one neighborInfo, or nil when no
// such edge exists. A non-nil result with no filters means the two sets are
// connected by a cross-product edge only.
func (g *queryGraph) GetConnection(node, other *RelationSet) *neighborInfo {
	var conn *neighborInfo
	var seen map[int]struct{}
	for from, list := range g.edges {
		if !IsSubset(node, from) {
			continue
		}
		for _, e := range list {
			if !IsSubset(other, e.to) {
				continue
			}
			if conn == nil {
				conn = &neighborInfo{neighbor: other}
				seen = make(map[int]struct{})
			}
			// the same filter can back several split edges, keep it once
			for _, f := range e.filters {
				if _, ok := seen[f.filterIndex]; ok {
					continue
				}
				seen[f.filterIndex] = struct{}{}
				conn.filters = append(conn.filters, f)
			}
		}
	}
	if conn != nil {
		slices.SortFunc(conn.filters, func(a, b *filterInfo) int {
			return a.filterIndex - b.filterIndex
		})
	}
	return conn
}

func overlapsExclusion(set *RelationSet, excl *bitset.BitSet) bool {
	for _, r := range set.relations {
		if excl.Test(uint(r)) {
			return true
		}
	}
	return false
}

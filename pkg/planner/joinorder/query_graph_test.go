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
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/require"
)

func TestQueryGraphNeighbors(t *testing.T) {
	var m SetManager
	g := newQueryGraph()

	r0, r1, r2 := m.GetRelation(0), m.GetRelation(1), m.GetRelation(2)
	f01 := &filterInfo{filterIndex: 0, leftSet: r0, rightSet: r1}
	f12 := &filterInfo{filterIndex: 1, leftSet: r1, rightSet: r2}
	g.CreateEdge(r0, r1, f01)
	g.CreateEdge(r1, r0, f01)
	g.CreateEdge(r1, r2, f12)
	g.CreateEdge(r2, r1, f12)

	require.Equal(t, []int{1}, g.GetNeighbors(r0, bitset.New(4)))
	require.Equal(t, []int{0, 2}, g.GetNeighbors(r1, bitset.New(4)))

	// excluded targets disappear
	excl := bitset.New(4)
	excl.Set(0)
	require.Equal(t, []int{2}, g.GetNeighbors(r1, excl))
	require.Empty(t, g.GetNeighbors(r0, bitsOf(1)))

	// neighbors of a composite set are found through any of its subsets
	s01 := m.Union(r0, r1)
	require.Equal(t, []int{2}, g.GetNeighbors(s01, bitsOf(0, 1)))
}

func TestQueryGraphNeighborIsMinOfTarget(t *testing.T) {
	var m SetManager
	g := newQueryGraph()

	// a hyperedge to a composite target reports the target's smallest id
	from := m.GetRelation(3)
	to := m.GetRelationSet(bitsOf(0, 1))
	f := &filterInfo{filterIndex: 0, leftSet: from, rightSet: to}
	g.CreateEdge(from, to, f)
	g.CreateEdge(to, from, f)

	require.Equal(t, []int{0}, g.GetNeighbors(from, bitset.New(4)))
	// a partial overlap with the exclusion set suppresses the whole target
	require.Empty(t, g.GetNeighbors(from, bitsOf(1)))
}

func TestQueryGraphConnection(t *testing.T) {
	var m SetManager
	g := newQueryGraph()

	r0, r1, r2 := m.GetRelation(0), m.GetRelation(1), m.GetRelation(2)
	f1 := &filterInfo{filterIndex: 0, leftSet: r0, rightSet: r1}
	f2 := &filterInfo{filterIndex: 1, leftSet: r0, rightSet: r1}
	g.CreateEdge(r0, r1, f1)
	g.CreateEdge(r1, r0, f1)
	g.CreateEdge(r0, r1, f2)
	g.CreateEdge(r1, r0, f2)

	// all predicates connecting the pair come back together
	conn := g.GetConnection(r0, r1)
	require.NotNil(t, conn)
	require.Len(t, conn.filters, 2)
	require.Equal(t, 0, conn.filters[0].filterIndex)
	require.Equal(t, 1, conn.filters[1].filterIndex)

	require.Nil(t, g.GetConnection(r0, r2))

	// composite supersets on both ends still connect
	s02 := m.Union(r0, r2)
	s1 := m.Union(r1, m.GetRelation(3))
	conn = g.GetConnection(s02, s1)
	require.NotNil(t, conn)
	require.Len(t, conn.filters, 2)
}

func TestQueryGraphCrossProductEdge(t *testing.T) {
	var m SetManager
	g := newQueryGraph()

	r0, r1 := m.GetRelation(0), m.GetRelation(1)
	g.CreateEdge(r0, r1, nil)

	conn := g.GetConnection(r0, r1)
	require.NotNil(t, conn)
	require.Empty(t, conn.filters)
}

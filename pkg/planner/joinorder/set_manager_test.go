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

func bitsOf(ids ...uint) *bitset.BitSet {
	bs := bitset.New(8)
	for _, id := range ids {
		bs.Set(id)
	}
	return bs
}

func TestSetInterning(t *testing.T) {
	var m SetManager

	a := m.GetRelation(3)
	b := m.GetRelation(3)
	require.Same(t, a, b)
	require.Equal(t, 1, a.Count())

	// the same content always yields the same object, no matter how it was
	// built
	s1 := m.GetRelationSet(bitsOf(0, 2, 5))
	s2 := m.Union(m.Union(m.GetRelation(5), m.GetRelation(0)), m.GetRelation(2))
	require.Same(t, s1, s2)

	// union is commutative down to the pointer
	left := m.GetRelationSet(bitsOf(1, 4))
	right := m.GetRelationSet(bitsOf(2, 3))
	require.Same(t, m.Union(left, right), m.Union(right, left))

	require.Equal(t, []int{0, 2, 5}, s1.Relations())
	require.Equal(t, "[0, 2, 5]", s1.String())
}

func TestSetDifference(t *testing.T) {
	var m SetManager

	big := m.GetRelationSet(bitsOf(0, 1, 2, 3))
	small := m.GetRelationSet(bitsOf(1, 3))
	diff := m.Difference(big, small)
	require.Equal(t, []int{0, 2}, diff.Relations())
	require.Same(t, diff, m.GetRelationSet(bitsOf(0, 2)))

	// removing a superset leaves nothing
	require.Nil(t, m.Difference(small, big))
	require.Nil(t, m.Difference(small, small))

	disjoint := m.GetRelationSet(bitsOf(4, 5))
	require.Same(t, big, m.Difference(big, disjoint))
}

func TestSetIsSubset(t *testing.T) {
	var m SetManager

	big := m.GetRelationSet(bitsOf(0, 1, 2, 4))
	require.True(t, IsSubset(big, big))
	require.True(t, IsSubset(big, m.GetRelationSet(bitsOf(1, 4))))
	require.True(t, IsSubset(big, m.GetRelation(0)))
	require.False(t, IsSubset(big, m.GetRelation(3)))
	require.False(t, IsSubset(big, m.GetRelationSet(bitsOf(1, 3))))
	require.False(t, IsSubset(m.GetRelation(1), big))
}

func TestEmptyBitSetHasNoRelationSet(t *testing.T) {
	var m SetManager
	require.Nil(t, m.GetRelationSet(bitset.New(4)))
}

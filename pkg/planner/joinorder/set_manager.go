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
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// RelationSet is an immutable sorted set of relation ids. Sets are interned
// by the SetManager, so two sets with equal content are always the same
// object and set equality is pointer equality.
type RelationSet struct {
	relations []int
}

// Count returns the number of relations in the set.
func (s *RelationSet) Count() int { return len(s.relations) }

// Relations returns the sorted relation ids. The slice is owned by the set
// and must not be mutated.
func (s *RelationSet) Relations() []int { return s.relations }

func (s *RelationSet) String() string {
	parts := make([]string, len(s.relations))
	for i, r := range s.relations {
		parts[i] = fmt.Sprintf("%d", r)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// IsSubset reports whether sub is contained in super. Both sets must come
// from the same SetManager.
func IsSubset(super, sub *RelationSet) bool {
	if super == sub {
		return true
	}
	if len(sub.relations) > len(super.relations) {
		return false
	}
	j := 0
	for i := 0; i < len(super.relations) && j < len(sub.relations); i++ {
		if super.relations[i] == sub.relations[j] {
			j++
		}
	}
	return j == len(sub.relations)
}

type setTrieNode struct {
	set      *RelationSet
	children map[int]*setTrieNode
}

// SetManager interns every RelationSet constructed during one optimizer
// invocation. The zero value is ready to use.
type SetManager struct {
	root setTrieNode
}

// getOrCreate returns the interned set for the given sorted id slice,
// taking ownership of the slice when it creates a new set.
func (m *SetManager) getOrCreate(relations []int) *RelationSet {
	node := &m.root
	for _, r := range relations {
		if node.children == nil {
			node.children = make(map[int]*setTrieNode)
		}
		child, ok := node.children[r]
		if !ok {
			child = &setTrieNode{}
			node.children[r] = child
		}
		node = child
	}
	if node.set == nil {
		node.set = &RelationSet{relations: relations}
	}
	return node.set
}

// GetRelation returns the interned singleton set {id}.
func (m *SetManager) GetRelation(id int) *RelationSet {
	return m.getOrCreate([]int{id})
}

// GetRelationSet returns the interned set holding every id set in bs, or
// nil when bs is empty.
func (m *SetManager) GetRelationSet(bs *bitset.BitSet) *RelationSet {
	if bs.None() {
		return nil
	}
	relations := make([]int, 0, bs.Count())
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		relations = append(relations, int(i))
	}
	return m.getOrCreate(relations)
}

// Union returns the interned union of left and right.
func (m *SetManager) Union(left, right *RelationSet) *RelationSet {
	relations := make([]int, 0, len(left.relations)+len(right.relations))
	i, j := 0, 0
	for i < len(left.relations) && j < len(right.relations) {
		switch {
		case left.relations[i] < right.relations[j]:
			relations = append(relations, left.relations[i])
			i++
		case left.relations[i] > right.relations[j]:
			relations = append(relations, right.relations[j])
			j++
		default:
			relations = append(relations, left.relations[i])
			i++
			j++
		}
	}
	relations = append(relations, left.relations[i:]...)
	relations = append(relations, right.relations[j:]...)
	return m.getOrCreate(relations)
}

// Difference returns the interned set of relations in left but not in
// right, or nil when the difference is empty.
func (m *SetManager) Difference(left, right *RelationSet) *RelationSet {
	relations := make([]int, 0, len(left.relations))
	j := 0
	for _, r := range left.relations {
		for j < len(right.relations) && right.relations[j] < r {
			j++
		}
		if j < len(right.relations) && right.relations[j] == r {
			continue
		}
		relations = append(relations, r)
	}
	if len(relations) == 0 {
		return nil
	}
	return m.getOrCreate(relations)
}

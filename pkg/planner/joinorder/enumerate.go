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

// joinNode is one memo entry: either a leaf covering a single relation or a
// join of two smaller entries. left and right borrow entries owned by the
// memo, which outlive the enumeration. A leaf has cost 0.
type joinNode struct {
	set         *RelationSet
	info        *neighborInfo
	left, right *joinNode
	cardinality float64
	cost        float64
}

// createJoinTree combines two plans. The smaller side becomes the right
// (build) side; that swap is a pure heuristic, not a semantic requirement.
// A join backed by at least one predicate is costed as a foreign-key join:
// its cardinality is the max of the inputs. This badly underestimates
// many-to-many joins and is kept deliberately.
func createJoinTree(set *RelationSet, info *neighborInfo, left, right *joinNode) *joinNode {
	if left.cardinality < right.cardinality {
		left, right = right, left
	}
	var expectedCardinality float64
	if len(info.filters) == 0 {
		// cross product
		expectedCardinality = left.cardinality * right.cardinality
	} else {
		expectedCardinality = max(left.cardinality, right.cardinality)
	}
	return &joinNode{
		set:         set,
		info:        info,
		left:        left,
		right:       right,
		cardinality: expectedCardinality,
		cost:        expectedCardinality + left.cost + right.cost,
	}
}

// emitPair joins the plans of two disjoint sets and installs the result in
// the memo when it beats the best plan known for the combined set. Ties
// keep the earlier plan.
func (o *Optimizer) emitPair(left, right *RelationSet, info *neighborInfo) *joinNode {
	leftPlan := o.plans[left]
	rightPlan := o.plans[right]
	newSet := o.setManager.Union(left, right)
	newPlan := createJoinTree(newSet, info, leftPlan, rightPlan)
	if entry, ok := o.plans[newSet]; !ok || newPlan.cost < entry.cost {
		o.plans[newSet] = newPlan
		return newPlan
	}
	return o.plans[newSet]
}

// tryEmitPair is emitPair guarded by the pair budget. Once the budget is
// exhausted it keeps returning false, which unwinds the enumeration and
// hands the search over to the greedy fallback.
func (o *Optimizer) tryEmitPair(left, right *RelationSet, info *neighborInfo) bool {
	o.pairs++
	if o.pairs >= o.pairBudget {
		return false
	}
	o.emitPair(left, right, info)
	return true
}

func (o *Optimizer) solveJoinOrder() {
	if !o.solveJoinOrderExactly() {
		o.solveJoinOrderApproximately()
	}
}

// solveJoinOrderExactly enumerates every csg-cmp pair of the query graph
// exactly once, seeding the enumeration with each relation in descending id
// order. It returns false when the pair budget ran out.
func (o *Optimizer) solveJoinOrderExactly() bool {
	for i := len(o.relations) - 1; i >= 0; i-- {
		startNode := o.setManager.GetRelation(i)
		if !o.emitCSG(startNode) {
			return false
		}
		// every relation with a smaller id gets its turn as a start node
		// later, exclude them all from this round
		exclusionSet := bitset.New(uint(len(o.relations)))
		for j := range i {
			exclusionSet.Set(uint(j))
		}
		if !o.enumerateCSGRecursive(startNode, exclusionSet) {
			return false
		}
	}
	return true
}

// emitCSG emits all complement subgraphs reachable from the connected
// subgraph node.
func (o *Optimizer) emitCSG(node *RelationSet) bool {
	// exclude everything below the smallest member and the members
	// themselves
	exclusionSet := bitset.New(uint(len(o.relations)))
	for i := range node.relations[0] {
		exclusionSet.Set(uint(i))
	}
	updateExclusionSet(node, exclusionSet)

	neighbors := o.queryGraph.GetNeighbors(node, exclusionSet)
	for _, neighbor := range neighbors {
		neighborRelation := o.setManager.GetRelation(neighbor)
		// GetNeighbors only returns the smallest member of each target, the
		// pair may not actually be connected; re-check before emitting
		if connection := o.queryGraph.GetConnection(node, neighborRelation); connection != nil {
			if !o.tryEmitPair(node, neighborRelation, connection) {
				return false
			}
		}
		if !o.enumerateCmpRecursive(node, neighborRelation, exclusionSet) {
			return false
		}
		// complements holding this neighbor were all found above
		exclusionSet.Set(uint(neighbor))
	}
	return true
}

// enumerateCmpRecursive grows the complement subgraph right by one neighbor
// at a time, emitting every grown complement that already has a plan.
func (o *Optimizer) enumerateCmpRecursive(left, right *RelationSet, exclusionSet *bitset.BitSet) bool {
	neighbors := o.queryGraph.GetNeighbors(right, exclusionSet)
	// an edge leading back into right reports a member of right, which does
	// not grow it
	neighbors = slices.DeleteFunc(neighbors, func(n int) bool { return slices.Contains(right.relations, n) })
	if len(neighbors) == 0 {
		return true
	}
	unionSets := make([]*RelationSet, len(neighbors))
	for i, neighbor := range neighbors {
		neighborRelation := o.setManager.GetRelation(neighbor)
		combinedSet := o.setManager.Union(right, neighborRelation)
		if _, ok := o.plans[combinedSet]; ok {
			if connection := o.queryGraph.GetConnection(left, combinedSet); connection != nil {
				if !o.tryEmitPair(left, combinedSet, connection) {
					return false
				}
			}
		}
		unionSets[i] = combinedSet
	}
	// each neighbor stays excluded for the ones after it, so every grown set
	// is reached along one path only
	newExclusionSet := exclusionSet.Clone()
	for i, neighbor := range neighbors {
		newExclusionSet.Set(uint(neighbor))
		if !o.enumerateCmpRecursive(left, unionSets[i], newExclusionSet) {
			return false
		}
	}
	return true
}

// enumerateCSGRecursive grows the connected subgraph node by one neighbor
// at a time, recursing into emitCSG for every grown subgraph that already
// has a plan.
func (o *Optimizer) enumerateCSGRecursive(node *RelationSet, exclusionSet *bitset.BitSet) bool {
	neighbors := o.queryGraph.GetNeighbors(node, exclusionSet)
	neighbors = slices.DeleteFunc(neighbors, func(n int) bool { return slices.Contains(node.relations, n) })
	if len(neighbors) == 0 {
		return true
	}
	unionSets := make([]*RelationSet, len(neighbors))
	for i, neighbor := range neighbors {
		neighborRelation := o.setManager.GetRelation(neighbor)
		newSet := o.setManager.Union(node, neighborRelation)
		if _, ok := o.plans[newSet]; ok {
			if !o.emitCSG(newSet) {
				return false
			}
		}
		unionSets[i] = newSet
	}
	newExclusionSet := exclusionSet.Clone()
	for i, neighbor := range neighbors {
		newExclusionSet.Set(uint(neighbor))
		if !o.enumerateCSGRecursive(unionSets[i], newExclusionSet) {
			return false
		}
	}
	return true
}

func updateExclusionSet(node *RelationSet, exclusionSet *bitset.BitSet) {
	for _, r := range node.relations {
		exclusionSet.Set(uint(r))
	}
}

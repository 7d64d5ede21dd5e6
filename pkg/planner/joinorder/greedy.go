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
	"github.com/pingcap/quill/pkg/util/logutil"
	"go.uber.org/zap"
)

// solveJoinOrderApproximately runs Greedy Operator Ordering: repeatedly
// join the connectable pair of fragments with the cheapest resulting plan
// until one fragment covers all relations. Every pairing still goes through
// emitPair, so the memo keeps its best-so-far semantics; the greedy path
// just never explores all subsets. O(r^3) over r relations.
func (o *Optimizer) solveJoinOrderApproximately() {
	logutil.BgLogger().Warn("join order enumeration gave up, falling back to greedy ordering",
		zap.Int("relations", len(o.relations)),
		zap.Int("pairBudget", o.pairBudget),
		zap.Int("pairs", o.pairs))

	unjoined := make([]*RelationSet, 0, len(o.relations))
	for i := range o.relations {
		unjoined = append(unjoined, o.setManager.GetRelation(i))
	}
	for len(unjoined) > 1 {
		var bestConnection *joinNode
		var bestLeft, bestRight int
		for i := range unjoined {
			for j := i + 1; j < len(unjoined); j++ {
				connection := o.queryGraph.GetConnection(unjoined[i], unjoined[j])
				if connection == nil {
					continue
				}
				node := o.emitPair(unjoined[i], unjoined[j], connection)
				if bestConnection == nil || node.cost < bestConnection.cost {
					bestConnection = node
					bestLeft, bestRight = i, j
				}
			}
		}
		if bestConnection == nil {
			// no two fragments are connected anymore, forcibly connect the
			// two smallest ones with a cross-product edge
			bestLeft, bestRight = o.smallestFragments(unjoined)
			left, right := unjoined[bestLeft], unjoined[bestRight]
			o.queryGraph.CreateEdge(left, right, nil)
			o.queryGraph.CreateEdge(right, left, nil)
			connection := o.queryGraph.GetConnection(left, right)
			bestConnection = o.emitPair(left, right, connection)
		}
		// erase the larger index first, the smaller one stays valid
		unjoined = append(unjoined[:bestRight], unjoined[bestRight+1:]...)
		unjoined = append(unjoined[:bestLeft], unjoined[bestLeft+1:]...)
		unjoined = append(unjoined, bestConnection.set)
	}
}

// smallestFragments returns the indexes of the two fragments with the
// smallest cardinalities, the smaller index first.
func (o *Optimizer) smallestFragments(unjoined []*RelationSet) (int, int) {
	first, second := -1, -1
	for i, set := range unjoined {
		cardinality := o.plans[set].cardinality
		switch {
		case first == -1 || cardinality < o.plans[unjoined[first]].cardinality:
			first, second = i, first
		case second == -1 || cardinality < o.plans[unjoined[second]].cardinality:
			second = i
		}
	}
	if first > second {
		first, second = second, first
	}
	return first, second
}

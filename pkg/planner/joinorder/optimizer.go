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

// Package joinorder reorders a contiguous region of inner joins and cross
// products to minimize a cardinality-based cost. The enumeration is a
// straight implementation of the paper "Dynamic Programming Strikes Back"
// by Guido Moerkotte and Thomas Neumann; when the search space gets too
// large it falls back to Greedy Operator Ordering.
package joinorder

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/pingcap/errors"
	"github.com/pingcap/quill/pkg/config"
	"github.com/pingcap/quill/pkg/expression"
	"github.com/pingcap/quill/pkg/planner/base"
	"github.com/pingcap/quill/pkg/planner/logicalop"
	"github.com/pingcap/quill/pkg/util/logutil"
	"go.uber.org/zap"
)

// relation is one leaf of the reorderable region: a table scan, a table
// function, or an opaque already-optimized sub-plan. op points at the top
// of the single-child chain producing the relation, parent at the operator
// owning op; the parent pointer only lives for the duration of one rewrite.
type relation struct {
	op     base.LogicalPlan
	parent base.LogicalPlan
}

// Optimizer reorders one join region of one plan. It is single shot: use a
// fresh instance per plan, nested sub-plans get fresh instances of their
// own. All state lives for one Optimize call and is discarded afterwards.
type Optimizer struct {
	setManager SetManager
	queryGraph queryGraph
	relations  []*relation
	// relationMapping maps every base table index in the region to the id
	// of the relation producing it. An opaque sub-plan maps all the table
	// indexes it contains to one relation id.
	relationMapping map[int]int
	filters         []expression.Expression
	filterInfos     []*filterInfo
	plans           map[*RelationSet]*joinNode
	pairs           int
	pairBudget      int
}

// NewOptimizer creates an optimizer with the pair budget taken from the
// global configuration.
func NewOptimizer() *Optimizer {
	return NewOptimizerWithBudget(config.GetGlobalConfig().Performance.JoinReorderPairBudget)
}

// NewOptimizerWithBudget creates an optimizer with an explicit pair budget.
// A non-positive budget makes every plan take the greedy path, which tests
// use to exercise the fallback deterministically.
func NewOptimizerWithBudget(pairBudget int) *Optimizer {
	return &Optimizer{
		queryGraph:      newQueryGraph(),
		relationMapping: make(map[int]int),
		plans:           make(map[*RelationSet]*joinNode),
		pairBudget:      pairBudget,
	}
}

func (o *Optimizer) newNestedOptimizer() *Optimizer {
	return NewOptimizerWithBudget(o.pairBudget)
}

// Optimize returns plan with its reorderable join region replaced by the
// cheapest join tree found, residual filters pushed down, and any raw join
// predicates left on joins normalized into join conditions. Plans that
// contain no reorderable region are returned unchanged apart from the
// normalization pass. The only errors returned are broken invariants.
func (o *Optimizer) Optimize(plan base.LogicalPlan) (base.LogicalPlan, error) {
	if len(o.relations) > 0 || len(o.filters) > 0 {
		return nil, errors.New("the join order optimizer is single shot, create a fresh instance per plan")
	}
	if config.GetGlobalConfig().Performance.DisableJoinReorder {
		return resolveJoinConditions(plan), nil
	}

	var filterOperators []base.LogicalPlan
	reorderable, err := o.extractJoinRelations(plan, &filterOperators, nil)
	if err != nil {
		return nil, err
	}
	if !reorderable || len(o.relations) <= 1 {
		// nothing to reorder
		return resolveJoinConditions(plan), nil
	}

	o.extractFilters(filterOperators)
	o.buildQueryGraph()

	// seed the memo with the single-relation plans
	for i, rel := range o.relations {
		node := o.setManager.GetRelation(i)
		o.plans[node] = &joinNode{set: node, cardinality: rel.op.EstimateRowCount()}
	}
	o.solveJoinOrder()

	all := bitset.New(uint(len(o.relations)))
	for i := range o.relations {
		all.Set(uint(i))
	}
	totalRelation := o.setManager.GetRelationSet(all)
	finalPlan, ok := o.plans[totalRelation]
	if !ok {
		// the query graph is disconnected, force full connectivity through
		// cross-product edges and solve once more
		logutil.BgLogger().Warn("join order search left disjoint fragments, forcing cross products",
			zap.Int("relations", len(o.relations)))
		o.generateCrossProducts()
		o.solveJoinOrder()
		if finalPlan, ok = o.plans[totalRelation]; !ok {
			return nil, errors.New("no complete join plan found after forcing cross products")
		}
	}

	newPlan, err := o.rewritePlan(plan, finalPlan)
	if err != nil {
		return nil, err
	}
	return resolveJoinConditions(newPlan), nil
}

// extractJoinRelations classifies every operator of the region rooted at
// inputOp. It returns false when the region is not reorderable; children
// behind a non-reorderable boundary are optimized by fresh optimizer
// instances along the way.
func (o *Optimizer) extractJoinRelations(inputOp base.LogicalPlan, filterOperators *[]base.LogicalPlan, parent base.LogicalPlan) (bool, error) {
	op := inputOp
	// walk down the single-child chain collecting the filters on the way
	for len(op.Children()) == 1 {
		if _, ok := op.(*logicalop.LogicalSubquery); ok {
			break
		}
		if _, ok := op.(*logicalop.LogicalSelection); ok {
			*filterOperators = append(*filterOperators, op)
		}
		if _, ok := op.(*logicalop.LogicalAggregation); ok {
			// filters never move through an aggregate; the child region is
			// a world of its own
			newChild, err := o.newNestedOptimizer().Optimize(op.Children()[0])
			if err != nil {
				return false, err
			}
			op.SetChild(0, newChild)
			return false, nil
		}
		op = op.Children()[0]
	}

	switch x := op.(type) {
	case *logicalop.LogicalSetOp:
		for i, child := range x.Children() {
			newChild, err := o.newNestedOptimizer().Optimize(child)
			if err != nil {
				return false, err
			}
			x.SetChild(i, newChild)
		}
		return false, nil
	case *logicalop.LogicalJoin:
		if x.JoinType != base.InnerJoin || x.StraightJoin {
			// the join itself cannot be reordered across, but both its
			// children may hold reorderable regions of their own; the whole
			// subtree then becomes one opaque relation
			for i, child := range x.Children() {
				newChild, err := o.newNestedOptimizer().Optimize(child)
				if err != nil {
					return false, err
				}
				x.SetChild(i, newChild)
			}
			bindings := bitset.New(8)
			collectTableReferences(op, bindings)
			o.addRelation(inputOp, parent, bindings)
			return true, nil
		}
		*filterOperators = append(*filterOperators, op)
		ok, err := o.extractJoinRelations(x.Children()[0], filterOperators, op)
		if err != nil || !ok {
			return ok, err
		}
		return o.extractJoinRelations(x.Children()[1], filterOperators, op)
	case *logicalop.LogicalCrossProduct:
		ok, err := o.extractJoinRelations(x.Children()[0], filterOperators, op)
		if err != nil || !ok {
			return ok, err
		}
		return o.extractJoinRelations(x.Children()[1], filterOperators, op)
	case *logicalop.DataSource:
		o.addRelation(inputOp, parent, tableBitSet(x.TableIndex))
		return true, nil
	case *logicalop.LogicalTableFunction:
		o.addRelation(inputOp, parent, tableBitSet(x.TableIndex))
		return true, nil
	case *logicalop.LogicalSubquery:
		newChild, err := o.newNestedOptimizer().Optimize(x.Children()[0])
		if err != nil {
			return false, err
		}
		x.SetChild(0, newChild)
		o.addRelation(inputOp, parent, tableBitSet(x.TableIndex))
		return true, nil
	}
	return false, nil
}

func tableBitSet(tableIndex int) *bitset.BitSet {
	bs := bitset.New(uint(tableIndex) + 1)
	bs.Set(uint(tableIndex))
	return bs
}

// addRelation registers a new base relation and maps every table index it
// covers to the new relation id.
func (o *Optimizer) addRelation(op, parent base.LogicalPlan, tableIndexes *bitset.BitSet) {
	id := len(o.relations)
	for i, ok := tableIndexes.NextSet(0); ok; i, ok = tableIndexes.NextSet(i + 1) {
		o.relationMapping[int(i)] = id
	}
	o.relations = append(o.relations, &relation{op: op, parent: parent})
}

// collectTableReferences collects every base table index bound below op.
func collectTableReferences(op base.LogicalPlan, bindings *bitset.BitSet) {
	switch x := op.(type) {
	case *logicalop.DataSource:
		bindings.Set(uint(x.TableIndex))
	case *logicalop.LogicalTableFunction:
		bindings.Set(uint(x.TableIndex))
	case *logicalop.LogicalSubquery:
		bindings.Set(uint(x.TableIndex))
	default:
		for _, child := range op.Children() {
			collectTableReferences(child, bindings)
		}
	}
}

// extractFilters moves every raw expression out of the collected filter and
// join operators into the global filter list. Join conditions normalized by
// an earlier optimizer run are moved back into plain comparisons, which
// keeps a second run over an already-ordered region lossless.
func (o *Optimizer) extractFilters(filterOperators []base.LogicalPlan) {
	for _, op := range filterOperators {
		o.filters = append(o.filters, op.Expressions()...)
		op.SetExpressions(nil)
		if join, ok := op.(*logicalop.LogicalJoin); ok {
			for _, cond := range join.Conditions {
				o.filters = append(o.filters, expression.NewComparison(cond.Op, cond.Left, cond.Right))
			}
			join.Conditions = nil
		}
	}
}

// extractBindings collects the relation ids referenced by expr into
// bindings. A correlated column reference, an execution-time reference, a
// correlated subquery or an unknown table index poisons the expression: the
// bindings are cleared and false is returned, demoting the filter to a
// residual.
func (o *Optimizer) extractBindings(expr expression.Expression, bindings *bitset.BitSet) bool {
	switch x := expr.(type) {
	case *expression.Column:
		if x.Depth > 0 {
			bindings.ClearAll()
			return false
		}
		relationID, ok := o.relationMapping[x.TableIndex]
		if !ok {
			bindings.ClearAll()
			return false
		}
		bindings.Set(uint(relationID))
	case *expression.ExecRef:
		bindings.ClearAll()
		return false
	case *expression.Subquery:
		if x.Correlated {
			bindings.ClearAll()
			return false
		}
	}
	for _, child := range expr.Children() {
		if !o.extractBindings(child, bindings) {
			return false
		}
	}
	return true
}

// buildQueryGraph derives a filterInfo for every extracted filter and adds
// hyperedges for the ones usable as join predicates.
func (o *Optimizer) buildQueryGraph() {
	n := uint(len(o.relations))
	for i, filter := range o.filters {
		info := &filterInfo{filterIndex: i}
		o.filterInfos = append(o.filterInfos, info)

		bindings := bitset.New(n)
		o.extractBindings(filter, bindings)
		info.set = o.setManager.GetRelationSet(bindings)

		cmp, ok := filter.(*expression.Comparison)
		if !ok {
			continue
		}
		leftBindings, rightBindings := bitset.New(n), bitset.New(n)
		o.extractBindings(cmp.Left, leftBindings)
		o.extractBindings(cmp.Right, rightBindings)
		if leftBindings.None() || rightBindings.None() {
			continue
		}
		info.leftSet = o.setManager.GetRelationSet(leftBindings)
		info.rightSet = o.setManager.GetRelationSet(rightBindings)
		if info.leftSet == info.rightSet {
			// both operands cover the same relations, nothing to order by
			continue
		}
		if leftBindings.IntersectionCardinality(rightBindings) == 0 {
			o.queryGraph.CreateEdge(info.leftSet, info.rightSet, info)
			o.queryGraph.CreateEdge(info.rightSet, info.leftSet, info)
			continue
		}
		// the operand sets overlap, connect each operand to the part of the
		// other operand it does not already cover; an empty difference adds
		// no edge and the predicate stays a pure residual
		leftDifference := o.setManager.Difference(info.leftSet, info.rightSet)
		rightDifference := o.setManager.Difference(info.rightSet, info.leftSet)
		if rightDifference != nil {
			o.queryGraph.CreateEdge(info.leftSet, rightDifference, info)
			o.queryGraph.CreateEdge(rightDifference, info.leftSet, info)
		}
		if leftDifference != nil {
			o.queryGraph.CreateEdge(leftDifference, info.rightSet, info)
			o.queryGraph.CreateEdge(info.rightSet, leftDifference, info)
		}
	}
}

// generateCrossProducts connects every pair of relations with an edge so a
// disconnected query graph still yields one complete plan.
func (o *Optimizer) generateCrossProducts() {
	for i := range o.relations {
		left := o.setManager.GetRelation(i)
		for j := range o.relations {
			if i != j {
				right := o.setManager.GetRelation(j)
				o.queryGraph.CreateEdge(left, right, nil)
				o.queryGraph.CreateEdge(right, left, nil)
			}
		}
	}
}

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
	"github.com/bits-and-blooms/bitset"
	"github.com/pingcap/quill/pkg/expression"
	"github.com/pingcap/quill/pkg/planner/base"
	"github.com/pingcap/quill/pkg/planner/logicalop"
)

// joinSide describes which children of a join an expression references.
type joinSide int

const (
	sideNone joinSide = iota
	sideLeft
	sideRight
	sideBoth
)

func combineJoinSide(left, right joinSide) joinSide {
	if left == sideNone {
		return right
	}
	if right == sideNone {
		return left
	}
	if left != right {
		return sideBoth
	}
	return left
}

// getJoinSide computes the side of expr relative to a join's left and right
// table bindings. Correlated references and subqueries cannot be split
// across a join and count as both sides.
func getJoinSide(expr expression.Expression, leftBindings, rightBindings *bitset.BitSet) joinSide {
	switch x := expr.(type) {
	case *expression.Column:
		if x.Depth > 0 {
			return sideBoth
		}
		if leftBindings.Test(uint(x.TableIndex)) {
			return sideLeft
		}
		if rightBindings.Test(uint(x.TableIndex)) {
			return sideRight
		}
		return sideNone
	case *expression.ExecRef:
		return sideNone
	case *expression.Subquery:
		return sideBoth
	}
	side := sideNone
	for _, child := range expr.Children() {
		side = combineJoinSide(side, getJoinSide(child, leftBindings, rightBindings))
	}
	return side
}

// resolveJoinConditions runs bottom-up over the plan and turns every raw
// predicate still sitting on a join into a proper join condition, a filter
// under the side it references, or a filter above the join.
func resolveJoinConditions(op base.LogicalPlan) base.LogicalPlan {
	for i, child := range op.Children() {
		op.SetChild(i, resolveJoinConditions(child))
	}
	join, ok := op.(*logicalop.LogicalJoin)
	if !ok || len(join.Expressions()) == 0 {
		return op
	}
	leftBindings, rightBindings := bitset.New(8), bitset.New(8)
	collectTableReferences(join.Children()[0], leftBindings)
	collectTableReferences(join.Children()[1], rightBindings)
	result := op
	for _, expr := range join.Expressions() {
		result = createJoinCondition(result, join, expr, leftBindings, rightBindings)
	}
	join.SetExpressions(nil)
	return result
}

// createJoinCondition places one raw predicate of a join. result is the
// current root of the subtree holding the join; a predicate that cannot be
// pushed or split grows a selection on top of it and the new root is
// returned.
func createJoinCondition(result base.LogicalPlan, join *logicalop.LogicalJoin, expr expression.Expression, leftBindings, rightBindings *bitset.BitSet) base.LogicalPlan {
	totalSide := getJoinSide(expr, leftBindings, rightBindings)
	if totalSide != sideBoth {
		// the predicate touches one side only, it belongs under that child
		pushSide := 1
		if totalSide == sideLeft {
			pushSide = 0
		}
		join.SetChild(pushSide, pushFilter(join.Children()[pushSide], expr))
		return result
	}
	switch x := expr.(type) {
	case *expression.Comparison:
		leftSide := getJoinSide(x.Left, leftBindings, rightBindings)
		rightSide := getJoinSide(x.Right, leftBindings, rightBindings)
		if leftSide != sideBoth && rightSide != sideBoth {
			// the comparison splits into a left and a right operand
			cond := &logicalop.JoinCondition{Op: x.Op, Left: x.Left, Right: x.Right}
			if leftSide == sideRight {
				cond.Left, cond.Right = cond.Right, cond.Left
				cond.Op = cond.Op.Flip()
			}
			join.AddCondition(cond)
			return result
		}
	case *expression.Not:
		// ON NOT (x = 3) is the same as ON (x <> 3); unwrapping the NOT
		// keeps the predicate usable as a join condition
		if cmp, ok := x.Child.(*expression.Comparison); ok && cmp.Op.Negatable() {
			cmp.Op = cmp.Op.Negate()
			return createJoinCondition(result, join, cmp, leftBindings, rightBindings)
		}
	}
	// references both sides but is not splittable, keep it above the join
	return pushFilter(result, expr)
}

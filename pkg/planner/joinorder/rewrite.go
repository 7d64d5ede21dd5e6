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
	"github.com/pingcap/errors"
	"github.com/pingcap/quill/pkg/expression"
	"github.com/pingcap/quill/pkg/planner/base"
	"github.com/pingcap/quill/pkg/planner/logicalop"
)

// extractRelation detaches the relation's sub-plan from its parent,
// transferring ownership to the caller. Any siblings keep their order.
func extractRelation(rel *relation) (base.LogicalPlan, error) {
	if rel.parent == nil {
		return nil, errors.New("cannot detach a relation that has no parent operator")
	}
	children := rel.parent.Children()
	for i, child := range children {
		if child == rel.op {
			rel.parent.SetChildren(append(children[:i], children[i+1:]...)...)
			return rel.op, nil
		}
	}
	return nil, errors.Errorf("could not find the relation in its parent operator %s", rel.parent.TP())
}

// pushFilter pushes an expression into a selection on top of node, reusing
// node itself when it already is a selection.
func pushFilter(node base.LogicalPlan, expr expression.Expression) base.LogicalPlan {
	if sel, ok := node.(*logicalop.LogicalSelection); ok {
		sel.AddExpression(expr)
		return sel
	}
	return logicalop.NewSelection(node, expr)
}

// rewritePlan replaces the reorderable region of plan with the join tree
// described by node, pushes all residual filters and restitches the new
// region into the surrounding plan.
func (o *Optimizer) rewritePlan(plan base.LogicalPlan, node *joinNode) (base.LogicalPlan, error) {
	rootIsJoin := len(plan.Children()) > 1

	// pull every base relation out of the old region
	extractedRelations := make([]base.LogicalPlan, len(o.relations))
	for i, rel := range o.relations {
		op, err := extractRelation(rel)
		if err != nil {
			return nil, err
		}
		extractedRelations[i] = op
	}

	_, joinTree, err := o.generateJoins(extractedRelations, node)
	if err != nil {
		return nil, err
	}

	// final pushdown: whatever was not placed during generateJoins ends up
	// in a selection on top of the new region
	for i, filter := range o.filters {
		if filter != nil {
			joinTree = pushFilter(joinTree, filter)
			o.filters[i] = nil
		}
	}

	if rootIsJoin {
		return joinTree, nil
	}
	// walk the single-child chain down to the old region's topmost join or
	// cross product and put the new region in its place
	parent := plan
	op := plan
	for {
		if _, ok := op.(*logicalop.LogicalJoin); ok {
			break
		}
		if _, ok := op.(*logicalop.LogicalCrossProduct); ok {
			break
		}
		if len(op.Children()) != 1 {
			return nil, errors.Errorf("expected a single-child chain above the join region, found %s", op.TP())
		}
		parent = op
		op = op.Children()[0]
	}
	parent.SetChild(0, joinTree)
	return plan, nil
}

// generateJoins builds the new operator tree for one memo node bottom-up
// and returns the relation set it covers together with the operator.
func (o *Optimizer) generateJoins(extractedRelations []base.LogicalPlan, node *joinNode) (*RelationSet, base.LogicalPlan, error) {
	var resultRelation *RelationSet
	var resultOperator base.LogicalPlan
	if node.left != nil && node.right != nil {
		leftRelation, leftOperator, err := o.generateJoins(extractedRelations, node.left)
		if err != nil {
			return nil, nil, err
		}
		rightRelation, rightOperator, err := o.generateJoins(extractedRelations, node.right)
		if err != nil {
			return nil, nil, err
		}
		if len(node.info.filters) == 0 {
			resultOperator = logicalop.NewCrossProduct(leftOperator, rightOperator)
		} else {
			join := logicalop.NewJoin(base.InnerJoin, leftOperator, rightOperator)
			join.Reordered = true
			for _, f := range node.info.filters {
				if err := o.attachJoinCondition(join, f, leftRelation, rightRelation); err != nil {
					return nil, nil, err
				}
			}
			resultOperator = join
		}
		resultRelation = o.setManager.Union(leftRelation, rightRelation)
	} else {
		if node.set.Count() != 1 {
			return nil, nil, errors.Errorf("leaf join node covers %d relations instead of one", node.set.Count())
		}
		id := node.set.relations[0]
		if extractedRelations[id] == nil {
			return nil, nil, errors.Errorf("base relation %d was consumed twice", id)
		}
		resultRelation = node.set
		resultOperator = extractedRelations[id]
		extractedRelations[id] = nil
	}

	// push every remaining filter that this subtree fully covers, it can no
	// longer take part in a join higher up
	for _, info := range o.filterInfos {
		if o.filters[info.filterIndex] == nil {
			continue
		}
		// filters with no bindings are left for the final pushdown on top
		if info.set == nil || !IsSubset(resultRelation, info.set) {
			continue
		}
		filter := o.filters[info.filterIndex]
		o.filters[info.filterIndex] = nil
		resultOperator = pushResidual(resultOperator, filter)
	}
	return resultRelation, resultOperator, nil
}

// attachJoinCondition moves one join predicate out of the filter list and
// onto the join, orienting its operands to the join's children. A predicate
// whose operand sets line up with neither orientation (possible for
// overlapping-binding comparisons) is left in the filter list; the residual
// pushdown will hand it to the condition resolver instead.
func (o *Optimizer) attachJoinCondition(join *logicalop.LogicalJoin, f *filterInfo, leftRelation, rightRelation *RelationSet) error {
	filter := o.filters[f.filterIndex]
	if filter == nil {
		return errors.Errorf("join predicate %d was consumed twice", f.filterIndex)
	}
	cmp, ok := filter.(*expression.Comparison)
	if !ok {
		return errors.New("join predicate must be a comparison")
	}
	straight := IsSubset(leftRelation, f.leftSet) && IsSubset(rightRelation, f.rightSet)
	inverted := !straight && IsSubset(leftRelation, f.rightSet) && IsSubset(rightRelation, f.leftSet)
	if !straight && !inverted {
		return nil
	}
	o.filters[f.filterIndex] = nil
	cond := &logicalop.JoinCondition{Op: cmp.Op, Left: cmp.Left, Right: cmp.Right}
	if inverted {
		cond.Left, cond.Right = cond.Right, cond.Left
		cond.Op = cond.Op.Flip()
	}
	join.AddCondition(cond)
	return nil
}

// pushResidual places one residual filter relative to the operator built
// for a subtree. Comparisons land on a join when there is one, so the
// condition resolver can still turn them into join conditions; everything
// else becomes a plain selection.
func pushResidual(resultOperator base.LogicalPlan, filter expression.Expression) base.LogicalPlan {
	if _, ok := filter.(*expression.Comparison); !ok {
		return pushFilter(resultOperator, filter)
	}
	switch x := resultOperator.(type) {
	case *logicalop.LogicalJoin:
		x.AddExpression(filter)
		return x
	case *logicalop.LogicalSelection:
		if join, ok := x.Children()[0].(*logicalop.LogicalJoin); ok {
			join.AddExpression(filter)
			return x
		}
		x.AddExpression(filter)
		return x
	default:
		return pushFilter(resultOperator, filter)
	}
}

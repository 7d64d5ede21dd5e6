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

package logicalop

import (
	"github.com/pingcap/quill/pkg/expression"
	"github.com/pingcap/quill/pkg/planner/base"
)

// JoinCondition is an oriented comparison attached to a join. Left only
// references columns produced by the join's left child and Right only
// columns produced by the right child.
type JoinCondition struct {
	Op    expression.CmpOp
	Left  expression.Expression
	Right expression.Expression
}

func (c *JoinCondition) String() string {
	return c.Left.String() + " " + c.Op.String() + " " + c.Right.String()
}

// LogicalJoin is a binary join of any type. Normalized predicates live in
// Conditions; predicates that still need normalization sit in the raw
// expression list inherited from baseLogicalPlan.
type LogicalJoin struct {
	baseLogicalPlan

	JoinType base.JoinType
	// StraightJoin pins the join's children in their written order; the
	// join-order optimizer treats such a join as a single opaque relation.
	StraightJoin bool
	// Reordered is set on every join emitted by the join-order optimizer.
	// The optimizer itself does not read it; a second pass reorders such a
	// join like any other inner join.
	Reordered bool

	Conditions []*JoinCondition
}

// NewJoin creates a join of the given type over two children.
func NewJoin(joinType base.JoinType, left, right base.LogicalPlan) *LogicalJoin {
	join := &LogicalJoin{
		baseLogicalPlan: newBaseLogicalPlan("Join"),
		JoinType:        joinType,
	}
	join.SetChildren(left, right)
	return join
}

// AddCondition appends a normalized join condition.
func (j *LogicalJoin) AddCondition(cond *JoinCondition) {
	j.Conditions = append(j.Conditions, cond)
}

// EstimateRowCount implements base.LogicalPlan. Joins are assumed to be
// foreign-key joins, so the estimate is the max of the child estimates.
func (j *LogicalJoin) EstimateRowCount() float64 {
	var count float64
	for _, child := range j.children {
		count = max(count, child.EstimateRowCount())
	}
	return count
}

// LogicalCrossProduct is the cartesian product of its two children.
type LogicalCrossProduct struct {
	baseLogicalPlan
}

// NewCrossProduct creates a cross product over two children.
func NewCrossProduct(left, right base.LogicalPlan) *LogicalCrossProduct {
	cp := &LogicalCrossProduct{baseLogicalPlan: newBaseLogicalPlan("CrossProduct")}
	cp.SetChildren(left, right)
	return cp
}

// EstimateRowCount implements base.LogicalPlan.
func (cp *LogicalCrossProduct) EstimateRowCount() float64 {
	count := 1.0
	for _, child := range cp.children {
		count *= child.EstimateRowCount()
	}
	return count
}

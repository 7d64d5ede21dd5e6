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

// LogicalProjection projects its child onto a list of expressions.
type LogicalProjection struct {
	baseLogicalPlan

	Exprs []expression.Expression
}

// NewProjection creates a projection over child.
func NewProjection(child base.LogicalPlan, exprs ...expression.Expression) *LogicalProjection {
	proj := &LogicalProjection{baseLogicalPlan: newBaseLogicalPlan("Projection"), Exprs: exprs}
	proj.SetChildren(child)
	return proj
}

// EstimateRowCount implements base.LogicalPlan.
func (proj *LogicalProjection) EstimateRowCount() float64 {
	return proj.children[0].EstimateRowCount()
}

// LogicalAggregation is a hash aggregate with optional group-by items.
type LogicalAggregation struct {
	baseLogicalPlan

	GroupByItems []expression.Expression
	AggFuncs     []expression.Expression
}

// NewAggregation creates an aggregate over child.
func NewAggregation(child base.LogicalPlan, groupBy ...expression.Expression) *LogicalAggregation {
	agg := &LogicalAggregation{baseLogicalPlan: newBaseLogicalPlan("Aggregation"), GroupByItems: groupBy}
	agg.SetChildren(child)
	return agg
}

// EstimateRowCount implements base.LogicalPlan.
func (agg *LogicalAggregation) EstimateRowCount() float64 {
	if len(agg.GroupByItems) == 0 {
		return 1
	}
	return agg.children[0].EstimateRowCount()
}

// SetOpType is the kind of a LogicalSetOp.
type SetOpType int

const (
	// Union means UNION ALL of the children.
	Union SetOpType = iota
	// Intersect means INTERSECT of the children.
	Intersect
	// Except means EXCEPT of the children.
	Except
)

var setOpNames = []string{"Union", "Intersect", "Except"}

func (t SetOpType) String() string { return setOpNames[t] }

// LogicalSetOp is a union, intersect or except over its children.
type LogicalSetOp struct {
	baseLogicalPlan

	SetOpType SetOpType
}

// NewSetOp creates a set operation over children.
func NewSetOp(tp SetOpType, children ...base.LogicalPlan) *LogicalSetOp {
	setop := &LogicalSetOp{baseLogicalPlan: newBaseLogicalPlan(tp.String()), SetOpType: tp}
	setop.SetChildren(children...)
	return setop
}

// EstimateRowCount implements base.LogicalPlan.
func (s *LogicalSetOp) EstimateRowCount() float64 {
	switch s.SetOpType {
	case Intersect:
		count := s.children[0].EstimateRowCount()
		for _, child := range s.children[1:] {
			count = min(count, child.EstimateRowCount())
		}
		return count
	case Except:
		return s.children[0].EstimateRowCount()
	default:
		var count float64
		for _, child := range s.children {
			count += child.EstimateRowCount()
		}
		return count
	}
}

// LogicalSubquery wraps an already-planned derived table. It owns a binding
// index of its own; everything below it is opaque to the enclosing query.
type LogicalSubquery struct {
	baseLogicalPlan

	TableIndex int
}

// NewSubquery wraps child as a derived table bound at tableIndex.
func NewSubquery(tableIndex int, child base.LogicalPlan) *LogicalSubquery {
	sq := &LogicalSubquery{baseLogicalPlan: newBaseLogicalPlan("Subquery"), TableIndex: tableIndex}
	sq.SetChildren(child)
	return sq
}

// EstimateRowCount implements base.LogicalPlan.
func (sq *LogicalSubquery) EstimateRowCount() float64 {
	return sq.children[0].EstimateRowCount()
}

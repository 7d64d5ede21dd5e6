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

package base

import (
	"github.com/pingcap/quill/pkg/expression"
)

// JoinType contains the join type of a LogicalJoin.
type JoinType int

const (
	// InnerJoin means inner join.
	InnerJoin JoinType = iota
	// LeftOuterJoin means left outer join.
	LeftOuterJoin
	// RightOuterJoin means right outer join.
	RightOuterJoin
	// SemiJoin means semi join.
	SemiJoin
	// AntiSemiJoin means anti semi join.
	AntiSemiJoin
	// MarkJoin produces a boolean mark column for subquery decorrelation.
	MarkJoin
)

var joinTypeNames = []string{"inner join", "left outer join", "right outer join", "semi join", "anti semi join", "mark join"}

func (t JoinType) String() string {
	if int(t) < len(joinTypeNames) {
		return joinTypeNames[t]
	}
	return "unsupported join type"
}

// IsInner reports whether the join type is a plain inner join.
func (t JoinType) IsInner() bool { return t == InnerJoin }

// LogicalPlan is the interface implemented by every logical operator. An
// operator exclusively owns its children and its raw boolean expressions;
// detaching a child transfers ownership to the caller.
type LogicalPlan interface {
	// TP returns the type name of the operator.
	TP() string
	// Children returns the owned child operators in order.
	Children() []LogicalPlan
	// SetChildren replaces all children.
	SetChildren(children ...LogicalPlan)
	// SetChild replaces the i-th child.
	SetChild(i int, child LogicalPlan)
	// Expressions returns the operator's owned raw boolean expressions.
	// For a selection these are its filter conditions; for a join they are
	// predicates that have not been normalized into join conditions yet.
	Expressions() []expression.Expression
	// SetExpressions replaces the owned raw expressions.
	SetExpressions(exprs []expression.Expression)
	// AddExpression appends one raw expression.
	AddExpression(expr expression.Expression)
	// EstimateRowCount returns the estimated output cardinality of the
	// operator. The estimate is read synchronously from the operator tree,
	// there is no I/O involved.
	EstimateRowCount() float64
}

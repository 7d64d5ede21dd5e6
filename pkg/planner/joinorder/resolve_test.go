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

	"github.com/pingcap/quill/pkg/expression"
	"github.com/pingcap/quill/pkg/planner/base"
	"github.com/pingcap/quill/pkg/planner/logicalop"
	"github.com/stretchr/testify/require"
)

func newOuterJoin() (*logicalop.DataSource, *logicalop.DataSource, *logicalop.LogicalJoin) {
	left := logicalop.NewDataSource(0, "l", 100)
	right := logicalop.NewDataSource(1, "r", 200)
	return left, right, logicalop.NewJoin(base.LeftOuterJoin, left, right)
}

func TestResolveSplitsComparison(t *testing.T) {
	_, _, join := newOuterJoin()
	join.AddExpression(eq(col(0, 0, "l.a"), col(1, 0, "r.b")))

	result := resolveJoinConditions(join)

	require.Same(t, join, result)
	require.Empty(t, join.Expressions())
	require.Len(t, join.Conditions, 1)
	require.Equal(t, "l.a eq r.b", join.Conditions[0].String())
}

func TestResolveSwapsAndFlipsComparison(t *testing.T) {
	_, _, join := newOuterJoin()
	// operands arrive right-side first, the comparator must flip
	join.AddExpression(expression.NewComparison(expression.LT, col(1, 0, "r.b"), col(0, 0, "l.a")))

	result := resolveJoinConditions(join)

	require.Same(t, join, result)
	require.Len(t, join.Conditions, 1)
	cond := join.Conditions[0]
	require.Equal(t, expression.GT, cond.Op)
	require.Equal(t, "l.a", cond.Left.String())
	require.Equal(t, "r.b", cond.Right.String())
}

func TestResolvePushesSingleSidePredicates(t *testing.T) {
	left, right, join := newOuterJoin()
	join.AddExpression(eq(col(0, 1, "l.x"), constant(1)))
	join.AddExpression(eq(col(1, 1, "r.y"), constant(2)))

	result := resolveJoinConditions(join)

	require.Same(t, join, result)
	require.Empty(t, join.Conditions)

	leftSel, ok := join.Children()[0].(*logicalop.LogicalSelection)
	require.True(t, ok)
	require.Equal(t, "l.x eq 1", leftSel.Expressions()[0].String())
	require.Same(t, left, leftSel.Children()[0])

	rightSel, ok := join.Children()[1].(*logicalop.LogicalSelection)
	require.True(t, ok)
	require.Equal(t, "r.y eq 2", rightSel.Expressions()[0].String())
	require.Same(t, right, rightSel.Children()[0])
}

func TestResolveUnwrapsNegatedComparison(t *testing.T) {
	_, _, join := newOuterJoin()
	// ON NOT (l.a > r.b) becomes ON (l.a <= r.b)
	join.AddExpression(&expression.Not{
		Child: expression.NewComparison(expression.GT, col(0, 0, "l.a"), col(1, 0, "r.b")),
	})

	result := resolveJoinConditions(join)

	require.Same(t, join, result)
	require.Len(t, join.Conditions, 1)
	cond := join.Conditions[0]
	require.Equal(t, expression.LE, cond.Op)
	require.Equal(t, "l.a", cond.Left.String())
	require.Equal(t, "r.b", cond.Right.String())
}

func TestResolveKeepsUnsplittablePredicateAboveJoin(t *testing.T) {
	_, _, join := newOuterJoin()
	// one operand mixes both sides, the predicate cannot become a condition
	mixed := eq(expression.NewFunction("plus", col(0, 0, "l.a"), col(1, 0, "r.b")), col(1, 1, "r.c"))
	join.AddExpression(mixed)

	result := resolveJoinConditions(join)

	sel, ok := result.(*logicalop.LogicalSelection)
	require.True(t, ok)
	require.Same(t, join, sel.Children()[0])
	require.Empty(t, join.Conditions)
	require.Len(t, sel.Expressions(), 1)
	require.Same(t, mixed, sel.Expressions()[0])
}

func TestResolveTreatsSubqueryAsBothSides(t *testing.T) {
	_, _, join := newOuterJoin()
	sub := &expression.Subquery{Correlated: true}
	join.AddExpression(sub)

	result := resolveJoinConditions(join)

	sel, ok := result.(*logicalop.LogicalSelection)
	require.True(t, ok)
	require.Same(t, sub, sel.Expressions()[0])
}

func TestResolveRunsBottomUp(t *testing.T) {
	left, right, inner := newOuterJoin()
	inner.AddExpression(eq(col(0, 0, "l.a"), col(1, 0, "r.b")))
	top := logicalop.NewJoin(base.SemiJoin, inner, logicalop.NewDataSource(2, "s", 10))
	top.AddExpression(eq(col(0, 0, "l.a"), col(2, 0, "s.c")))

	result := resolveJoinConditions(top)

	require.Same(t, top, result)
	require.Len(t, top.Conditions, 1)
	require.Len(t, inner.Conditions, 1)
	require.Same(t, left, inner.Children()[0])
	require.Same(t, right, inner.Children()[1])
}

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
	"testing"

	"github.com/pingcap/quill/pkg/expression"
	"github.com/pingcap/quill/pkg/planner/base"
	"github.com/stretchr/testify/require"
)

func TestToString(t *testing.T) {
	a := NewDataSource(0, "a", 100)
	b := NewDataSource(1, "b", 10)
	join := NewJoin(base.InnerJoin, a, b)
	join.AddCondition(&JoinCondition{
		Op:    expression.EQ,
		Left:  &expression.Column{TableIndex: 0, Name: "a.x"},
		Right: &expression.Column{TableIndex: 1, Name: "b.x"},
	})
	sel := NewSelection(join, expression.NewComparison(expression.GT,
		&expression.Column{TableIndex: 0, Name: "a.y"}, &expression.Constant{Value: 3}))

	require.Equal(t, "Sel(a.y gt 3)->Join{DataSource(a)->DataSource(b)}(a.x eq b.x)", ToString(sel))

	outer := NewJoin(base.LeftOuterJoin, NewDataSource(2, "c", 1), NewDataSource(3, "d", 1))
	require.Equal(t, "Join(left outer join){DataSource(c)->DataSource(d)}", ToString(outer))

	cross := NewCrossProduct(NewDataSource(4, "e", 1), NewDataSource(5, "f", 1))
	require.Equal(t, "CrossProduct{DataSource(e)->DataSource(f)}", ToString(cross))
}

func TestEstimateRowCount(t *testing.T) {
	a := NewDataSource(0, "a", 100)
	b := NewDataSource(1, "b", 10)

	require.Equal(t, 1000.0, NewCrossProduct(a, b).EstimateRowCount())
	require.Equal(t, 100.0, NewJoin(base.InnerJoin, a, b).EstimateRowCount())
	require.Equal(t, 100.0, NewSelection(a).EstimateRowCount())
	require.Equal(t, 110.0, NewSetOp(Union, a, b).EstimateRowCount())
	require.Equal(t, 10.0, NewSetOp(Intersect, a, b).EstimateRowCount())
	require.Equal(t, 100.0, NewSetOp(Except, a, b).EstimateRowCount())
	require.Equal(t, 1.0, NewAggregation(a).EstimateRowCount())
	require.Equal(t, 100.0, NewAggregation(a, &expression.Column{TableIndex: 0}).EstimateRowCount())
	require.Equal(t, 100.0, NewSubquery(7, a).EstimateRowCount())
}

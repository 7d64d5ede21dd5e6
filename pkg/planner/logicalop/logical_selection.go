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

// LogicalSelection filters its single child by the conjunction of its raw
// expressions.
type LogicalSelection struct {
	baseLogicalPlan
}

// NewSelection creates a selection over child filtering by conds.
func NewSelection(child base.LogicalPlan, conds ...expression.Expression) *LogicalSelection {
	sel := &LogicalSelection{baseLogicalPlan: newBaseLogicalPlan("Selection")}
	sel.SetChildren(child)
	sel.SetExpressions(conds)
	return sel
}

// EstimateRowCount implements base.LogicalPlan. Selectivity estimation is
// out of scope here, the child estimate is passed through.
func (sel *LogicalSelection) EstimateRowCount() float64 {
	return sel.children[0].EstimateRowCount()
}

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

// baseLogicalPlan carries the parts shared by every logical operator: the
// operator type name, the owned children and the owned raw expressions.
type baseLogicalPlan struct {
	tp       string
	children []base.LogicalPlan
	exprs    []expression.Expression
}

// TP implements base.LogicalPlan.
func (p *baseLogicalPlan) TP() string { return p.tp }

// Children implements base.LogicalPlan.
func (p *baseLogicalPlan) Children() []base.LogicalPlan { return p.children }

// SetChildren implements base.LogicalPlan.
func (p *baseLogicalPlan) SetChildren(children ...base.LogicalPlan) { p.children = children }

// SetChild implements base.LogicalPlan.
func (p *baseLogicalPlan) SetChild(i int, child base.LogicalPlan) { p.children[i] = child }

// Expressions implements base.LogicalPlan.
func (p *baseLogicalPlan) Expressions() []expression.Expression { return p.exprs }

// SetExpressions implements base.LogicalPlan.
func (p *baseLogicalPlan) SetExpressions(exprs []expression.Expression) { p.exprs = exprs }

// AddExpression implements base.LogicalPlan.
func (p *baseLogicalPlan) AddExpression(expr expression.Expression) {
	p.exprs = append(p.exprs, expr)
}

func newBaseLogicalPlan(tp string) baseLogicalPlan {
	return baseLogicalPlan{tp: tp}
}

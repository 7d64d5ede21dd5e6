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
	"bytes"
	"fmt"
	"strings"

	"github.com/pingcap/quill/pkg/planner/base"
)

// ToString explains a plan, returning a compact single-line description
// used by tests and debug logs.
func ToString(p base.LogicalPlan) string {
	var buf bytes.Buffer
	toString(p, &buf)
	return buf.String()
}

func toString(p base.LogicalPlan, buf *bytes.Buffer) {
	switch x := p.(type) {
	case *DataSource:
		fmt.Fprintf(buf, "DataSource(%s)", x.TableName)
	case *LogicalTableFunction:
		fmt.Fprintf(buf, "TableFunction(%s)", x.FuncName)
	case *LogicalJoin:
		if x.JoinType != base.InnerJoin {
			fmt.Fprintf(buf, "Join(%s){", x.JoinType)
		} else {
			buf.WriteString("Join{")
		}
		writeChildren(x, buf)
		buf.WriteString("}")
		if len(x.Conditions) > 0 {
			conds := make([]string, len(x.Conditions))
			for i, cond := range x.Conditions {
				conds[i] = cond.String()
			}
			fmt.Fprintf(buf, "(%s)", strings.Join(conds, ","))
		}
	case *LogicalCrossProduct:
		buf.WriteString("CrossProduct{")
		writeChildren(x, buf)
		buf.WriteString("}")
	case *LogicalSelection:
		buf.WriteString("Sel(")
		exprs := make([]string, len(x.Expressions()))
		for i, expr := range x.Expressions() {
			exprs[i] = expr.String()
		}
		buf.WriteString(strings.Join(exprs, ","))
		buf.WriteString(")->")
		toString(x.Children()[0], buf)
	case *LogicalSubquery:
		buf.WriteString("Subquery{")
		writeChildren(x, buf)
		buf.WriteString("}")
	default:
		buf.WriteString(p.TP())
		if len(p.Children()) > 0 {
			buf.WriteString("{")
			writeChildren(p, buf)
			buf.WriteString("}")
		}
	}
}

func writeChildren(p base.LogicalPlan, buf *bytes.Buffer) {
	for i, child := range p.Children() {
		if i > 0 {
			buf.WriteString("->")
		}
		toString(child, buf)
	}
}

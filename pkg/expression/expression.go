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

package expression

import (
	"fmt"
	"strings"
)

// Expression is a bound scalar expression. All expressions entering the
// planner are already resolved against the catalog, so a column reference
// carries the table index it was bound to rather than a name.
type Expression interface {
	fmt.Stringer
	// Children returns the direct child expressions. The returned slice is
	// owned by the expression and must not be mutated.
	Children() []Expression
}

// Column is a bound column reference. Depth is the number of query levels
// between the reference and the level that produces the column; a Depth
// greater than zero means the reference is correlated.
type Column struct {
	TableIndex  int
	ColumnIndex int
	Depth       int
	Name        string
}

// Children implements Expression.
func (*Column) Children() []Expression { return nil }

func (c *Column) String() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("t%d.c%d", c.TableIndex, c.ColumnIndex)
}

// ExecRef is a reference that has already been bound to a slot of an
// executing operator. It carries no table binding and can never drive a
// join reorder.
type ExecRef struct {
	Index int
}

// Children implements Expression.
func (*ExecRef) Children() []Expression { return nil }

func (r *ExecRef) String() string { return fmt.Sprintf("#%d", r.Index) }

// Constant is a literal value.
type Constant struct {
	Value any
}

// Children implements Expression.
func (*Constant) Children() []Expression { return nil }

func (c *Constant) String() string { return fmt.Sprintf("%v", c.Value) }

// Not is a logical negation wrapping a single child.
type Not struct {
	Child Expression
}

// Children implements Expression.
func (n *Not) Children() []Expression { return []Expression{n.Child} }

func (n *Not) String() string { return "not " + n.Child.String() }

// Subquery is a bound scalar subquery. The subquery plan itself lives
// outside the expression tree; only the correlation flag matters to the
// planner rules in this repo.
type Subquery struct {
	Correlated bool
}

// Children implements Expression.
func (*Subquery) Children() []Expression { return nil }

func (s *Subquery) String() string {
	if s.Correlated {
		return "(correlated subquery)"
	}
	return "(subquery)"
}

// ScalarFunc is any other scalar computation, arithmetic and logical
// connectives included.
type ScalarFunc struct {
	FuncName string
	Args     []Expression
}

// Children implements Expression.
func (f *ScalarFunc) Children() []Expression { return f.Args }

func (f *ScalarFunc) String() string {
	args := make([]string, len(f.Args))
	for i, arg := range f.Args {
		args[i] = arg.String()
	}
	return f.FuncName + "(" + strings.Join(args, ", ") + ")"
}

// NewFunction builds a ScalarFunc from a name and its arguments.
func NewFunction(name string, args ...Expression) *ScalarFunc {
	return &ScalarFunc{FuncName: name, Args: args}
}

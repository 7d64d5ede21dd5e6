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

// DataSource is a base table scan. TableIndex is the binding index column
// references resolve against; it is unique within one bound statement.
type DataSource struct {
	baseLogicalPlan

	TableIndex int
	TableName  string
	RowCount   float64
}

// NewDataSource creates a table scan over the table bound at tableIndex.
func NewDataSource(tableIndex int, tableName string, rowCount float64) *DataSource {
	return &DataSource{
		baseLogicalPlan: newBaseLogicalPlan("DataSource"),
		TableIndex:      tableIndex,
		TableName:       tableName,
		RowCount:        rowCount,
	}
}

// EstimateRowCount implements base.LogicalPlan.
func (ds *DataSource) EstimateRowCount() float64 { return ds.RowCount }

// LogicalTableFunction is a call to a table-producing function. Like a scan
// it owns a binding index of its own.
type LogicalTableFunction struct {
	baseLogicalPlan

	TableIndex int
	FuncName   string
	RowCount   float64
}

// NewTableFunction creates a table function operator.
func NewTableFunction(tableIndex int, funcName string, rowCount float64) *LogicalTableFunction {
	return &LogicalTableFunction{
		baseLogicalPlan: newBaseLogicalPlan("TableFunction"),
		TableIndex:      tableIndex,
		FuncName:        funcName,
		RowCount:        rowCount,
	}
}

// EstimateRowCount implements base.LogicalPlan.
func (tf *LogicalTableFunction) EstimateRowCount() float64 { return tf.RowCount }

package steps

import (
	"fmt"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
)

// getCellValue returns the cell of row under the header named columnName
func getCellValue(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	if len(table.Rows) == 0 {
		return ""
	}
	for i, headerCell := range table.Rows[0].Cells {
		if headerCell.Value == columnName {
			if i < len(row.Cells) {
				return row.Cells[i].Value
			}
			return ""
		}
	}
	return ""
}

// requireRows fails when the table has no data rows below its header
func requireRows(table *godog.Table) error {
	if table == nil || len(table.Rows) < 2 {
		return fmt.Errorf("table must have header and data rows")
	}
	return nil
}

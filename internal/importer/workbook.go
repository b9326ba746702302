package importer

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// table is one worksheet with its header mapped to column indexes.
type table struct {
	sheet   string
	columns map[string]int
	rows    [][]string
}

var sheetAliases = map[string][]string{
	sheetAreas:      {"areas"},
	sheetEmployees:  {"employees", "empleados"},
	sheetObjectives: {"objectives", "okrs"},
	sheetTasks:      {"tasks", "tareas"},
}

// columnAliases lists the accepted headers per logical column. The Spanish
// names are the ones used by the spreadsheets this tracker replaces.
var columnAliases = map[string][]string{
	"id":           {"id"},
	"name":         {"name", "nombre"},
	"email":        {"email", "correo"},
	"password":     {"password", "contraseña"},
	"role":         {"role", "rol"},
	"area":         {"area"},
	"description":  {"description", "descripcion", "descripción"},
	"type":         {"type", "tipo"},
	"employee_id":  {"employee_id", "employeeid", "id_empleado"},
	"parent_id":    {"parent_id", "parentid", "link_org"},
	"objective_id": {"objective_id", "objectiveid", "link_okr"},
	"year":         {"year", "anio", "año"},
	"status":       {"status", "estado"},
}

func normalizeHeader(header string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "_")
}

// readTable finds the sheet for kind, case-insensitively, and returns nil
// when the workbook has none.
func readTable(f *excelize.File, kind string) (*table, error) {
	var name string
	for _, sheet := range f.GetSheetList() {
		for _, alias := range sheetAliases[kind] {
			if strings.EqualFold(strings.TrimSpace(sheet), alias) {
				name = sheet
			}
		}
		if name != "" {
			break
		}
	}
	if name == "" {
		return nil, nil
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, err
	}
	t := &table{sheet: kind, columns: make(map[string]int)}
	if len(rows) == 0 {
		return t, nil
	}

	for idx, header := range rows[0] {
		h := normalizeHeader(header)
		for column, aliases := range columnAliases {
			for _, alias := range aliases {
				if h == alias {
					if _, seen := t.columns[column]; !seen {
						t.columns[column] = idx
					}
				}
			}
		}
	}
	t.rows = rows[1:]
	return t, nil
}

func (t *table) has(column string) bool {
	_, ok := t.columns[column]
	return ok
}

func (t *table) cell(row []string, column string) string {
	idx, ok := t.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

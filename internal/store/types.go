package store

type typeRow struct {
	Name     string `db:"name"`
	Category string `db:"category"`
}

type columnRow struct {
	TypeName string `db:"type_name"`
	Position int    `db:"position"`
	Name     string `db:"name"`
	Role     string `db:"role"`
}

type prototypeRow struct {
	Name        string `db:"name"`
	TypeName    string `db:"type_name"`
	Description string `db:"description"`
	Position    int    `db:"position"`
}

type cellsRow struct {
	RowIndex int    `db:"row_index"`
	Cells    string `db:"cells"`
}

type customValueRow struct {
	Variable   string `db:"variable"`
	ColumnName string `db:"column_name"`
	Value      string `db:"value"`
}

type groupRow struct {
	Name          string `db:"name"`
	Description   string `db:"description"`
	IsApplication bool   `db:"is_application"`
}

type groupTableRow struct {
	GroupName string `db:"group_name"`
	TablePath string `db:"table_path"`
}

type fieldRow struct {
	Owner       string `db:"owner"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Value       string `db:"value"`
}

type linkRow struct {
	Name        string `db:"name"`
	Rate        string `db:"rate"`
	Description string `db:"description"`
}

type linkMemberRow struct {
	LinkName string `db:"link_name"`
	Member   string `db:"member"`
}

type associationRow struct {
	Name        string `db:"name"`
	Description string `db:"description"`
	ScriptFile  string `db:"script_file"`
	Members     string `db:"members"`
}

// TableRef names a table prototype and its type.
type TableRef struct {
	Name string `db:"name"`
	Type string `db:"type_name"`
}

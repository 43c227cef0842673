package binding

// Field is a data field attached to a table, group or the project.
type Field struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Value       string `json:"value"`
}

// GroupInfo describes a group as scripts see it.
type GroupInfo struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	IsApplication bool     `json:"is_application"`
	Tables        []string `json:"tables"`
}

// Link is a named set of telemetry variables sharing a rate.
type Link struct {
	Name        string   `json:"name"`
	Rate        string   `json:"rate"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

// Metadata is the project-wide information loaded once per batch.
type Metadata struct {
	Project string      `json:"project"`
	Fields  []Field     `json:"fields"`
	Groups  []GroupInfo `json:"groups"`
	Links   []Link      `json:"links"`
}

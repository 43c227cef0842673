package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"

	"github.com/vk/scriptassoc/internal/assoc"
	"github.com/vk/scriptassoc/internal/schema"
)

// Fixture is a complete project description that can be loaded into an
// empty or existing database.
type Fixture struct {
	Project      string               `yaml:"project"`
	DataTypes    []FixtureDataType    `yaml:"data_types"`
	TableTypes   []FixtureTableType   `yaml:"table_types"`
	Tables       []FixtureTable       `yaml:"tables"`
	CustomValues []FixtureCustomValue `yaml:"custom_values"`
	Groups       []FixtureGroup       `yaml:"groups"`
	Fields       []FixtureField       `yaml:"fields"`
	Links        []FixtureLink        `yaml:"links"`
	Associations []FixtureAssociation `yaml:"associations"`
}

type FixtureDataType struct {
	Name     string `yaml:"name"`
	Size     int    `yaml:"size"`
	BaseType string `yaml:"base_type"`
}

type FixtureColumn struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

type FixtureTableType struct {
	Name     string          `yaml:"name"`
	Category string          `yaml:"category"`
	Columns  []FixtureColumn `yaml:"columns"`
}

type FixtureTable struct {
	Name        string     `yaml:"name"`
	Type        string     `yaml:"type"`
	Description string     `yaml:"description"`
	Rows        [][]string `yaml:"rows"`
}

type FixtureCustomValue struct {
	Path     string `yaml:"path"`
	Variable string `yaml:"variable"`
	Column   string `yaml:"column"`
	Value    string `yaml:"value"`
}

type FixtureGroup struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Application bool     `yaml:"application"`
	Tables      []string `yaml:"tables"`
}

type FixtureField struct {
	Owner       string `yaml:"owner"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Value       string `yaml:"value"`
}

type FixtureLink struct {
	Name        string   `yaml:"name"`
	Rate        string   `yaml:"rate"`
	Description string   `yaml:"description"`
	Members     []string `yaml:"members"`
}

type FixtureAssociation struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Script      string `yaml:"script"`
	Members     string `yaml:"members"`
}

// DecodeFixture parses a YAML fixture.
func DecodeFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ReadFixtureFile opens and parses a YAML fixture file.
func ReadFixtureFile(path string) (*Fixture, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer func() { _ = fh.Close() }()
	return DecodeFixture(fh)
}

func (f *Fixture) validate() error {
	widths := make(map[string]int)
	for _, tt := range f.TableTypes {
		if tt.Name == "" {
			return fmt.Errorf("table type with empty name")
		}
		if _, err := schema.ParseCategory(tt.Category); err != nil {
			return fmt.Errorf("table type '%s': %w", tt.Name, err)
		}
		for _, c := range tt.Columns {
			if _, err := schema.ParseRole(c.Role); err != nil {
				return fmt.Errorf("table type '%s' column '%s': %w", tt.Name, c.Name, err)
			}
		}
		widths[tt.Name] = len(tt.Columns)
	}
	for _, t := range f.Tables {
		width, ok := widths[t.Type]
		if !ok {
			return fmt.Errorf("table '%s' has unknown type '%s'", t.Name, t.Type)
		}
		for i, row := range t.Rows {
			if len(row) != width {
				return fmt.Errorf("table '%s' row %d has %d cells, type '%s' has %d columns", t.Name, i, len(row), t.Type, width)
			}
		}
	}
	for _, a := range f.Associations {
		if err := (assoc.Association{Name: a.Name, ScriptPath: a.Script}).Validate(); err != nil {
			return err
		}
	}
	return nil
}

var clearStatements = []string{
	`DELETE FROM associations`,
	`DELETE FROM link_members`,
	`DELETE FROM links`,
	`DELETE FROM data_fields`,
	`DELETE FROM group_tables`,
	`DELETE FROM groups`,
	`DELETE FROM custom_values`,
	`DELETE FROM table_rows`,
	`DELETE FROM prototypes`,
	`DELETE FROM type_columns`,
	`DELETE FROM table_types`,
	`DELETE FROM data_types`,
	`DELETE FROM project`,
}

// Seed replaces the whole catalog with the fixture's content in a single
// transaction.
func (s *Store) Seed(ctx context.Context, f *Fixture) error {
	if err := f.validate(); err != nil {
		return err
	}
	defer s.invalidate()

	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, stmt := range clearStatements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("clear catalog: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO project(key, value) VALUES(?, ?)`, projectNameKey, f.Project); err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		for _, dt := range f.DataTypes {
			if _, err := tx.ExecContext(ctx, `INSERT INTO data_types(name, size_bytes, base_type) VALUES(?, ?, ?)`, dt.Name, dt.Size, dt.BaseType); err != nil {
				return fmt.Errorf("insert data type '%s': %w", dt.Name, err)
			}
		}
		for _, tt := range f.TableTypes {
			category, _ := schema.ParseCategory(tt.Category)
			if _, err := tx.ExecContext(ctx, `INSERT INTO table_types(name, category) VALUES(?, ?)`, tt.Name, category.String()); err != nil {
				return fmt.Errorf("insert table type '%s': %w", tt.Name, err)
			}
			for i, c := range tt.Columns {
				role, _ := schema.ParseRole(c.Role)
				if _, err := tx.ExecContext(ctx, `INSERT INTO type_columns(type_name, position, name, role) VALUES(?, ?, ?, ?)`, tt.Name, i, c.Name, role.String()); err != nil {
					return fmt.Errorf("insert column '%s' of '%s': %w", c.Name, tt.Name, err)
				}
			}
		}
		for i, t := range f.Tables {
			if _, err := tx.ExecContext(ctx, `INSERT INTO prototypes(name, type_name, description, position) VALUES(?, ?, ?, ?)`, t.Name, t.Type, t.Description, i); err != nil {
				return fmt.Errorf("insert table '%s': %w", t.Name, err)
			}
			for j, row := range t.Rows {
				cells, err := json.Marshal(row)
				if err != nil {
					return fmt.Errorf("encode row %d of '%s': %w", j, t.Name, err)
				}
				if _, err := tx.ExecContext(ctx, `INSERT INTO table_rows(table_name, row_index, cells) VALUES(?, ?, ?)`, t.Name, j, string(cells)); err != nil {
					return fmt.Errorf("insert row %d of '%s': %w", j, t.Name, err)
				}
			}
		}
		for _, cv := range f.CustomValues {
			if _, err := tx.ExecContext(ctx, `INSERT INTO custom_values(table_path, variable, column_name, value) VALUES(?, ?, ?, ?)`, cv.Path, cv.Variable, cv.Column, cv.Value); err != nil {
				return fmt.Errorf("insert custom value for '%s': %w", cv.Path, err)
			}
		}
		for i, g := range f.Groups {
			if _, err := tx.ExecContext(ctx, `INSERT INTO groups(name, description, is_application, position) VALUES(?, ?, ?, ?)`, g.Name, g.Description, g.Application, i); err != nil {
				return fmt.Errorf("insert group '%s': %w", g.Name, err)
			}
			for j, p := range g.Tables {
				if _, err := tx.ExecContext(ctx, `INSERT INTO group_tables(group_name, table_path, position) VALUES(?, ?, ?)`, g.Name, p, j); err != nil {
					return fmt.Errorf("insert table '%s' of group '%s': %w", p, g.Name, err)
				}
			}
		}
		for i, fd := range f.Fields {
			if _, err := tx.ExecContext(ctx, `INSERT INTO data_fields(owner, name, description, value, position) VALUES(?, ?, ?, ?, ?)`, fd.Owner, fd.Name, fd.Description, fd.Value, i); err != nil {
				return fmt.Errorf("insert field '%s' of '%s': %w", fd.Name, fd.Owner, err)
			}
		}
		for i, l := range f.Links {
			if _, err := tx.ExecContext(ctx, `INSERT INTO links(name, rate, description, position) VALUES(?, ?, ?, ?)`, l.Name, l.Rate, l.Description, i); err != nil {
				return fmt.Errorf("insert link '%s': %w", l.Name, err)
			}
			for j, m := range l.Members {
				if _, err := tx.ExecContext(ctx, `INSERT INTO link_members(link_name, member, position) VALUES(?, ?, ?)`, l.Name, m, j); err != nil {
					return fmt.Errorf("insert member '%s' of link '%s': %w", m, l.Name, err)
				}
			}
		}
		for _, a := range f.Associations {
			if err := insertAssociation(ctx, tx, assoc.Association{
				Name:        a.Name,
				Description: a.Description,
				ScriptPath:  a.Script,
				Members:     a.Members,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

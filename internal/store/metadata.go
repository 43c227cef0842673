package store

import (
	"context"
	"fmt"

	"github.com/vk/scriptassoc/internal/binding"
)

const projectNameKey = "name"

// ProjectName returns the stored project name, or "" when none is set.
func (s *Store) ProjectName(ctx context.Context) (string, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names, `SELECT value FROM project WHERE key = ?`, projectNameKey); err != nil {
		return "", fmt.Errorf("select project name: %w", err)
	}
	if len(names) == 0 {
		return "", nil
	}
	return names[0], nil
}

// Metadata reads the project name, data fields, groups and links that
// scripts can query.
func (s *Store) Metadata(ctx context.Context) (*binding.Metadata, error) {
	md := &binding.Metadata{}
	var err error
	if md.Project, err = s.ProjectName(ctx); err != nil {
		return nil, err
	}

	var fields []fieldRow
	if err := s.db.SelectContext(ctx, &fields, `SELECT owner, name, description, value FROM data_fields ORDER BY owner, position, name`); err != nil {
		return nil, fmt.Errorf("select data fields: %w", err)
	}
	for _, f := range fields {
		md.Fields = append(md.Fields, binding.Field(f))
	}

	var groups []groupRow
	if err := s.db.SelectContext(ctx, &groups, `SELECT name, description, is_application FROM groups ORDER BY position, name`); err != nil {
		return nil, fmt.Errorf("select groups: %w", err)
	}
	var members []groupTableRow
	if err := s.db.SelectContext(ctx, &members, `SELECT group_name, table_path FROM group_tables ORDER BY group_name, position, table_path`); err != nil {
		return nil, fmt.Errorf("select group tables: %w", err)
	}
	byGroup := make(map[string][]string)
	for _, m := range members {
		byGroup[m.GroupName] = append(byGroup[m.GroupName], m.TablePath)
	}
	for _, g := range groups {
		md.Groups = append(md.Groups, binding.GroupInfo{
			Name:          g.Name,
			Description:   g.Description,
			IsApplication: g.IsApplication,
			Tables:        byGroup[g.Name],
		})
	}

	var links []linkRow
	if err := s.db.SelectContext(ctx, &links, `SELECT name, rate, description FROM links ORDER BY position, name`); err != nil {
		return nil, fmt.Errorf("select links: %w", err)
	}
	var linkMembers []linkMemberRow
	if err := s.db.SelectContext(ctx, &linkMembers, `SELECT link_name, member FROM link_members ORDER BY link_name, position`); err != nil {
		return nil, fmt.Errorf("select link members: %w", err)
	}
	byLink := make(map[string][]string)
	for _, m := range linkMembers {
		byLink[m.LinkName] = append(byLink[m.LinkName], m.Member)
	}
	for _, l := range links {
		md.Links = append(md.Links, binding.Link{
			Name:        l.Name,
			Rate:        l.Rate,
			Description: l.Description,
			Members:     byLink[l.Name],
		})
	}
	return md, nil
}

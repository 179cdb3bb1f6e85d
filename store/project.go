package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"dpc/common"
	"dpc/page"
)

// ErrNotFound is returned when a project or block id does not exist.
var ErrNotFound = fmt.Errorf("not found")

// CreateProject inserts a project, assigning an id and timestamps when unset.
func (s *Store) CreateProject(p *page.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	err := sqlitex.Execute(s.conn, `
		INSERT INTO projects (id, display_name, block_width, background, font_family,
			font_size, font_weight, text_color, text_align, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{
			p.ID, p.DisplayName, p.Style.BlockWidth, p.Style.Background,
			p.Style.FontFamily, p.Style.FontSize, p.Style.FontWeight,
			p.Style.TextColor, p.Style.TextAlign.String(),
			p.CreatedAt.Unix(), p.UpdatedAt.Unix(),
		}})
	if err != nil {
		return fmt.Errorf("creating project %q: %w", p.ID, err)
	}
	return nil
}

// GetProject loads one project by id.
func (s *Store) GetProject(id string) (page.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p page.Project
	found := false
	err := sqlitex.Execute(s.conn, `
		SELECT id, display_name, block_width, background, font_family, font_size,
			font_weight, text_color, text_align, created_at, updated_at
		FROM projects WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				p = scanProject(stmt)
				found = true
				return nil
			}})
	if err != nil {
		return page.Project{}, fmt.Errorf("loading project %q: %w", id, err)
	}
	if !found {
		return page.Project{}, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	return p, nil
}

// UpdateProject persists display name and style.
func (s *Store) UpdateProject(p page.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := sqlitex.Execute(s.conn, `
		UPDATE projects SET display_name = ?, block_width = ?, background = ?,
			font_family = ?, font_size = ?, font_weight = ?, text_color = ?,
			text_align = ?, updated_at = ?
		WHERE id = ?`,
		&sqlitex.ExecOptions{Args: []any{
			p.DisplayName, p.Style.BlockWidth, p.Style.Background,
			p.Style.FontFamily, p.Style.FontSize, p.Style.FontWeight,
			p.Style.TextColor, p.Style.TextAlign.String(),
			time.Now().Unix(), p.ID,
		}})
	if err != nil {
		return fmt.Errorf("updating project %q: %w", p.ID, err)
	}
	if s.conn.Changes() == 0 {
		return fmt.Errorf("project %q: %w", p.ID, ErrNotFound)
	}
	return nil
}

// UpdateProjectStyle persists only the project-wide style. This is the
// debounced autosave target.
func (s *Store) UpdateProjectStyle(id string, style page.ProjectStyle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := sqlitex.Execute(s.conn, `
		UPDATE projects SET block_width = ?, background = ?, font_family = ?,
			font_size = ?, font_weight = ?, text_color = ?, text_align = ?,
			updated_at = ?
		WHERE id = ?`,
		&sqlitex.ExecOptions{Args: []any{
			style.BlockWidth, style.Background, style.FontFamily, style.FontSize,
			style.FontWeight, style.TextColor, style.TextAlign.String(),
			time.Now().Unix(), id,
		}})
	if err != nil {
		return fmt.Errorf("updating style of project %q: %w", id, err)
	}
	if s.conn.Changes() == 0 {
		return fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	return nil
}

// ListProjects returns all projects sorted by display name, numbers compared
// naturally so "scene 10" follows "scene 9".
func (s *Store) ListProjects() ([]page.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var projects []page.Project
	err := sqlitex.Execute(s.conn, `
		SELECT id, display_name, block_width, background, font_family, font_size,
			font_weight, text_color, text_align, created_at, updated_at
		FROM projects`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			projects = append(projects, scanProject(stmt))
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	sort.SliceStable(projects, func(i, j int) bool {
		return natural.Less(projects[i].DisplayName, projects[j].DisplayName)
	})
	return projects, nil
}

// FindProject resolves a command line reference to a project: an exact id
// first, then a case-insensitive display name match. Ambiguous names error
// instead of picking one.
func (s *Store) FindProject(key string) (page.Project, error) {
	if p, err := s.GetProject(key); err == nil {
		return p, nil
	} else if !errors.Is(err, ErrNotFound) {
		return page.Project{}, err
	}

	projects, err := s.ListProjects()
	if err != nil {
		return page.Project{}, err
	}
	var found []page.Project
	for _, p := range projects {
		if strings.EqualFold(p.DisplayName, key) {
			found = append(found, p)
		}
	}
	switch len(found) {
	case 0:
		return page.Project{}, fmt.Errorf("project %q: %w", key, ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return page.Project{}, fmt.Errorf("project name %q is ambiguous, use one of %d ids", key, len(found))
	}
}

func scanProject(stmt *sqlite.Stmt) page.Project {
	align, err := common.ParseAlign(stmt.ColumnText(8))
	if err != nil {
		align = common.AlignLeft
	}
	return page.Project{
		ID:          stmt.ColumnText(0),
		DisplayName: stmt.ColumnText(1),
		Style: page.ProjectStyle{
			BlockWidth: int(stmt.ColumnInt64(2)),
			Background: stmt.ColumnText(3),
			FontFamily: stmt.ColumnText(4),
			FontSize:   stmt.ColumnFloat(5),
			FontWeight: int(stmt.ColumnInt64(6)),
			TextColor:  stmt.ColumnText(7),
			TextAlign:  align,
		},
		CreatedAt: time.Unix(stmt.ColumnInt64(9), 0),
		UpdatedAt: time.Unix(stmt.ColumnInt64(10), 0),
	}
}

package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"dpc/page"
)

// CreateBlock inserts a block, assigning an id and timestamps when unset.
func (s *Store) CreateBlock(b *page.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	styleJSON, err := marshalStyle(b.Style)
	if err != nil {
		return err
	}

	err = sqlitex.Execute(s.conn, `
		INSERT INTO blocks (id, project_id, scenario_no, image0, image1, image2,
			title, subtitle, body, body_edited, layout_preset,
			offset_x, offset_y, box_x, box_y, box_w, box_h,
			style, deleted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{
			b.ID, b.ProjectID, b.ScenarioNo,
			b.Images[0], b.Images[1], b.Images[2],
			b.Title, b.Subtitle, b.Body, nullable(b.BodyEdited), b.LayoutPreset,
			b.TextOffset.X, b.TextOffset.Y,
			b.OverlayBox.X, b.OverlayBox.Y, b.OverlayBox.Width, b.OverlayBox.Height,
			styleJSON, boolToInt(b.Deleted), b.CreatedAt.Unix(), b.UpdatedAt.Unix(),
		}})
	if err != nil {
		return fmt.Errorf("creating block %q: %w", b.ID, err)
	}
	return nil
}

// GetBlock loads one block by id, tombstoned or not.
func (s *Store) GetBlock(id string) (page.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b page.Block
	found := false
	err := sqlitex.Execute(s.conn, selectBlocks+` WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				b, err = scanBlock(stmt)
				found = true
				return err
			}})
	if err != nil {
		return page.Block{}, fmt.Errorf("loading block %q: %w", id, err)
	}
	if !found {
		return page.Block{}, fmt.Errorf("block %q: %w", id, ErrNotFound)
	}
	return b, nil
}

// ListBlocks returns a project's live blocks ordered by scenario number.
func (s *Store) ListBlocks(projectID string) ([]page.Block, error) {
	return s.listBlocks(projectID, false)
}

// ListBlocksWithDeleted includes tombstoned blocks, still in order.
func (s *Store) ListBlocksWithDeleted(projectID string) ([]page.Block, error) {
	return s.listBlocks(projectID, true)
}

func (s *Store) listBlocks(projectID string, withDeleted bool) ([]page.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := selectBlocks + ` WHERE project_id = ?`
	if !withDeleted {
		query += ` AND deleted = 0`
	}
	query += ` ORDER BY scenario_no`

	var blocks []page.Block
	err := sqlitex.Execute(s.conn, query,
		&sqlitex.ExecOptions{
			Args: []any{projectID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				b, err := scanBlock(stmt)
				if err != nil {
					return err
				}
				blocks = append(blocks, b)
				return nil
			}})
	if err != nil {
		return nil, fmt.Errorf("listing blocks of %q: %w", projectID, err)
	}
	return blocks, nil
}

// UpdateBlock persists the full block state. Edits always send the complete
// current value so the last commit wins.
func (s *Store) UpdateBlock(b page.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	styleJSON, err := marshalStyle(b.Style)
	if err != nil {
		return err
	}

	err = sqlitex.Execute(s.conn, `
		UPDATE blocks SET scenario_no = ?, image0 = ?, image1 = ?, image2 = ?,
			title = ?, subtitle = ?, body = ?, body_edited = ?, layout_preset = ?,
			offset_x = ?, offset_y = ?, box_x = ?, box_y = ?, box_w = ?, box_h = ?,
			style = ?, deleted = ?, updated_at = ?
		WHERE id = ?`,
		&sqlitex.ExecOptions{Args: []any{
			b.ScenarioNo, b.Images[0], b.Images[1], b.Images[2],
			b.Title, b.Subtitle, b.Body, nullable(b.BodyEdited), b.LayoutPreset,
			b.TextOffset.X, b.TextOffset.Y,
			b.OverlayBox.X, b.OverlayBox.Y, b.OverlayBox.Width, b.OverlayBox.Height,
			styleJSON, boolToInt(b.Deleted), time.Now().Unix(), b.ID,
		}})
	if err != nil {
		return fmt.Errorf("updating block %q: %w", b.ID, err)
	}
	if s.conn.Changes() == 0 {
		return fmt.Errorf("block %q: %w", b.ID, ErrNotFound)
	}
	return nil
}

// SoftDeleteBlock tombstones a block.
func (s *Store) SoftDeleteBlock(id string) error {
	return s.setDeleted(id, true)
}

// RestoreBlock clears a block's tombstone.
func (s *Store) RestoreBlock(id string) error {
	return s.setDeleted(id, false)
}

func (s *Store) setDeleted(id string, deleted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := sqlitex.Execute(s.conn,
		`UPDATE blocks SET deleted = ?, updated_at = ? WHERE id = ?`,
		&sqlitex.ExecOptions{Args: []any{boolToInt(deleted), time.Now().Unix(), id}})
	if err != nil {
		return fmt.Errorf("tombstoning block %q: %w", id, err)
	}
	if s.conn.Changes() == 0 {
		return fmt.Errorf("block %q: %w", id, ErrNotFound)
	}
	return nil
}

// ReorderBlocks rewrites scenario numbers to match the given id order,
// atomically. Every listed block gets a unique consecutive number.
func (s *Store) ReorderBlocks(projectID string, orderedIDs []string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	release := sqlitex.Save(s.conn)
	defer release(&err)

	now := time.Now().Unix()
	for i, id := range orderedIDs {
		err = sqlitex.Execute(s.conn,
			`UPDATE blocks SET scenario_no = ?, updated_at = ? WHERE id = ? AND project_id = ?`,
			&sqlitex.ExecOptions{Args: []any{i + 1, now, id, projectID}})
		if err != nil {
			return fmt.Errorf("reordering block %q: %w", id, err)
		}
		if s.conn.Changes() == 0 {
			return fmt.Errorf("reordering block %q: %w", id, ErrNotFound)
		}
	}
	return nil
}

const selectBlocks = `
	SELECT id, project_id, scenario_no, image0, image1, image2,
		title, subtitle, body, body_edited, layout_preset,
		offset_x, offset_y, box_x, box_y, box_w, box_h,
		style, deleted, created_at, updated_at
	FROM blocks`

func scanBlock(stmt *sqlite.Stmt) (page.Block, error) {
	b := page.Block{
		ID:         stmt.ColumnText(0),
		ProjectID:  stmt.ColumnText(1),
		ScenarioNo: int(stmt.ColumnInt64(2)),
		Images: [page.SlotCount]string{
			stmt.ColumnText(3), stmt.ColumnText(4), stmt.ColumnText(5),
		},
		Title:        stmt.ColumnText(6),
		Subtitle:     stmt.ColumnText(7),
		Body:         stmt.ColumnText(8),
		LayoutPreset: stmt.ColumnText(10),
		TextOffset:   page.Offset{X: int(stmt.ColumnInt64(11)), Y: int(stmt.ColumnInt64(12))},
		OverlayBox: page.Box{
			X: int(stmt.ColumnInt64(13)), Y: int(stmt.ColumnInt64(14)),
			Width: int(stmt.ColumnInt64(15)), Height: int(stmt.ColumnInt64(16)),
		},
		Deleted:   stmt.ColumnInt64(18) != 0,
		CreatedAt: time.Unix(stmt.ColumnInt64(19), 0),
		UpdatedAt: time.Unix(stmt.ColumnInt64(20), 0),
	}

	if stmt.ColumnType(9) != sqlite.TypeNull {
		edited := stmt.ColumnText(9)
		b.BodyEdited = &edited
	}

	if stmt.ColumnType(17) != sqlite.TypeNull {
		var style page.BlockStyle
		if err := json.Unmarshal([]byte(stmt.ColumnText(17)), &style); err != nil {
			return page.Block{}, fmt.Errorf("decoding style of block %q: %w", b.ID, err)
		}
		b.Style = &style
	}
	return b, nil
}

// marshalStyle encodes a sparse override, nil and empty both persist as NULL.
func marshalStyle(style *page.BlockStyle) (any, error) {
	if style.IsEmpty() {
		return nil, nil
	}
	data, err := json.Marshal(style)
	if err != nil {
		return nil, fmt.Errorf("encoding block style: %w", err)
	}
	return string(data), nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

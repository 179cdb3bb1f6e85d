package render

import (
	"testing"

	"dpc/page"
)

type commitRecord struct {
	field Field
	value string
}

func TestTextEditorCommitOnBlur(t *testing.T) {
	var commits []commitRecord
	e := NewTextEditor(func(f Field, v string) {
		commits = append(commits, commitRecord{f, v})
	})

	e.Begin(FieldTitle, "old title")
	e.Input("new title")
	e.Blur()

	if len(commits) != 1 || commits[0] != (commitRecord{FieldTitle, "new title"}) {
		t.Fatalf("commits: %v", commits)
	}
	if _, editing := e.Editing(); editing {
		t.Error("expected idle after blur")
	}
}

func TestTextEditorSwitchCommitsFirst(t *testing.T) {
	var commits []commitRecord
	e := NewTextEditor(func(f Field, v string) {
		commits = append(commits, commitRecord{f, v})
	})

	e.Begin(FieldTitle, "t")
	e.Input("t2")
	e.Begin(FieldBody, "b")

	if len(commits) != 1 || commits[0] != (commitRecord{FieldTitle, "t2"}) {
		t.Fatalf("switching fields must commit the first: %v", commits)
	}
	if f, editing := e.Editing(); !editing || f != FieldBody {
		t.Errorf("expected editing body, got %v/%v", f, editing)
	}

	// Re-entering the active field is a no-op, no double commit.
	e.Begin(FieldBody, "ignored")
	if len(commits) != 1 {
		t.Errorf("re-enter must not commit: %v", commits)
	}
}

func TestTextEditorEnterSemantics(t *testing.T) {
	var commits []commitRecord
	e := NewTextEditor(func(f Field, v string) {
		commits = append(commits, commitRecord{f, v})
	})

	// Enter commits single-line fields.
	e.Begin(FieldSubtitle, "s")
	e.Enter()
	if len(commits) != 1 {
		t.Fatalf("enter on subtitle must commit: %v", commits)
	}

	// Enter is ignored for the multi-line body.
	e.Begin(FieldBody, "line1")
	e.Input("line1\nline2")
	e.Enter()
	if len(commits) != 1 {
		t.Fatalf("enter on body must not commit: %v", commits)
	}
	if _, editing := e.Editing(); !editing {
		t.Error("body must stay in editing after enter")
	}
	e.Blur()
	if len(commits) != 2 || commits[1].value != "line1\nline2" {
		t.Fatalf("blur on body: %v", commits)
	}
}

func TestTextEditorCancel(t *testing.T) {
	var commits []commitRecord
	e := NewTextEditor(func(f Field, v string) {
		commits = append(commits, commitRecord{f, v})
	})

	e.Begin(FieldTitle, "t")
	e.Input("changed")
	e.Cancel()

	if len(commits) != 0 {
		t.Errorf("cancel must not commit: %v", commits)
	}
	if _, editing := e.Editing(); editing {
		t.Error("expected idle after cancel")
	}
}

func TestDragOffsets(t *testing.T) {
	var d Drag

	if d.Dragging() {
		t.Fatal("fresh drag must be idle")
	}

	d.Begin(100, 100, page.Offset{X: 5, Y: -5})
	if !d.Dragging() {
		t.Fatal("expected dragging after begin")
	}

	live := d.Move(120, 90)
	if live != (page.Offset{X: 25, Y: -15}) {
		t.Errorf("live offset: got %+v", live)
	}

	final := d.End(125, 85)
	if final != (page.Offset{X: 30, Y: -20}) {
		t.Errorf("final offset: got %+v", final)
	}
	if d.Dragging() {
		t.Error("expected idle after end")
	}

	// Movement after release does not change the offset.
	if after := d.Move(999, 999); after != final {
		t.Errorf("post-release move changed offset: %+v", after)
	}
}

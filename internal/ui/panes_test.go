package ui

import "testing"

func TestCursorList_MoveClamps(t *testing.T) {
	var c cursorList

	c.move(5, 3)
	if c.cursor != 2 {
		t.Fatalf("cursor = %d, want 2 (clamped to last row)", c.cursor)
	}

	c.move(-10, 3)
	if c.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", c.cursor)
	}

	c.bottom(10)
	if c.cursor != 9 {
		t.Fatalf("bottom: cursor = %d, want 9", c.cursor)
	}

	c.top()
	if c.cursor != 0 || c.offset != 0 {
		t.Fatalf("top: cursor=%d offset=%d, want 0 0", c.cursor, c.offset)
	}
}

func TestCursorList_WindowFollowsCursor(t *testing.T) {
	var c cursorList
	total, height := 20, 5

	start, end := c.window(total, height)
	if start != 0 || end != 5 {
		t.Fatalf("initial window = [%d,%d), want [0,5)", start, end)
	}

	// Moving below the window scrolls it down just enough.
	c.cursor = 7
	start, end = c.window(total, height)
	if start != 3 || end != 8 {
		t.Fatalf("window = [%d,%d), want [3,8)", start, end)
	}

	// Moving back above the window scrolls it up.
	c.cursor = 1
	start, end = c.window(total, height)
	if start != 1 || end != 6 {
		t.Fatalf("window = [%d,%d), want [1,6)", start, end)
	}

	// Last row keeps a full window.
	c.cursor = 19
	start, end = c.window(total, height)
	if start != 15 || end != 20 {
		t.Fatalf("window = [%d,%d), want [15,20)", start, end)
	}
}

func TestCursorList_WindowShortList(t *testing.T) {
	c := cursorList{cursor: 1}
	start, end := c.window(2, 10)
	if start != 0 || end != 2 {
		t.Fatalf("window = [%d,%d), want [0,2)", start, end)
	}
}

func TestCursorList_ClampAfterShrink(t *testing.T) {
	c := cursorList{cursor: 9, offset: 5}
	c.clamp(3)
	if c.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", c.cursor)
	}
	if c.offset > c.cursor {
		t.Fatalf("offset = %d leaks past cursor %d", c.offset, c.cursor)
	}
}

func TestCursorList_ClampEmpty(t *testing.T) {
	c := cursorList{cursor: 4, offset: 2}
	c.clamp(0)
	if c.cursor != 0 || c.offset != 0 {
		t.Fatalf("clamp(0): cursor=%d offset=%d, want 0 0", c.cursor, c.offset)
	}
}

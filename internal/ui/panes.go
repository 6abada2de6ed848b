package ui

// cursorList is the cursor and scroll arithmetic shared by the list
// panes. The window keeps the cursor visible and sticks to the top
// until the list outgrows the pane.
type cursorList struct {
	cursor int
	offset int
}

func (c *cursorList) move(delta, total int) {
	c.cursor += delta
	c.clamp(total)
}

func (c *cursorList) top() {
	c.cursor = 0
	c.offset = 0
}

func (c *cursorList) bottom(total int) {
	c.cursor = total - 1
	c.clamp(total)
}

func (c *cursorList) clamp(total int) {
	if c.cursor >= total {
		c.cursor = total - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
	if c.offset > c.cursor {
		c.offset = c.cursor
	}
}

// window returns the visible slice bounds for a pane of the given
// height, adjusting the scroll offset to keep the cursor on screen.
func (c *cursorList) window(total, height int) (start, end int) {
	if height < 1 {
		height = 1
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+height {
		c.offset = c.cursor - height + 1
	}
	if c.offset < 0 {
		c.offset = 0
	}
	start = c.offset
	end = start + height
	if end > total {
		end = total
	}
	return start, end
}

// moveCursor routes a cursor action to the active pane's list.
func (m *Model) moveCursor(action string) {
	list, total := m.activeList()
	if list == nil {
		return
	}

	page := m.paneHeight() / 2
	if page < 1 {
		page = 1
	}

	switch action {
	case "cursor.down":
		list.move(1, total)
	case "cursor.up":
		list.move(-1, total)
	case "cursor.top":
		list.top()
	case "cursor.bottom":
		list.bottom(total)
	case "cursor.halfpage.down":
		list.move(page, total)
	case "cursor.halfpage.up":
		list.move(-page, total)
	}
}

// activeList returns the cursor state and row count of the focused
// pane. Panes without a cursor return nil.
func (m *Model) activeList() (*cursorList, int) {
	if m.modal != nil {
		return m.modal.list()
	}
	switch m.currentTab() {
	case "queue":
		return &m.queuePane.cursorList, len(m.queue)
	case "browser":
		return &m.browserPane.cursorList, len(m.browserPane.entries)
	case "search":
		return &m.searchPane.cursorList, len(m.searchPane.results)
	case "playlists":
		return &m.playlistsPane.cursorList, len(m.playlistsPane.lists)
	default:
		return nil, 0
	}
}

package blockterm

import (
	"sync"
)

// BlockNavigator tracks a position in the block index plus a browsing
// history, so a frontend can implement back/forward movement and named
// bookmarks over blocks. It holds no block data itself; blocks are
// resolved through the manager on every call, so navigation stays
// correct as new blocks are finalized.
type BlockNavigator struct {
	mu      sync.Mutex
	manager *BlockManager

	history   []int // visited block IDs, including the current one
	position  int   // index into history, -1 before any visit
	bookmarks map[string]int
}

// NewBlockNavigator creates a navigator over the given manager.
func NewBlockNavigator(manager *BlockManager) *BlockNavigator {
	return &BlockNavigator{
		manager:   manager,
		position:  -1,
		bookmarks: make(map[string]int),
	}
}

// Current returns the block the navigator points at. It returns false
// before the first visit, or if the current block no longer resolves.
func (n *BlockNavigator) Current() (Block, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.position < 0 {
		return Block{}, false
	}
	return n.manager.Block(n.history[n.position])
}

// SetCurrent visits the block with the given ID. Visiting truncates
// any forward history, like a browser. Returns false if no such block
// exists.
func (n *BlockNavigator) SetCurrent(id int) bool {
	if _, ok := n.manager.Block(id); !ok {
		return false
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.visitLocked(id)
	return true
}

// GoBack moves one step back in the visit history.
func (n *BlockNavigator) GoBack() (Block, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.position <= 0 {
		return Block{}, false
	}
	n.position--
	return n.manager.Block(n.history[n.position])
}

// GoForward moves one step forward in the visit history.
func (n *BlockNavigator) GoForward() (Block, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.position < 0 || n.position >= len(n.history)-1 {
		return Block{}, false
	}
	n.position++
	return n.manager.Block(n.history[n.position])
}

// Prev visits the block before the current one in the index.
func (n *BlockNavigator) Prev() (Block, bool) {
	return n.navigate(NavigatePrevious)
}

// Next visits the block after the current one in the index.
func (n *BlockNavigator) Next() (Block, bool) {
	return n.navigate(NavigateNext)
}

// First visits the oldest block.
func (n *BlockNavigator) First() (Block, bool) {
	return n.navigate(NavigateFirst)
}

// Last visits the newest block.
func (n *BlockNavigator) Last() (Block, bool) {
	return n.navigate(NavigateLast)
}

func (n *BlockNavigator) navigate(dir NavigateDirection) (Block, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	current := 0
	if n.position >= 0 {
		current = n.history[n.position]
	}

	b, ok := n.manager.Navigate(current, dir)
	if !ok {
		return Block{}, false
	}
	n.visitLocked(b.ID)
	return b, true
}

// Bookmark names the current position. Returns false before the first
// visit.
func (n *BlockNavigator) Bookmark(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.position < 0 {
		return false
	}
	n.bookmarks[name] = n.history[n.position]
	return true
}

// GoToBookmark visits a named bookmark. Returns false if the name is
// unknown or its block no longer resolves.
func (n *BlockNavigator) GoToBookmark(name string) (Block, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id, ok := n.bookmarks[name]
	if !ok {
		return Block{}, false
	}

	b, ok := n.manager.Block(id)
	if !ok {
		return Block{}, false
	}
	n.visitLocked(id)
	return b, true
}

// Bookmarks returns a copy of the bookmark table.
func (n *BlockNavigator) Bookmarks() map[string]int {
	n.mu.Lock()
	defer n.mu.Unlock()

	bookmarks := make(map[string]int, len(n.bookmarks))
	for name, id := range n.bookmarks {
		bookmarks[name] = id
	}
	return bookmarks
}

// visitLocked records a visit, truncating forward history.
func (n *BlockNavigator) visitLocked(id int) {
	if n.position >= 0 && n.history[n.position] == id {
		return
	}
	n.history = append(n.history[:n.position+1], id)
	n.position = len(n.history) - 1
}

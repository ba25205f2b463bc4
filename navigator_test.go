package blockterm

import (
	"fmt"
	"testing"
)

// navigatorFixture feeds three completed hook-mode blocks so tests can
// move between them by ID 1..3.
func navigatorFixture() (*blockFixture, *BlockNavigator) {
	f := newBlockFixture(24, 80)
	for i := 1; i <= 3; i++ {
		f.feed(fmt.Sprintf("\x1b]133;A\x07$ \x1b]133;B\x07cmd%d\r\n\x1b]133;C\x07out%d\r\n\x1b]133;D;0\x07", i, i))
	}
	return f, NewBlockNavigator(f.manager)
}

func TestNavigatorInitialState(t *testing.T) {
	_, nav := navigatorFixture()

	if _, ok := nav.Current(); ok {
		t.Error("expected no current block before first visit")
	}
	if _, ok := nav.GoBack(); ok {
		t.Error("expected GoBack to fail before first visit")
	}
	if _, ok := nav.GoForward(); ok {
		t.Error("expected GoForward to fail before first visit")
	}
	if nav.Bookmark("home") {
		t.Error("expected Bookmark to fail before first visit")
	}
}

func TestNavigatorSetCurrent(t *testing.T) {
	_, nav := navigatorFixture()

	if !nav.SetCurrent(2) {
		t.Fatal("expected SetCurrent(2) to succeed")
	}

	block, ok := nav.Current()
	if !ok {
		t.Fatal("expected current block")
	}
	if block.ID != 2 {
		t.Errorf("expected block 2, got %d", block.ID)
	}

	if nav.SetCurrent(99) {
		t.Error("expected SetCurrent(99) to fail for unknown block")
	}
}

func TestNavigatorBackForward(t *testing.T) {
	_, nav := navigatorFixture()

	nav.SetCurrent(1)
	nav.SetCurrent(2)
	nav.SetCurrent(3)

	block, ok := nav.GoBack()
	if !ok || block.ID != 2 {
		t.Fatalf("expected back to block 2, got %d (ok=%v)", block.ID, ok)
	}

	block, ok = nav.GoBack()
	if !ok || block.ID != 1 {
		t.Fatalf("expected back to block 1, got %d", block.ID)
	}

	if _, ok = nav.GoBack(); ok {
		t.Error("expected GoBack to fail at history start")
	}

	block, ok = nav.GoForward()
	if !ok || block.ID != 2 {
		t.Fatalf("expected forward to block 2, got %d", block.ID)
	}

	block, ok = nav.GoForward()
	if !ok || block.ID != 3 {
		t.Fatalf("expected forward to block 3, got %d", block.ID)
	}

	if _, ok = nav.GoForward(); ok {
		t.Error("expected GoForward to fail at history end")
	}
}

func TestNavigatorVisitTruncatesForward(t *testing.T) {
	_, nav := navigatorFixture()

	nav.SetCurrent(1)
	nav.SetCurrent(2)
	nav.SetCurrent(3)

	// Go back to 2, then branch off by visiting 1
	if block, ok := nav.GoBack(); !ok || block.ID != 2 {
		t.Fatalf("expected back to block 2, got %d", block.ID)
	}
	nav.SetCurrent(1)

	// Forward history to 3 is gone
	if _, ok := nav.GoForward(); ok {
		t.Error("expected forward history to be truncated")
	}
	if block, ok := nav.GoBack(); !ok || block.ID != 2 {
		t.Errorf("expected back to block 2 after branching, got %d", block.ID)
	}
}

func TestNavigatorRevisitSameBlock(t *testing.T) {
	_, nav := navigatorFixture()

	nav.SetCurrent(2)
	nav.SetCurrent(2)

	// Re-visiting the current block must not grow history
	if _, ok := nav.GoBack(); ok {
		t.Error("expected no back history after revisiting the same block")
	}
}

func TestNavigatorFirstLast(t *testing.T) {
	_, nav := navigatorFixture()

	block, ok := nav.First()
	if !ok || block.ID != 1 {
		t.Fatalf("expected first block 1, got %d", block.ID)
	}

	block, ok = nav.Last()
	if !ok || block.ID != 3 {
		t.Fatalf("expected last block 3, got %d", block.ID)
	}

	// First and Last are visits: back returns to block 1
	block, ok = nav.GoBack()
	if !ok || block.ID != 1 {
		t.Errorf("expected back to block 1, got %d", block.ID)
	}
}

func TestNavigatorPrevNext(t *testing.T) {
	_, nav := navigatorFixture()

	nav.SetCurrent(2)

	block, ok := nav.Prev()
	if !ok || block.ID != 1 {
		t.Fatalf("expected previous block 1, got %d", block.ID)
	}

	block, ok = nav.Next()
	if !ok || block.ID != 2 {
		t.Fatalf("expected next block 2, got %d", block.ID)
	}

	block, ok = nav.Next()
	if !ok || block.ID != 3 {
		t.Fatalf("expected next block 3, got %d", block.ID)
	}

	if _, ok = nav.Next(); ok {
		t.Error("expected Next to fail at the newest block")
	}
}

func TestNavigatorPrevWithoutCurrent(t *testing.T) {
	_, nav := navigatorFixture()

	// Without a current block, Prev lands on the newest block
	block, ok := nav.Prev()
	if !ok || block.ID != 3 {
		t.Errorf("expected newest block 3, got %d", block.ID)
	}
}

func TestNavigatorBookmarks(t *testing.T) {
	_, nav := navigatorFixture()

	nav.SetCurrent(2)
	if !nav.Bookmark("checkpoint") {
		t.Fatal("expected Bookmark to succeed")
	}
	nav.SetCurrent(3)

	block, ok := nav.GoToBookmark("checkpoint")
	if !ok || block.ID != 2 {
		t.Fatalf("expected bookmark at block 2, got %d", block.ID)
	}

	if _, ok = nav.GoToBookmark("missing"); ok {
		t.Error("expected unknown bookmark to fail")
	}

	bookmarks := nav.Bookmarks()
	if bookmarks["checkpoint"] != 2 {
		t.Errorf("expected bookmark table entry 2, got %d", bookmarks["checkpoint"])
	}

	// Returned table is a copy
	bookmarks["checkpoint"] = 99
	if block, _ := nav.GoToBookmark("checkpoint"); block.ID != 2 {
		t.Error("expected bookmark table mutation to not affect navigator")
	}
}

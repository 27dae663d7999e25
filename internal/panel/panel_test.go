package panel

import "testing"

func TestOpenReplacesContent(t *testing.T) {
	p := New()

	p.OpenBook(BookDetail{ID: "first", Title: "First Book"})
	p.OpenBook(BookDetail{ID: "second", Title: "Second Book"})

	content := p.Content()
	if content == nil || content.Kind != KindBookDetail {
		t.Fatalf("content kind = %v, expected %v", content, KindBookDetail)
	}
	if content.Book.ID != "second" {
		t.Errorf("content book = %q, expected second; open must replace, not stack", content.Book.ID)
	}
	if !p.IsOpen() {
		t.Error("panel should be open")
	}
}

func TestOpenWhileOpenReplacesUnconditionally(t *testing.T) {
	p := New()

	p.OpenBook(BookDetail{ID: "book"})
	p.OpenNotice("Unable to load book details. Please try again.")

	content := p.Content()
	if content.Kind != KindErrorNotice {
		t.Fatalf("content kind = %q, expected %q", content.Kind, KindErrorNotice)
	}
	if content.Notice == nil || content.Notice.Message == "" {
		t.Error("notice content missing")
	}
	if content.Book != nil {
		t.Error("replaced content must not retain the previous book")
	}
}

func TestCloseRetainsContent(t *testing.T) {
	p := New()

	p.OpenBook(BookDetail{ID: "book", Title: "A Book"})
	p.Close()

	if p.IsOpen() {
		t.Error("panel should be closed")
	}
	content := p.Content()
	if content == nil || content.Book == nil || content.Book.ID != "book" {
		t.Error("close must retain content for the exit transition")
	}
}

func TestReopenAfterClose(t *testing.T) {
	p := New()

	p.OpenBook(BookDetail{ID: "one"})
	p.Close()
	p.OpenBook(BookDetail{ID: "two"})

	if !p.IsOpen() {
		t.Error("panel should be open")
	}
	if p.Content().Book.ID != "two" {
		t.Errorf("content = %q, expected two", p.Content().Book.ID)
	}
}

func TestNewPanelIsClosedAndEmpty(t *testing.T) {
	p := New()

	if p.IsOpen() {
		t.Error("new panel should be closed")
	}
	if p.Content() != nil {
		t.Error("new panel should have no content")
	}
}

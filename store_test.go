package inkpress

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetPost(t *testing.T) {
	s := setupTestStore(t)

	post := BlogPost{
		Slug:      "test-post",
		Title:     "Test Post",
		Date:      "2024-01-15",
		Tags:      []string{"go", "testing"},
		Summary:   "A test post summary",
		Content:   "# Test Content\n\nThis is test content.",
		Published: true,
	}
	if err := s.SavePost(post); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	got, err := s.GetPost("test-post")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Slug != post.Slug {
		t.Errorf("Slug = %q, want %q", got.Slug, post.Slug)
	}
	if got.Title != post.Title {
		t.Errorf("Title = %q, want %q", got.Title, post.Title)
	}
	if got.Content != post.Content {
		t.Errorf("Content = %q, want %q", got.Content, post.Content)
	}
	if got.Link != "/blog/test-post" {
		t.Errorf("Link = %q, want %q", got.Link, "/blog/test-post")
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "testing" {
		t.Errorf("Tags = %v, want [go testing]", got.Tags)
	}
}

func TestGetPostHidesDrafts(t *testing.T) {
	s := setupTestStore(t)

	draft := BlogPost{Slug: "draft", Title: "Draft", Date: "2024-01-15", Published: false}
	if err := s.SavePost(draft); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	if _, err := s.GetPost("draft"); err != sql.ErrNoRows {
		t.Errorf("GetPost(draft) err = %v, want sql.ErrNoRows", err)
	}
	got, err := s.GetPostAny("draft")
	if err != nil {
		t.Fatalf("GetPostAny failed: %v", err)
	}
	if got.Published {
		t.Error("draft should not be published")
	}
}

func TestListPostsOrderAndFilter(t *testing.T) {
	s := setupTestStore(t)

	posts := []BlogPost{
		{Slug: "old", Title: "Old", Date: "2023-01-01", Tags: []string{"go"}, Published: true},
		{Slug: "new", Title: "New", Date: "2024-06-01", Tags: []string{"rails"}, Published: true},
		{Slug: "draft", Title: "Draft", Date: "2024-07-01", Published: false},
	}
	for _, p := range posts {
		if err := s.SavePost(p); err != nil {
			t.Fatalf("SavePost(%s) failed: %v", p.Slug, err)
		}
	}

	all, err := s.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ListPosts returned %d posts, want 2 (drafts excluded)", len(all))
	}
	if all[0].Slug != "new" || all[1].Slug != "old" {
		t.Errorf("posts not ordered by date descending: %v, %v", all[0].Slug, all[1].Slug)
	}

	tagged, err := s.ListPosts("rails")
	if err != nil {
		t.Fatalf("ListPosts(rails) failed: %v", err)
	}
	if len(tagged) != 1 || tagged[0].Slug != "new" {
		t.Errorf("tag filter returned %v", tagged)
	}
}

func TestListTags(t *testing.T) {
	s := setupTestStore(t)

	posts := []BlogPost{
		{Slug: "a", Title: "A", Date: "2024-01-01", Tags: []string{"Go", "web"}, Published: true},
		{Slug: "b", Title: "B", Date: "2024-01-02", Tags: []string{"go", "rails"}, Published: true},
	}
	for _, p := range posts {
		if err := s.SavePost(p); err != nil {
			t.Fatalf("SavePost failed: %v", err)
		}
	}

	tags, err := s.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	want := []string{"go", "rails", "web"}
	if len(tags) != len(want) {
		t.Fatalf("ListTags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("ListTags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestDeletePost(t *testing.T) {
	s := setupTestStore(t)

	if err := s.SavePost(BlogPost{Slug: "gone", Title: "Gone", Date: "2024-01-01", Published: true}); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	if err := s.DeletePost("gone"); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetPostAny("gone"); err != sql.ErrNoRows {
		t.Errorf("GetPostAny after delete err = %v, want sql.ErrNoRows", err)
	}
}

func TestSaveAndListImages(t *testing.T) {
	s := setupTestStore(t)

	images := []Image{
		{Filename: "first.jpg", OriginalName: "First.png", Width: 800, Height: 600, Size: 1234, UploadedAt: "2024-01-01T10:00:00Z"},
		{Filename: "second.jpg", OriginalName: "Second.png", Width: 640, Height: 480, Size: 999, UploadedAt: "2024-02-01T10:00:00Z"},
	}
	for _, img := range images {
		if err := s.SaveImage(img); err != nil {
			t.Fatalf("SaveImage failed: %v", err)
		}
	}

	got, err := s.ListImages()
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListImages returned %d images, want 2", len(got))
	}
	if got[0].Filename != "second.jpg" {
		t.Errorf("images not ordered newest first: %+v", got)
	}

	if err := s.DeleteImage("first.jpg"); err != nil {
		t.Fatalf("DeleteImage failed: %v", err)
	}
	got, err = s.ListImages()
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(got) != 1 || got[0].Filename != "second.jpg" {
		t.Errorf("unexpected images after delete: %+v", got)
	}
}

package links

import (
	"strings"
	"testing"
)

func TestIsExternal(t *testing.T) {
	c := NewClassifier("https://example.com")
	tests := []struct {
		href string
		want bool
	}{
		{"https://other.com/page", true},
		{"/about", false},
		{"mailto:someone@example.com", false},
		{"", false},
		{"javascript:void(0)", false},
		{"https://example.com/blog/post/", false},
		{"http://example.com/blog/", false},           // scheme ignored
		{"https://example.com:8080/admin/", false},    // port ignored
		{"//cdn.other.com/lib.js", true},              // protocol-relative
		{"#top", false},                               // fragment only
		{"?tag=go", false},                            // query only
		{"https://sub.example.com/", true},            // subdomain is a different hostname
		{"https://EXAMPLE.com/", true},                // comparison is case-sensitive
		{"ftp://files.other.com/f.tar.gz", true},      // non-http scheme with a foreign host
		{"://not a url", false},                       // unparseable falls through the guards
	}
	for _, tt := range tests {
		if got := c.IsExternal(tt.href); got != tt.want {
			t.Errorf("IsExternal(%q) = %v, want %v", tt.href, got, tt.want)
		}
	}
}

func TestNewClassifierAcceptsBareHostname(t *testing.T) {
	c := NewClassifier("example.com")
	if c.IsExternal("https://example.com/page") {
		t.Error("same hostname should not be external when site is a bare hostname")
	}
	if !c.IsExternal("https://other.com/page") {
		t.Error("different hostname should be external when site is a bare hostname")
	}
}

func TestHostname(t *testing.T) {
	tests := []struct {
		site string
		want string
	}{
		{"https://example.com", "example.com"},
		{"https://example.com:3000/blog/", "example.com"},
		{"http://localhost:3000", "localhost"},
		{"example.com", "example.com"},
		{" example.com ", "example.com"},
	}
	for _, tt := range tests {
		if got := Hostname(tt.site); got != tt.want {
			t.Errorf("Hostname(%q) = %q, want %q", tt.site, got, tt.want)
		}
	}
}

func TestRewriteSetsTargetOnExternalAnchors(t *testing.T) {
	c := NewClassifier("https://example.com")
	in := `<p><a href="https://other.com/page">out</a> and <a href="/about">in</a></p>`
	got, err := c.Rewrite(in)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if !strings.Contains(got, `href="https://other.com/page" target="_blank" rel="noopener noreferrer"`) {
		t.Errorf("external anchor not rewritten: %q", got)
	}
	if strings.Contains(got, `href="/about" target`) {
		t.Errorf("internal anchor must not be rewritten: %q", got)
	}
}

func TestRewriteLeavesGuardedSchemesAlone(t *testing.T) {
	c := NewClassifier("https://example.com")
	tests := []string{
		`<a href="mailto:someone@example.com">mail</a>`,
		`<a href="javascript:void(0)">js</a>`,
		`<a href="">empty</a>`,
		`<a name="anchor-without-href">plain</a>`,
	}
	for _, in := range tests {
		got, err := c.Rewrite(in)
		if err != nil {
			t.Fatalf("Rewrite(%q) failed: %v", in, err)
		}
		if strings.Contains(got, "target=") {
			t.Errorf("Rewrite(%q) must not set a target attribute, got %q", in, got)
		}
		if strings.Contains(got, "noopener") {
			t.Errorf("Rewrite(%q) must not set a rel attribute, got %q", in, got)
		}
	}
}

func TestRewriteIsIdempotent(t *testing.T) {
	c := NewClassifier("https://example.com")
	in := `<p><a href="https://other.com/a">a</a><a href="/b">b</a><a href="mailto:x@y.z">c</a></p>`
	once, err := c.Rewrite(in)
	if err != nil {
		t.Fatalf("first Rewrite failed: %v", err)
	}
	twice, err := c.Rewrite(once)
	if err != nil {
		t.Fatalf("second Rewrite failed: %v", err)
	}
	if once != twice {
		t.Errorf("Rewrite is not idempotent:\n once:  %q\n twice: %q", once, twice)
	}
}

func TestRewritePreservesSurroundingMarkup(t *testing.T) {
	c := NewClassifier("https://example.com")
	in := `<h2>Heading</h2><p>text <code>snippet</code> <a href="https://other.com/">x</a></p>`
	got, err := c.Rewrite(in)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	for _, want := range []string{"<h2>Heading</h2>", "<code>snippet</code>"} {
		if !strings.Contains(got, want) {
			t.Errorf("Rewrite dropped markup %q: %q", want, got)
		}
	}
}

func TestExternalHrefs(t *testing.T) {
	c := NewClassifier("https://example.com")
	in := `<p>
		<a href="https://other.com/a">1</a>
		<a href="/local">2</a>
		<a href="https://other.com/a">dup</a>
		<a href="https://third.org/b">3</a>
		<a href="mailto:x@y.z">4</a>
	</p>`
	got, err := c.ExternalHrefs(in)
	if err != nil {
		t.Fatalf("ExternalHrefs failed: %v", err)
	}
	want := []string{"https://other.com/a", "https://third.org/b"}
	if len(got) != len(want) {
		t.Fatalf("ExternalHrefs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ExternalHrefs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

package fields

import "testing"

func TestStripTags(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"<b>bold</b>", "bold"},
		{"a <script>evil()</script> b", "a evil() b"},
		{"nested <p><i>x</i></p>", "nested x"},
		{"unterminated <b rest", "unterminated "},
		{"", ""},
	}
	for _, tc := range cases {
		if got := StripTags(tc.in); got != tc.want {
			t.Fatalf("StripTags(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeMarkup(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"<b>keep</b>", "<b>keep</b>"},
		{"<B>case</B>", "<b>case</b>"},
		{`<b class="x">attrs dropped</b>`, "<b>attrs dropped</b>"},
		{"<script>x()</script>kept text", "x()kept text"},
		{"<p>a<br/>b</p>", "<p>a<br>b</p>"},
		{"broken <b", "broken "},
		{"<ul><li>one</li></ul>", "<ul><li>one</li></ul>"},
		{"<div><em>em ok</em></div>", "<em>em ok</em>"},
	}
	for _, tc := range cases {
		if got := SanitizeMarkup(tc.in); got != tc.want {
			t.Fatalf("SanitizeMarkup(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeMarkupIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`<p>hi <b class="x">there</b></p>`,
		"<script>bad</script><ul><li>ok</li></ul>",
		"text with < and no close",
	}
	for _, in := range inputs {
		once := SanitizeMarkup(in)
		if twice := SanitizeMarkup(once); twice != once {
			t.Fatalf("not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

package lang

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// astComparer ignores source positions, which canonical formatting does not
// preserve.
var astComparer = []cmp.Option{
	cmpopts.IgnoreFields(Node{}, "Line", "Column"),
}

func TestFormat_Canonical(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{"let x=1+2", "let x = 1 + 2"},
		{"let  s =  'hi'", `let s = "hi"`},
		{"1+2*3", "1 + 2 * 3"},
		{"(1+2)*3", "(1 + 2) * 3"},
		{"x=>x*2", "x => x * 2"},
		{"(a,b)=>a+b", "(a, b) => a + b"},
		{"data|map(f)", "data | map(f)"},
		{"[1,2,3]", "[1, 2, 3]"},
		{"{a:1,b:2}", "{ a: 1, b: 2 }"},
		{"!x", "!x"},
		{"-(a+b)", "-(a + b)"},
		{"list[0].name", "list[0].name"},
	}

	for _, tc := range tests {
		prog := mustParse(t, tc.source)

		if got := Format(prog); got != tc.expected {
			t.Errorf("Format(%q) = %q, expected %q", tc.source, got, tc.expected)
		}
	}
}

func TestFormat_Statements(t *testing.T) {
	source := "fn double(x){return x*2}\nlet y=double(4)"

	expected := "fn double(x) {\n  return x * 2\n}\nlet y = double(4)"

	prog := mustParse(t, source)

	if got := Format(prog); got != expected {
		t.Errorf("Format mismatch:\ngot:\n%s\nexpected:\n%s", got, expected)
	}
}

func TestFormat_IfElse(t *testing.T) {
	source := "if x>0{print(\"pos\")}else{print(\"neg\")}"

	expected := "if x > 0 {\n  print(\"pos\")\n} else {\n  print(\"neg\")\n}"

	prog := mustParse(t, source)

	if got := Format(prog); got != expected {
		t.Errorf("Format mismatch:\ngot:\n%s\nexpected:\n%s", got, expected)
	}
}

// Formatting then reparsing must yield a structurally identical tree.
func TestFormat_Stable(t *testing.T) {
	sources := []string{
		"let x = 1 + 2 * 3",
		"fn f(a, b) {\n  return a + b\n}",
		"data | filter(x => x > 0) | map(x => x * x)",
		"if a && b || c {\n  1\n} else if d {\n  2\n} else {\n  3\n}",
		`{ name: "hush", tags: [1, 2], nested: { ok: true } }`,
		"!(a == b) != (c >= d)",
		"files.sort(f => f.size).reverse()",
		"list[i + 1][0]",
		"str(x) + \"\\n\" + str(y)",
	}

	for _, source := range sources {
		first := mustParse(t, source)

		formatted := Format(first)

		second, err := Parse(formatted)
		if err != nil {
			t.Errorf("reparse of Format(%q) failed: %v\nformatted: %s",
				source, err, formatted)

			continue
		}

		if diff := cmp.Diff(first, second, astComparer...); diff != "" {
			t.Errorf("Format(%q) not stable (-first +reparsed):\n%s",
				source, diff)
		}

		if again := Format(second); again != formatted {
			t.Errorf("Format not idempotent for %q:\n%s\nvs\n%s",
				source, formatted, again)
		}
	}
}

func TestFormat_QuoteEscapes(t *testing.T) {
	prog := mustParse(t, `let s = "line\nwith \"quotes\" and\ttab"`)

	expected := `let s = "line\nwith \"quotes\" and\ttab"`

	if got := Format(prog); got != expected {
		t.Errorf("Format = %q, expected %q", got, expected)
	}
}

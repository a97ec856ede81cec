package style

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func newTestCompiler(t *testing.T) *Compiler {
	t.Helper()
	return NewCompiler(zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))))
}

// ruleAt returns i-th rule of the set in declaration order.
func ruleAt(t *testing.T, rs *RuleSet, i int) Rule {
	t.Helper()
	for j, r := range rs.All() {
		if j == i {
			return r
		}
	}
	t.Fatalf("no rule %d in set of %d", i, rs.Len())
	return Rule{}
}

func TestCompile_SingleStatements(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		trigger   string
		alias     string
		behaviors []Behavior
		prefix    string
		suffix    string
	}{
		{
			name:    "plain",
			src:     "h1 { <h1>{{content}}</h1> }",
			trigger: "h1",
			prefix:  "<h1>",
			suffix:  "</h1>",
		},
		{
			name:    "alias separated",
			src:     "h1 : heading { <h1>{{content}}</h1> }",
			trigger: "h1",
			alias:   "heading",
			prefix:  "<h1>",
			suffix:  "</h1>",
		},
		{
			name:    "alias glued",
			src:     "h2 :subheading { <h2>{{content}}</h2> }",
			trigger: "h2",
			alias:   "subheading",
			prefix:  "<h2>",
			suffix:  "</h2>",
		},
		{
			name:      "recursive glued",
			src:       "b /recursive { <b>{{content}}</b> }",
			trigger:   "b",
			behaviors: []Behavior{{Kind: KindRecursive}},
			prefix:    "<b>",
			suffix:    "</b>",
		},
		{
			name:      "recursive separated",
			src:       "p / recursive { <p>{{content}}</p> }",
			trigger:   "p",
			behaviors: []Behavior{{Kind: KindRecursive}},
			prefix:    "<p>",
			suffix:    "</p>",
		},
		{
			name:      "until",
			src:       "* /until * { <em>{{content}}</em> }",
			trigger:   "*",
			behaviors: []Behavior{{Kind: KindUntil, Closing: "*"}},
			prefix:    "<em>",
			suffix:    "</em>",
		},
		{
			name:      "recursive with until",
			src:       "quote : q /recursive /until ;; { <blockquote>{{content}}</blockquote> }",
			trigger:   "quote",
			alias:     "q",
			behaviors: []Behavior{{Kind: KindRecursive}, {Kind: KindUntil, Closing: ";;"}},
			prefix:    "<blockquote>",
			suffix:    "</blockquote>",
		},
		{
			name:      "until with recursive",
			src:       "_ /until _ /recursive { <u>{{content}}</u> }",
			trigger:   "_",
			behaviors: []Behavior{{Kind: KindUntil, Closing: "_"}, {Kind: KindRecursive}},
			prefix:    "<u>",
			suffix:    "</u>",
		},
		{
			name:      "new line ignores suffix",
			src:       "// /new-line { <br/>{{content}}ignored }",
			trigger:   "//",
			behaviors: []Behavior{{Kind: KindNewLine}},
			prefix:    "<br/>",
		},
		{
			name:      "new line without placeholder",
			src:       "// /new-line { <br/> }",
			trigger:   "//",
			behaviors: []Behavior{{Kind: KindNewLine}},
			prefix:    "<br/>",
		},
		{
			name:      "interrupt without placeholder",
			src:       "<!-- /interrupt { }",
			trigger:   "<!--",
			behaviors: []Behavior{{Kind: KindInterrupt}},
		},
		{
			name:      "interrupt with placeholder",
			src:       "END /interrupt { <footer>{{content}}</footer> }",
			trigger:   "END",
			behaviors: []Behavior{{Kind: KindInterrupt}},
			prefix:    "<footer>",
			suffix:    "</footer>",
		},
		{
			name:    "multiline body",
			src:     "p {\n<p class=\"x\">\n{{content}}\n</p>\n}\n",
			trigger: "p",
			prefix:  "<p class=\"x\">",
			suffix:  "</p>",
		},
		{
			name:    "no-break space inside trigger",
			src:     "x\u00a0y { <b>{{content}}</b> }",
			trigger: "x\u00a0y",
			prefix:  "<b>",
			suffix:  "</b>",
		},
		{
			name:    "stray tokens ignored",
			src:     "li something else { <li>{{content}}</li> }",
			trigger: "li",
			prefix:  "<li>",
			suffix:  "</li>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := newTestCompiler(t).Compile(tt.src)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			if rs.Len() < 1 {
				t.Fatalf("Compile() produced %d rules", rs.Len())
			}
			r := ruleAt(t, rs, 0)
			if r.Trigger != tt.trigger {
				t.Errorf("Trigger = %q, want %q", r.Trigger, tt.trigger)
			}
			if r.Alias != tt.alias {
				t.Errorf("Alias = %q, want %q", r.Alias, tt.alias)
			}
			if len(r.Behaviors) != len(tt.behaviors) {
				t.Fatalf("Behaviors = %v, want %v", r.Behaviors, tt.behaviors)
			}
			for i := range tt.behaviors {
				if r.Behaviors[i] != tt.behaviors[i] {
					t.Errorf("Behaviors[%d] = %v, want %v", i, r.Behaviors[i], tt.behaviors[i])
				}
			}
			if r.Prefix != tt.prefix {
				t.Errorf("Prefix = %q, want %q", r.Prefix, tt.prefix)
			}
			if r.Suffix != tt.suffix {
				t.Errorf("Suffix = %q, want %q", r.Suffix, tt.suffix)
			}
		})
	}
}

func TestCompile_Order(t *testing.T) {
	src := "h1 { <h1>{{content}}</h1> }\n\n" +
		"h1 : again { <h2>{{content}}</h2> }\n\n" +
		"b /recursive { <b>{{content}}</b> }\n\n" +
		"* /until * { <em>{{content}}</em> }\n"

	rs, err := newTestCompiler(t).Compile(src)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	want := []string{"h1", "h1", "b", "*", ForcedBreak}
	if rs.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", rs.Len(), len(want))
	}
	for i, r := range rs.All() {
		if r.Trigger != want[i] {
			t.Errorf("rule %d trigger = %q, want %q", i, r.Trigger, want[i])
		}
	}
	if ruleAt(t, rs, 1).Alias != "again" {
		t.Errorf("duplicate trigger should keep its own alias, got %q", ruleAt(t, rs, 1).Alias)
	}
}

func TestCompile_LineBreakInjection(t *testing.T) {
	t.Run("added when absent", func(t *testing.T) {
		rs, err := newTestCompiler(t).Compile("h1 { <h1>{{content}}</h1> }")
		if err != nil {
			t.Fatalf("Compile() error = %v", err)
		}
		if rs.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", rs.Len())
		}
		r := ruleAt(t, rs, 1)
		if !r.Synthetic || r.Trigger != ForcedBreak || r.Prefix != ForcedBreakHTML || r.Suffix != "" {
			t.Errorf("unexpected line break rule: %+v", r)
		}
		if r.Primary() != KindNewLine {
			t.Errorf("Primary() = %v, want %v", r.Primary(), KindNewLine)
		}
	})

	t.Run("suppressed when declared", func(t *testing.T) {
		rs, err := newTestCompiler(t).Compile("h1 { <h1>{{content}}</h1> }\n\n|| /new-line { <br> }")
		if err != nil {
			t.Fatalf("Compile() error = %v", err)
		}
		if rs.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", rs.Len())
		}
		for _, r := range rs.All() {
			if r.Synthetic {
				t.Errorf("unexpected synthetic rule %v", r)
			}
		}
	})

	t.Run("empty source", func(t *testing.T) {
		rs, err := newTestCompiler(t).Compile("\n\n")
		if err != nil {
			t.Fatalf("Compile() error = %v", err)
		}
		if rs.Len() != 1 || !ruleAt(t, rs, 0).Synthetic {
			t.Errorf("expected only synthetic rule, got %d rules", rs.Len())
		}
	})
}

func TestCompile_LineEndings(t *testing.T) {
	src := "h1 { <h1>{{content}}</h1> }\r\n\r\nh2 { <h2>{{content}}</h2> }\r\n"
	rs, err := newTestCompiler(t).Compile(src)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if rs.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", rs.Len())
	}
	if ruleAt(t, rs, 1).Trigger != "h2" || ruleAt(t, rs, 1).Suffix != "</h2>" {
		t.Errorf("unexpected second rule: %+v", ruleAt(t, rs, 1))
	}
}

func TestCompile_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"missing brace", "h1 <h1>content</h1>", ErrMissingBrace},
		{"missing trigger", "  { <h1>{{content}}</h1> }", ErrMissingTrigger},
		{"missing placeholder", "h1 { <h1></h1> }", ErrMissingPlaceholder},
		{"extra placeholder", "h1 { <h1>{{content}}{{content}}</h1> }", ErrExtraPlaceholder},
		{"unknown modifier", "h1 /bold { <h1>{{content}}</h1> }", ErrUnknownModifier},
		{"plain is not a modifier", "h1 /plain { <h1>{{content}}</h1> }", ErrUnknownModifier},
		{"until without argument", "* /until { <em>{{content}}</em> }", ErrMissingArgument},
		{"modifier without keyword", "* / { <em>{{content}}</em> }", ErrMissingArgument},
		{"alias without name", "h1 : { <h1>{{content}}</h1> }", ErrMissingArgument},
		{"duplicate modifier", "b /recursive /recursive { <b>{{content}}</b> }", ErrConflictingModifiers},
		{"conflicting modifiers", "b /interrupt /new-line { <b> }", ErrConflictingModifiers},
		{"recursive with interrupt", "b /recursive /interrupt { <b>{{content}}</b> }", ErrConflictingModifiers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := newTestCompiler(t).Compile(tt.src)
			if err == nil {
				t.Fatalf("Compile() expected error, got %d rules", rs.Len())
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Compile() error = %v, want %v", err, tt.want)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("Compile() error is not SyntaxError: %T", err)
			}
			if se.Statement != 1 {
				t.Errorf("Statement = %d, want 1", se.Statement)
			}
		})
	}
}

func TestCompile_AllErrorsReported(t *testing.T) {
	src := "h1 { <h1>{{content}}</h1> }\n\n" +
		"h2 <h2>content</h2> }\n\n" +
		"h3 /fancy { <h3>{{content}}</h3> }\n\n" +
		"h4 { <h4></h4> }"

	_, err := newTestCompiler(t).Compile(src)
	if err == nil {
		t.Fatal("Compile() expected error")
	}
	for _, want := range []error{ErrMissingBrace, ErrUnknownModifier, ErrMissingPlaceholder} {
		if !errors.Is(err, want) {
			t.Errorf("Compile() error = %v, should include %v", err, want)
		}
	}
	for _, frag := range []string{"statement 2", "statement 3", "statement 4"} {
		if !strings.Contains(err.Error(), frag) {
			t.Errorf("error message %q does not mention %q", err.Error(), frag)
		}
	}
}

package style

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	statementSeparator = "}\n\n"
	aliasMark          = ":"
	modifierMark       = "/"
)

var braceStripper = strings.NewReplacer("{", "", "}", "")

// Compiler turns style source into RuleSet.
type Compiler struct {
	log *zap.Logger
}

// NewCompiler creates a new style compiler.
func NewCompiler(log *zap.Logger) *Compiler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Compiler{log: log.Named("style")}
}

// Compile parses complete style source. All malformed statements are reported
// at once, no rule set is returned in that case. When no statement declares
// new-line modifier, rule for ForcedBreak is appended.
func (c *Compiler) Compile(src string) (*RuleSet, error) {
	src = strings.ReplaceAll(src, "\r\n", "\n")

	var (
		rules     []Rule
		errs      error
		haveBreak bool
	)
	for i, stmt := range strings.Split(src, statementSeparator) {
		if len(strings.TrimSpace(stmt)) == 0 {
			continue
		}
		r, err := c.compileStatement(i+1, stmt)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		c.log.Debug("Rule compiled", zap.Int("statement", i+1), zap.Stringer("rule", r))
		haveBreak = haveBreak || r.Has(KindNewLine)
		rules = append(rules, r)
	}
	if errs != nil {
		return nil, errs
	}

	if !haveBreak {
		r := forcedBreakRule()
		c.log.Debug("No line break rule in style, adding default", zap.Stringer("rule", r))
		rules = append(rules, r)
	}
	return &RuleSet{rules: rules}, nil
}

func forcedBreakRule() Rule {
	return Rule{
		Trigger:   ForcedBreak,
		Alias:     "forced-break",
		Behaviors: []Behavior{{Kind: KindNewLine}},
		Prefix:    ForcedBreakHTML,
		Synthetic: true,
	}
}

func (c *Compiler) compileStatement(n int, stmt string) (Rule, error) {
	open := strings.IndexByte(stmt, '{')
	if open < 0 {
		return Rule{}, &SyntaxError{Statement: n, Err: ErrMissingBrace, Detail: excerpt(stmt)}
	}

	tokens := strings.FieldsFunc(stmt[:open], IsSpace)
	if len(tokens) == 0 {
		return Rule{}, &SyntaxError{Statement: n, Err: ErrMissingTrigger, Detail: excerpt(stmt)}
	}

	r := Rule{Trigger: tokens[0]}
	fail := func(err error, detail string) (Rule, error) {
		return Rule{}, &SyntaxError{Statement: n, Trigger: r.Trigger, Err: err, Detail: detail}
	}

	// next returns argument glued to the mark or the following token
	next := func(i int, mark string) (string, int) {
		if arg := strings.TrimPrefix(tokens[i], mark); len(arg) > 0 {
			return arg, i
		}
		if i+1 < len(tokens) {
			return tokens[i+1], i + 1
		}
		return "", i
	}

	for i := 1; i < len(tokens); i++ {
		switch tok := tokens[i]; {
		case strings.HasPrefix(tok, aliasMark):
			var name string
			if name, i = next(i, aliasMark); len(name) == 0 {
				return fail(ErrMissingArgument, "alias expects a name")
			}
			r.Alias = name
		case strings.HasPrefix(tok, modifierMark):
			var keyword string
			if keyword, i = next(i, modifierMark); len(keyword) == 0 {
				return fail(ErrMissingArgument, "modifier expects a keyword")
			}
			k, err := ParseKind(keyword)
			if err != nil || k == KindPlain {
				return fail(ErrUnknownModifier, fmt.Sprintf("%q (expected one of recursive, interrupt, new-line, until)", keyword))
			}
			b := Behavior{Kind: k}
			if k == KindUntil {
				if i+1 >= len(tokens) {
					return fail(ErrMissingArgument, "until expects a closing token")
				}
				i++
				b.Closing = tokens[i]
			}
			r.Behaviors = append(r.Behaviors, b)
		default:
			c.log.Warn("Ignoring unexpected token in style statement",
				zap.Int("statement", n), zap.String("trigger", r.Trigger), zap.String("token", tok))
		}
	}
	if err := checkBehaviors(r.Behaviors); err != nil {
		return fail(err, "")
	}

	segments := strings.Split(stmt[open:], Placeholder)
	switch {
	case r.Has(KindNewLine):
		r.Prefix = cleanWrapper(segments[0])
	case len(segments) == 1 && r.Has(KindInterrupt):
		// terminator does not have to show its content
		r.Prefix = cleanWrapper(segments[0])
	case len(segments) == 1:
		return fail(ErrMissingPlaceholder, excerpt(stmt[open:]))
	case len(segments) > 2:
		return fail(ErrExtraPlaceholder, excerpt(stmt[open:]))
	default:
		r.Prefix, r.Suffix = cleanWrapper(segments[0]), cleanWrapper(segments[1])
	}
	return r, nil
}

func cleanWrapper(s string) string {
	return strings.TrimSpace(braceStripper.Replace(s))
}

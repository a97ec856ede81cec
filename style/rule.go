// Package style compiles style sources (.cmds) into ordered rule sets used by
// the expansion engine.
//
// A style source is a sequence of statements separated by a closing brace
// followed by an empty line:
//
//	h1 : heading { <h1>{{content}}</h1> }
//
//	p /recursive { <p>{{content}}</p> }
//
//	* /until * { <em>{{content}}</em> }
//
// The first token of a statement is the trigger, ": name" sets informational
// alias, "/keyword" adds a modifier (recursive, interrupt, new-line, until
// TOKEN). Text inside the braces is split on the content placeholder into
// wrapper prefix and suffix.
package style

import (
	"fmt"
	"iter"
	"strings"
)

const (
	// Placeholder separates wrapper prefix from suffix in rule body.
	Placeholder = "{{content}}"
	// EscapeChar placed before until trigger makes it literal.
	EscapeChar = `\`
	// DefaultStop ends recursive rule content when no until token is declared.
	DefaultStop = `\\`
	// ForcedBreak is the trigger of the line break rule added when style does
	// not define one.
	ForcedBreak = "\\\n"
	// ForcedBreakHTML is the prefix of that rule.
	ForcedBreakHTML = "<br>\n"
)

// IsSpace reports whether r separates tokens in style statements and
// documents. Only ASCII whitespace does, no-break and other Unicode spaces are
// part of tokens.
func IsSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

// Rule is a single compiled style statement.
type Rule struct {
	Trigger   string     `yaml:"trigger"`
	Alias     string     `yaml:"alias,omitempty"`
	Behaviors []Behavior `yaml:"behaviors,omitempty"`
	Prefix    string     `yaml:"prefix"`
	Suffix    string     `yaml:"suffix"`
	Synthetic bool       `yaml:"synthetic,omitempty"`
}

// Primary returns the first declared behavior kind, it decides how rule is
// matched and applied. Rule without modifiers is plain.
func (r Rule) Primary() Kind {
	if len(r.Behaviors) == 0 {
		return KindPlain
	}
	return r.Behaviors[0].Kind
}

// Has reports whether behavior of kind k was declared on the rule.
func (r Rule) Has(k Kind) bool {
	for _, b := range r.Behaviors {
		if b.Kind == k {
			return true
		}
	}
	return false
}

// Closing returns until argument if the rule has one.
func (r Rule) Closing() (string, bool) {
	for _, b := range r.Behaviors {
		if b.Kind == KindUntil {
			return b.Closing, true
		}
	}
	return "", false
}

// StopToken returns token which ends content of recursive rule.
func (r Rule) StopToken() string {
	if c, ok := r.Closing(); ok {
		return c
	}
	return DefaultStop
}

func (r Rule) String() string {
	names := make([]string, 0, len(r.Behaviors))
	for _, b := range r.Behaviors {
		if b.Kind == KindUntil {
			names = append(names, b.Kind.String()+" "+b.Closing)
			continue
		}
		names = append(names, b.Kind.String())
	}
	if len(names) == 0 {
		names = append(names, KindPlain.String())
	}
	return fmt.Sprintf("%q [%s]", r.Trigger, strings.Join(names, ", "))
}

// validate checks rule invariants.
func (r Rule) validate() error {
	if len(r.Trigger) == 0 {
		return ErrMissingTrigger
	}
	if err := checkBehaviors(r.Behaviors); err != nil {
		return err
	}
	if r.Has(KindNewLine) && len(r.Suffix) != 0 {
		return fmt.Errorf("%w: line break rule must have empty suffix", ErrConflictingModifiers)
	}
	return nil
}

// checkBehaviors makes sure there is a single splitting behavior per rule.
// The only combination allowed is recursive with until.
func checkBehaviors(bs []Behavior) error {
	seen := make(map[Kind]bool, len(bs))
	for _, b := range bs {
		if !b.Kind.IsValid() || b.Kind == KindPlain {
			return fmt.Errorf("%w: %s", ErrUnknownModifier, b.Kind)
		}
		if seen[b.Kind] {
			return fmt.Errorf("%w: %s declared more than once", ErrConflictingModifiers, b.Kind)
		}
		if b.Kind == KindUntil && len(b.Closing) == 0 {
			return fmt.Errorf("%w: until requires closing token", ErrMissingArgument)
		}
		seen[b.Kind] = true
	}
	if len(bs) > 1 && !(len(bs) == 2 && seen[KindRecursive] && seen[KindUntil]) {
		names := make([]string, 0, len(bs))
		for _, b := range bs {
			names = append(names, b.Kind.String())
		}
		return fmt.Errorf("%w: %s cannot be combined", ErrConflictingModifiers, strings.Join(names, ", "))
	}
	return nil
}

// RuleSet is an ordered, read only collection of rules. Earlier rules have
// priority over later ones.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet builds rule set from already prepared rules verifying their
// invariants. Unlike Compiler it never adds line break rule.
func NewRuleSet(rules ...Rule) (*RuleSet, error) {
	for i, r := range rules {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("rule %d (%q): %w", i+1, r.Trigger, err)
		}
	}
	return &RuleSet{rules: append([]Rule(nil), rules...)}, nil
}

// Len returns number of rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}

// All iterates over rules in priority order. Yielded rules must not be
// modified.
func (rs *RuleSet) All() iter.Seq2[int, Rule] {
	return func(yield func(int, Rule) bool) {
		if rs == nil {
			return
		}
		for i, r := range rs.rules {
			if !yield(i, r) {
				return
			}
		}
	}
}

// MarshalYAML dumps rules in declaration order.
func (rs *RuleSet) MarshalYAML() (any, error) {
	if rs == nil {
		return []Rule{}, nil
	}
	return rs.rules, nil
}

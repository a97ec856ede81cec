// Package expand applies compiled style rules to a document producing HTML.
//
// Expansion is a recursive rewrite. For every window of text rules are tried
// in declaration order and the first matching rule is applied, the parts of
// the window it does not consume are expanded again with the same rule set.
// Window no rule matches is copied to the output as is.
package expand

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"cumd/style"
)

// Sentinels replace escaped until triggers while window is being split. Each
// rule gets its own so nested until rules do not restore each other's
// triggers.
const (
	sentinelMark = '\uF8FF'
	sentinelBase = rune(0xF0000)
)

// Engine expands text using immutable rule set. It keeps no state between
// calls and may be shared.
type Engine struct {
	rules *style.RuleSet
	log   *zap.Logger
}

// New creates expansion engine for the rule set.
func New(rules *style.RuleSet, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{rules: rules, log: log.Named("expand")}
}

// Expand returns HTML produced from text. Text which does not match any rule
// is returned unchanged, error is only returned when a rule cannot be applied.
func (e *Engine) Expand(text string) (string, error) {
	return e.expand(text, 0)
}

func (e *Engine) expand(w string, depth int) (string, error) {
	if len(w) == 0 {
		return w, nil
	}

	first := firstToken(w)
	for i, r := range e.rules.All() {
		if !matches(r, w, first) {
			continue
		}
		if ce := e.log.Check(zap.DebugLevel, "Rule matched"); ce != nil {
			ce.Write(zap.Stringer("rule", r), zap.Int("depth", depth), zap.Int("window", len(w)))
		}
		switch r.Primary() {
		case style.KindPlain:
			return e.plain(r, w, depth)
		case style.KindRecursive:
			return e.recursive(r, w, depth)
		case style.KindInterrupt:
			return e.interrupt(r, w), nil
		case style.KindUntil:
			return e.until(i, r, w, depth)
		case style.KindNewLine:
			return e.lineBreak(r, w, depth)
		}
	}
	return w, nil
}

// matches decides whether rule applies to the window. Plain and recursive
// rules look at the leading token only, the rest search the whole window.
func matches(r style.Rule, w, first string) bool {
	if r.Primary().Splitting() {
		return strings.Contains(w, r.Trigger)
	}
	return len(first) > 0 && first == r.Trigger
}

// plain wraps the rest of the trigger's line and expands the following lines.
func (e *Engine) plain(r style.Rule, w string, depth int) (string, error) {
	at := strings.Index(w, r.Trigger)
	rest := w[:at] + w[at+len(r.Trigger):]

	content, tail := rest, ""
	// Line end is located in the window before trigger removal and shifted by
	// trigger length. Blank lines before the trigger end up in content.
	if nl := strings.IndexByte(w[at:], '\n'); nl >= 0 {
		var err error
		if content, tail, err = splitAround(rest, at+nl-len(r.Trigger), 1, r, depth); err != nil {
			return "", err
		}
	}

	var b strings.Builder
	b.WriteString(r.Prefix)
	b.WriteString(strings.TrimSpace(strings.ReplaceAll(content, "\n", "")))
	b.WriteString(r.Suffix)
	b.WriteByte('\n')

	more, err := e.expand(tail, depth+1)
	if err != nil {
		return "", err
	}
	b.WriteString(more)
	return b.String(), nil
}

// recursive wraps expanded text up to the stop token and expands what follows
// it separately.
func (e *Engine) recursive(r style.Rule, w string, depth int) (string, error) {
	rest := strings.Replace(w, r.Trigger, "", 1)
	body, tail, _ := strings.Cut(rest, r.StopToken())

	inner, err := e.expand(strings.TrimSpace(body), depth+1)
	if err != nil {
		return "", err
	}
	more, err := e.expand(tail, depth+1)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(r.Prefix)
	b.WriteString(inner)
	b.WriteString(r.Suffix)
	b.WriteString(more)
	return b.String(), nil
}

// interrupt wraps text before the trigger and drops everything after it.
func (e *Engine) interrupt(r style.Rule, w string) string {
	head, _, _ := strings.Cut(w, r.Trigger)
	return r.Prefix + head + r.Suffix
}

// until wraps every odd piece between triggers, even pieces are expanded.
// Escaped triggers are kept literally. Closing token of the rule is not
// consulted, trigger delimits region on both sides.
func (e *Engine) until(idx int, r style.Rule, w string, depth int) (string, error) {
	sentinel := string([]rune{sentinelMark, sentinelBase + rune(idx)})
	restore := func(s string) string {
		return strings.ReplaceAll(s, sentinel, r.Trigger)
	}

	pieces := strings.Split(strings.ReplaceAll(w, style.EscapeChar+r.Trigger, sentinel), r.Trigger)
	recursive := r.Has(style.KindRecursive)

	var b strings.Builder
	for i, piece := range pieces {
		if i%2 == 0 {
			out, err := e.expand(piece, depth+1)
			if err != nil {
				return "", err
			}
			b.WriteString(restore(out))
			continue
		}
		if recursive {
			var err error
			if piece, err = e.expand(piece, depth+1); err != nil {
				return "", err
			}
		}
		b.WriteString(r.Prefix)
		b.WriteString(restore(piece))
		b.WriteString(r.Suffix)
	}
	return b.String(), nil
}

// lineBreak replaces first trigger with the rule prefix.
func (e *Engine) lineBreak(r style.Rule, w string, depth int) (string, error) {
	head, tail, _ := strings.Cut(w, r.Trigger)
	more, err := e.expand(tail, depth+1)
	if err != nil {
		return "", err
	}
	return head + r.Prefix + more, nil
}

// splitAround returns s before cut and s after skipping n bytes at cut.
func splitAround(s string, cut, n int, r style.Rule, depth int) (string, string, error) {
	if cut < 0 || cut+n > len(s) || !utf8.RuneStart(s[cut]) || (cut+n < len(s) && !utf8.RuneStart(s[cut+n])) {
		return "", "", &ExpansionError{Trigger: r.Trigger, Depth: depth, Offset: cut, Window: len(s)}
	}
	return s[:cut], s[cut+n:], nil
}

// firstToken returns leading ASCII whitespace delimited token of the window.
func firstToken(w string) string {
	start := 0
	for start < len(w) && style.IsSpace(rune(w[start])) {
		start++
	}
	end := start
	for end < len(w) && !style.IsSpace(rune(w[end])) {
		end++
	}
	return w[start:end]
}

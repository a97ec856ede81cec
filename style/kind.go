package style

//go:generate go tool go-enum --marshal --names

// Behavior kind attached to a rule. Plain stands for absence of any modifier
// and is never spelled in style source, new-line is a line break rule.
// ENUM(plain, recursive, interrupt, new-line, until)
type Kind int

// Splitting reports whether rules of this kind are matched anywhere in the
// window rather than by the leading token.
func (x Kind) Splitting() bool {
	return x == KindInterrupt || x == KindNewLine || x == KindUntil
}

// Behavior is a single modifier of a rule. Closing is only set for until.
type Behavior struct {
	Kind    Kind   `yaml:"kind"`
	Closing string `yaml:"closing,omitempty"`
}

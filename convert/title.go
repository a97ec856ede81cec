package convert

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
)

// headingTitle returns text of the first <h1> element in produced HTML with
// nested markup dropped and white space collapsed. Empty when there is none.
func headingTitle(body string) string {
	lexer := html.NewLexer(parse.NewInput(strings.NewReader(body)))

	var (
		inside bool
		depth  int
		text   bytes.Buffer
	)
	for {
		tt, data := lexer.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or malformed tail, take what we have
			return collapseSpace(text.String())
		case html.StartTagToken:
			if bytes.EqualFold(lexer.Text(), []byte("h1")) {
				if inside {
					depth++
				}
				inside = true
			}
		case html.EndTagToken:
			if inside && bytes.EqualFold(lexer.Text(), []byte("h1")) {
				if depth == 0 {
					return collapseSpace(text.String())
				}
				depth--
			}
		case html.TextToken:
			if inside {
				text.Write(data)
			}
		}
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

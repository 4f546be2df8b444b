package config

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	exprOpen     = "{{"
	exprClose    = "}}"
	commentOpen  = "{#"
	commentClose = "#}"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// UndefinedVariableError is returned by RenderTemplate when a marker names a
// variable absent from the environment snapshot.
type UndefinedVariableError struct {
	Name string
	Line int
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("line %d: %q is undefined", e.Line, e.Name)
}

// TemplateSyntaxError reports a malformed or disallowed template expression.
type TemplateSyntaxError struct {
	Line    int
	Message string
}

func (e *TemplateSyntaxError) Error() string {
	return fmt.Sprintf("template syntax error: line %d: %s", e.Line, e.Message)
}

// RenderTemplate substitutes every {{ NAME }} marker in src with the value of
// NAME from env. The only accepted expression is a bare identifier, so a
// template can reach nothing but the snapshot. {# ... #} comments are removed.
// Substituted values are written verbatim.
func RenderTemplate(src string, env Env) (string, error) {
	var out strings.Builder
	out.Grow(len(src))

	rest := src
	offset := 0
	for {
		start, isComment := nextDelimiter(rest)
		if start < 0 {
			out.WriteString(rest)
			return out.String(), nil
		}
		out.WriteString(rest[:start])

		closing := exprClose
		if isComment {
			closing = commentClose
		}

		bodyStart := start + len(exprOpen)
		end := strings.Index(rest[bodyStart:], closing)
		if end < 0 {
			return "", &TemplateSyntaxError{
				Line:    lineAt(src, offset+start),
				Message: fmt.Sprintf("unclosed %q", rest[start:bodyStart]),
			}
		}
		body := rest[bodyStart : bodyStart+end]

		if !isComment {
			value, err := evaluate(body, env, lineAt(src, offset+start))
			if err != nil {
				return "", err
			}
			out.WriteString(value)
		}

		consumed := bodyStart + end + len(closing)
		rest = rest[consumed:]
		offset += consumed
	}
}

func evaluate(body string, env Env, line int) (string, error) {
	name := strings.TrimSpace(body)
	if name == "" {
		return "", &TemplateSyntaxError{Line: line, Message: "empty expression"}
	}
	if !identPattern.MatchString(name) {
		return "", &TemplateSyntaxError{
			Line:    line,
			Message: fmt.Sprintf("unsupported expression %q: only variable names are allowed", name),
		}
	}
	value, ok := env.Lookup(name)
	if !ok {
		return "", &UndefinedVariableError{Name: name, Line: line}
	}
	return value, nil
}

// nextDelimiter returns the index of the first expression or comment opener.
func nextDelimiter(s string) (int, bool) {
	expr := strings.Index(s, exprOpen)
	comment := strings.Index(s, commentOpen)
	switch {
	case expr < 0 && comment < 0:
		return -1, false
	case comment < 0 || (expr >= 0 && expr < comment):
		return expr, false
	default:
		return comment, true
	}
}

func lineAt(s string, offset int) int {
	return strings.Count(s[:offset], "\n") + 1
}

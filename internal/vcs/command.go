package vcs

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenPlain tokenKind = iota
	tokenPath
	tokenLiteral
)

type token struct {
	text string
	kind tokenKind
}

type flag struct {
	name     string
	value    token
	hasValue bool
}

// Command is one tool invocation: a verb, flags in insertion order and
// positional arguments.
//
// Calling convention: a long flag ("--limit") with a value renders as one
// token "--limit=10"; a short flag ("-r") with a value renders as two tokens
// "-r", "tip:0"; a flag without a value renders as the bare flag. Global
// flags (Global) are placed before the verb.
//
// Literal tokens are written by the caller already shell-quoted, the way a
// template is written on a command line ('{rev}\n'). String inserts them
// verbatim and never escapes them again; Argv removes that one level of
// quoting because no shell runs between the executor and the tool. Path
// tokens are the opposite: raw in Argv, single-quote escaped in String.
type Command struct {
	global []flag
	verb   string
	flags  []flag
	args   []token
}

// NewCommand starts a command for verb.
func NewCommand(verb string) *Command {
	return &Command{verb: verb}
}

// Verb returns the command verb.
func (c *Command) Verb() string {
	return c.verb
}

// Global adds a flag that precedes the verb, such as "--cwd".
func (c *Command) Global(name string, value any) *Command {
	c.global = append(c.global, flag{name: name, value: token{text: formatValue(value)}, hasValue: true})
	return c
}

// Flag adds a boolean flag.
func (c *Command) Flag(name string) *Command {
	c.flags = append(c.flags, flag{name: name})
	return c
}

// Value adds a flag with a string or integer value.
func (c *Command) Value(name string, value any) *Command {
	c.flags = append(c.flags, flag{name: name, value: token{text: formatValue(value)}, hasValue: true})
	return c
}

// LiteralValue adds a flag whose value is an already shell-quoted literal,
// such as a template string.
func (c *Command) LiteralValue(name, value string) *Command {
	c.flags = append(c.flags, flag{name: name, value: token{text: value, kind: tokenLiteral}, hasValue: true})
	return c
}

// Arg appends plain positional arguments such as revision ranges.
func (c *Command) Arg(args ...string) *Command {
	for _, a := range args {
		c.args = append(c.args, token{text: a})
	}
	return c
}

// Path appends positional arguments that denote filesystem paths.
func (c *Command) Path(paths ...string) *Command {
	for _, p := range paths {
		c.args = append(c.args, token{text: p, kind: tokenPath})
	}
	return c
}

// Literal appends a positional argument that must not be escaped again.
func (c *Command) Literal(tok string) *Command {
	c.args = append(c.args, token{text: tok, kind: tokenLiteral})
	return c
}

// Argv returns the ordered token list handed to the executor.
func (c *Command) Argv() []string {
	return c.render(argvToken)
}

// String returns the command rendered as a shell-safe line, without the
// program name.
func (c *Command) String() string {
	return strings.Join(c.render(shellToken), " ")
}

func (c *Command) render(text func(token) string) []string {
	out := make([]string, 0, 1+2*len(c.global)+2*len(c.flags)+len(c.args))
	out = appendFlags(out, c.global, text)
	if c.verb != "" {
		out = append(out, c.verb)
	}
	out = appendFlags(out, c.flags, text)
	for _, a := range c.args {
		out = append(out, text(a))
	}
	return out
}

func appendFlags(out []string, flags []flag, text func(token) string) []string {
	for _, f := range flags {
		switch {
		case !f.hasValue:
			out = append(out, f.name)
		case strings.HasPrefix(f.name, "--"):
			out = append(out, f.name+"="+text(f.value))
		default:
			out = append(out, f.name, text(f.value))
		}
	}
	return out
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

func argvToken(t token) string {
	if t.kind == tokenLiteral {
		return shellUnquote(t.text)
	}
	return t.text
}

func shellToken(t token) string {
	switch t.kind {
	case tokenPath:
		return shellQuote(t.text)
	case tokenLiteral:
		return t.text
	default:
		if t.text == "" || strings.ContainsAny(t.text, shellSpecial) {
			return shellQuote(t.text)
		}
		return t.text
	}
}

const shellSpecial = " \t\n*?[]{}()<>|&;$`'\"\\!#~"

// shellQuote quotes a string for safe use in shell commands.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// shellUnquote removes one level of POSIX shell quoting from s: single-quoted
// spans are copied as they are, double-quoted spans and bare text honour
// backslash escapes.
func shellUnquote(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'':
			j := strings.IndexByte(s[i+1:], '\'')
			if j < 0 {
				b.WriteString(s[i+1:])
				return b.String()
			}
			b.WriteString(s[i+1 : i+1+j])
			i += j + 1
		case '"':
			for i++; i < len(s) && s[i] != '"'; i++ {
				if s[i] == '\\' && i+1 < len(s) && strings.IndexByte("\\\"$`", s[i+1]) >= 0 {
					i++
				}
				b.WriteByte(s[i])
			}
		case '\\':
			if i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

package operand

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports an unexpected token encountered while parsing an
// operand string. Per spec, parse failures are fatal to the caller; this
// type carries enough context (offending token + remaining input) for the
// caller to print the same diagnostic the original tool did.
type ParseError struct {
	Token     string
	Remaining string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected token %q (remaining input: %q)", e.Token, e.Remaining)
}

// cursor is a rune-level scanner over one operand string, mirroring the
// character-list consumption in the original Python implementation.
type cursor struct {
	runes []rune
	pos   int
}

func newCursor(s string) *cursor {
	return &cursor{runes: []rune(s)}
}

func (c *cursor) hasNext() bool { return c.pos < len(c.runes) }

func (c *cursor) peek() rune {
	if !c.hasNext() {
		return 0
	}
	return c.runes[c.pos]
}

func (c *cursor) next() rune {
	r := c.peek()
	c.pos++
	return r
}

func (c *cursor) remaining() string { return string(c.runes[c.pos:]) }

// expect consumes the next rune if it is one of the runes in allowed,
// otherwise returns a ParseError.
func (c *cursor) expect(allowed string) (rune, error) {
	if !c.hasNext() {
		return 0, &ParseError{Token: "<eof>", Remaining: ""}
	}
	got := c.next()
	if !strings.ContainsRune(allowed, got) {
		return 0, &ParseError{Token: string(got), Remaining: c.remaining()}
	}
	return got, nil
}

func isIdentChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

func isNumberChar(r rune) bool {
	return r == '-' || r == 'x' || (r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func parseWord(c *cursor, valid func(rune) bool) string {
	var sb strings.Builder
	for c.hasNext() && valid(c.peek()) {
		sb.WriteRune(c.next())
	}
	return sb.String()
}

func parseNumber(c *cursor) (int64, error) {
	word := parseWord(c, isNumberChar)
	v, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		return 0, &ParseError{Token: word, Remaining: c.remaining()}
	}
	return v, nil
}

// Parse parses a single trimmed operand string into an Argument, or
// returns (nil, nil) if the input is empty. Parse failures are fatal
// (returned as *ParseError) per the spec's error handling design.
func Parse(s string) (Argument, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	c := newCursor(s)
	value, err := parseArgElems(c)
	if err != nil {
		return nil, err
	}
	if c.hasNext() {
		return nil, &ParseError{Token: string(c.peek()), Remaining: c.remaining()}
	}
	return value, nil
}

// parseArgElems is the single recursive-descent function that both
// classifies and constructs the Argument tree, mirroring the original
// implementation's parse_arg_elems: one function, no separate lexer
// stage, because the grammar is small enough that splitting it would
// only add indirection.
func parseArgElems(c *cursor) (Argument, error) {
	var value Argument

	for c.hasNext() {
		tok := c.peek()

		switch {
		case tok == ' ' || tok == '\t':
			c.next()

		case tok == '$':
			if value != nil {
				return nil, &ParseError{Token: string(tok), Remaining: c.remaining()}
			}
			c.next()
			value = Register{Name: parseWord(c, isIdentChar)}

		case tok == '.':
			if value != nil {
				return nil, &ParseError{Token: string(tok), Remaining: c.remaining()}
			}
			c.next()
			value = JumpTarget{Name: parseWord(c, isIdentChar)}

		case tok == '%':
			if value != nil {
				return nil, &ParseError{Token: string(tok), Remaining: c.remaining()}
			}
			c.next()
			name := parseWord(c, isIdentChar)
			if name != "hi" && name != "lo" {
				return nil, &ParseError{Token: name, Remaining: c.remaining()}
			}
			if _, err := c.expect("("); err != nil {
				return nil, err
			}
			inner, err := parseArgElems(c)
			if err != nil {
				return nil, err
			}
			if inner == nil {
				return nil, &ParseError{Token: "<empty macro argument>", Remaining: c.remaining()}
			}
			if _, err := c.expect(")"); err != nil {
				return nil, err
			}
			value = Macro{Name: name, Inner: inner}

		case tok == ')':
			// Return to the parent call; the ')' itself is consumed there.
			return value, nil

		case tok == '-' || (tok >= '0' && tok <= '9'):
			if value != nil {
				return nil, &ParseError{Token: string(tok), Remaining: c.remaining()}
			}
			n, err := parseNumber(c)
			if err != nil {
				return nil, err
			}
			value = NumberLiteral{Value: n}

		case tok == '(':
			switch value.(type) {
			case nil, NumberLiteral, Macro:
			default:
				return nil, &ParseError{Token: string(tok), Remaining: c.remaining()}
			}
			if _, err := c.expect("("); err != nil {
				return nil, err
			}
			rhs, err := parseArgElems(c)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				return nil, &ParseError{Token: "<empty address mode>", Remaining: c.remaining()}
			}
			if _, err := c.expect(")"); err != nil {
				return nil, err
			}
			value = AddressMode{Lhs: value, Rhs: rhs}

		case isIdentChar(tok):
			if value != nil {
				return nil, &ParseError{Token: string(tok), Remaining: c.remaining()}
			}
			value = GlobalSymbol{Name: parseWord(c, isIdentChar)}

		case tok == '>' || tok == '+' || tok == '&':
			switch value.(type) {
			case NumberLiteral, GlobalSymbol:
			default:
				return nil, &ParseError{Token: string(tok), Remaining: c.remaining()}
			}

			var op string
			if tok == '>' {
				if _, err := c.expect(">"); err != nil {
					return nil, err
				}
				if _, err := c.expect(">"); err != nil {
					return nil, err
				}
				op = ">>"
			} else {
				got, err := c.expect("&+")
				if err != nil {
					return nil, err
				}
				op = string(got)
			}

			rhs, err := parseArgElems(c)
			if err != nil {
				return nil, err
			}
			n, ok := rhs.(NumberLiteral)
			if !ok {
				return nil, &ParseError{Token: fmt.Sprintf("%v", rhs), Remaining: c.remaining()}
			}
			return BinOp{Op: op, Lhs: value, Rhs: n}, nil

		default:
			return nil, &ParseError{Token: string(tok), Remaining: c.remaining()}
		}
	}

	return value, nil
}

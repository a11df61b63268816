package dub

import (
	"fmt"
	"strconv"
	"strings"
)

type Node interface {
	isNode()
}

func (Identifier) isNode() {}
func (Number) isNode()     {}
func (String) isNode()     {}
func (Array) isNode()      {}
func (Tuple) isNode()      {}

type Command struct {
	Name Identifier
	Args []Node
}

type Identifier string
type Number float64
type String string

// Array is a bracketed sequence of nodes, [a b c].
type Array []Node

// Tuple is a parenthesized group of nodes, (a b c).
type Tuple []Node

func (n Number) String() string { return strconv.FormatFloat(float64(n), 'g', -1, 64) }
func (s String) String() string { return strconv.Quote(string(s)) }
func (a Array) String() string  { return "[" + join(a) + "]" }
func (t Tuple) String() string  { return "(" + join(t) + ")" }

func join(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, " ")
}

func Parse(input string) (Command, error) {
	tokens, err := lex(input)
	if err != nil {
		return Command{}, err
	}
	p := parser{tokens: tokens}
	return p.parse()
}

type parser struct {
	pos    int
	tokens []token
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) parse() (Command, error) {
	var cmd Command
	token := p.next()
	if token.typ != typeIdentifier {
		return cmd, unexpected(token)
	}
	cmd.Name = Identifier(token.text)
	for token := p.next(); token.typ != typeEOF; token = p.next() {
		arg, err := p.node(token)
		if err != nil {
			return cmd, err
		}
		cmd.Args = append(cmd.Args, arg)
	}
	return cmd, nil
}

func (p *parser) node(token token) (Node, error) {
	switch token.typ {
	case typeIdentifier:
		return Identifier(token.text), nil
	case typeString:
		return String(token.text[1 : len(token.text)-1]), nil
	case typeNumber:
		f, err := strconv.ParseFloat(token.text, 64)
		if err != nil {
			return nil, err
		}
		return Number(f), nil
	case typeLeftBracket:
		nodes, err := p.list(typeRightBracket)
		return Array(nodes), err
	case typeLeftParen:
		nodes, err := p.list(typeRightParen)
		return Tuple(nodes), err
	default:
		return nil, unexpected(token)
	}
}

// list parses nodes up to and including the closing token.
func (p *parser) list(end tokenType) ([]Node, error) {
	nodes := []Node{}
	for {
		token := p.next()
		switch token.typ {
		case end:
			return nodes, nil
		case typeEOF:
			return nil, fmt.Errorf("unexpected end of input at position %d", token.pos)
		}
		n, err := p.node(token)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
}

func unexpected(t token) error {
	return fmt.Errorf("unexpected token %q at position %d", t.text, t.pos)
}

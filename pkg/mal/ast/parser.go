// Copyright 2024 The MAL Engine Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

import (
	"fmt"

	"github.com/pkg/errors"
)

// Parse compiles a MAL expression string into a Node tree. The grammar,
// in order of increasing precedence:
//
//	expr    := term (('+' | '-') term)*
//	term    := postfix (('*' | '/') postfix)*
//	postfix := primary ('.' IDENT '(' args? ')')*
//	primary := IDENT | NUMBER | '(' expr ')'
//	args    := arg (',' arg)*
//	arg     := STRING | NUMBER | IDENT | '[' (STRING|NUMBER) (',' (STRING|NUMBER))* ']' | CLOSURE
func Parse(src string) (Node, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	n, err := p.parseExpr()
	if err != nil {
		return nil, errors.Wrapf(err, "parsing expression %q", src)
	}
	if p.tok.kind != tokEOF {
		return nil, errors.Errorf("parsing expression %q: unexpected trailing token at offset %d", src, p.tok.pos)
	}
	return n, nil
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	if p.tok.kind != k {
		return token{}, fmt.Errorf("mal: expected %s at offset %d", what, p.tok.pos)
	}
	t := p.tok
	if err := p.advance(); err != nil {
		return token{}, err
	}
	return t, nil
}

func (p *parser) parseExpr() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		op := "+"
		if p.tok.kind == tokMinus {
			op = "-"
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (Node, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokStar || p.tok.kind == tokSlash {
		op := "*"
		if p.tok.kind == tokSlash {
			op = "/"
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parsePostfix() (Node, error) {
	n, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokDot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		method, err := p.expect(tokIdent, "method name after '.'")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokLParen, "'(' after method name"); err != nil {
			return nil, err
		}
		var args []Arg
		if p.tok.kind != tokRParen {
			for {
				arg, err := p.parseArg()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.tok.kind != tokComma {
					break
				}
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if _, err := p.expect(tokRParen, "')' closing method call"); err != nil {
			return nil, err
		}
		if err := resolveCallArgs(method.text, args); err != nil {
			return nil, err
		}
		n = &CallNode{Receiver: n, Method: method.text, Args: args}
	}
	return n, nil
}

func (p *parser) parsePrimary() (Node, error) {
	switch p.tok.kind {
	case tokIdent:
		name := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &SourceNode{Name: name}, nil
	case tokNumber:
		v, err := parseNumberLiteral(p.tok.text)
		if err != nil {
			return nil, fmt.Errorf("mal: invalid number literal %q", p.tok.text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &NumberNode{Value: v}, nil
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')' closing parenthesized expression"); err != nil {
			return nil, err
		}
		return n, nil
	case tokMinus:
		// Unary minus on a numeric literal, e.g. the constant in `a - -1`.
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		if num, ok := n.(*NumberNode); ok {
			return &NumberNode{Value: -num.Value}, nil
		}
		return nil, fmt.Errorf("mal: unary '-' only supported on numeric literals")
	default:
		return nil, fmt.Errorf("mal: unexpected token at offset %d", p.tok.pos)
	}
}

// resolveCallArgs finalizes method-specific argument shapes that can't be
// determined purely from a single argument's token stream:
//
//   - tag(closure): the sole argument must resolve to one of the five
//     tag-rewrite templates.
//   - forEach(keys, closure): the closure's literal table is paired with the
//     sibling key-list argument to build a ForEachTableRewrite.
func resolveCallArgs(method string, args []Arg) error {
	switch method {
	case "tag":
		if len(args) != 1 || args[0].Kind != ArgClosure || args[0].Closure == nil {
			return fmt.Errorf("mal: tag(...) requires one closure argument matching a known rewrite pattern")
		}
	case "forEach":
		if len(args) != 2 || args[0].Kind != ArgList || args[1].Kind != ArgClosure {
			return fmt.Errorf("mal: forEach(...) requires a key list and a closure argument")
		}
		table := matchForEachTable(args[1].Str)
		args[1].Closure = ForEachTableRewrite{Keys: args[0].List, Table: table}
	}
	return nil
}

func (p *parser) parseArg() (Arg, error) {
	switch p.tok.kind {
	case tokString:
		s := p.tok.text
		if err := p.advance(); err != nil {
			return Arg{}, err
		}
		return Arg{Kind: ArgString, Str: s}, nil
	case tokNumber:
		v, err := parseNumberLiteral(p.tok.text)
		if err != nil {
			return Arg{}, fmt.Errorf("mal: invalid number literal %q", p.tok.text)
		}
		if err := p.advance(); err != nil {
			return Arg{}, err
		}
		return Arg{Kind: ArgNumber, Num: v}, nil
	case tokClosure:
		raw := p.tok.text
		if err := p.advance(); err != nil {
			return Arg{}, err
		}
		// Not every error is fatal here: a forEach table closure does not
		// match any of the five tag-rewrite templates and is resolved by
		// the caller once the sibling key-list argument is known (see
		// resolveCallArgs above).
		closure, _ := matchClosure(raw)
		return Arg{Kind: ArgClosure, Str: raw, Closure: closure}, nil
	case tokLBracket:
		if err := p.advance(); err != nil {
			return Arg{}, err
		}
		var items []string
		if p.tok.kind != tokRBracket {
			for {
				// Lists hold either string labels (e.g. groupKeys) or numeric
				// literals (e.g. histogram_percentile's percentile list);
				// numbers are kept in their original textual form so callers
				// can re-parse with strconv as needed.
				switch p.tok.kind {
				case tokString:
					items = append(items, p.tok.text)
					if err := p.advance(); err != nil {
						return Arg{}, err
					}
				case tokNumber:
					items = append(items, p.tok.text)
					if err := p.advance(); err != nil {
						return Arg{}, err
					}
				default:
					return Arg{}, fmt.Errorf("mal: expected string or number list element at offset %d", p.tok.pos)
				}
				if p.tok.kind != tokComma {
					break
				}
				if err := p.advance(); err != nil {
					return Arg{}, err
				}
			}
		}
		if _, err := p.expect(tokRBracket, "']' closing list"); err != nil {
			return Arg{}, err
		}
		return Arg{Kind: ArgList, List: items}, nil
	case tokIdent:
		// A bare identifier argument, e.g. the MIN/MAX/SUM/LATEST hint token
		// in .downsampling(MIN).
		name := p.tok.text
		if err := p.advance(); err != nil {
			return Arg{}, err
		}
		return Arg{Kind: ArgIdent, Str: name}, nil
	default:
		return Arg{}, fmt.Errorf("mal: unexpected argument token at offset %d", p.tok.pos)
	}
}

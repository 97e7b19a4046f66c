package circuit

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// EvalParam evaluates a QASM parameter expression: numbers, pi, the binary
// operators + - * / ^, unary minus, parentheses and the unary functions of
// the OpenQASM 2.0 grammar.
func EvalParam(src string) (float64, error) {
	p := exprParser{src: strings.TrimSpace(src)}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return 0, errors.Errorf("unexpected %q in expression %q", p.src[p.pos:], src)
	}
	return v, nil
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *exprParser) expr() (float64, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v += r
		case '-':
			p.pos++
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v -= r
		default:
			return v, nil
		}
	}
}

func (p *exprParser) term() (float64, error) {
	v, err := p.power()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			r, err := p.power()
			if err != nil {
				return 0, err
			}
			v *= r
		case '/':
			p.pos++
			r, err := p.power()
			if err != nil {
				return 0, err
			}
			if r == 0 {
				return 0, errors.Errorf("division by zero in %q", p.src)
			}
			v /= r
		default:
			return v, nil
		}
	}
}

func (p *exprParser) power() (float64, error) {
	base, err := p.unary()
	if err != nil {
		return 0, err
	}
	if p.peek() == '^' {
		p.pos++
		exp, err := p.power()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exp), nil
	}
	return base, nil
}

func (p *exprParser) unary() (float64, error) {
	switch p.peek() {
	case '-':
		p.pos++
		v, err := p.unary()
		return -v, err
	case '+':
		p.pos++
		return p.unary()
	}
	return p.primary()
}

var exprFuncs = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"exp":  math.Exp,
	"ln":   math.Log,
	"sqrt": math.Sqrt,
}

func (p *exprParser) primary() (float64, error) {
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, errors.Errorf("missing ) in %q", p.src)
		}
		p.pos++
		return v, nil
	case c == '.' || (c >= '0' && c <= '9'):
		start := p.pos
		for p.pos < len(p.src) {
			ch := p.src[p.pos]
			if (ch >= '0' && ch <= '9') || ch == '.' {
				p.pos++
				continue
			}
			if (ch == 'e' || ch == 'E') && p.pos+1 < len(p.src) {
				p.pos++
				if p.src[p.pos] == '+' || p.src[p.pos] == '-' {
					p.pos++
				}
				continue
			}
			break
		}
		v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
		if err != nil {
			return 0, errors.Wrapf(err, "number in %q", p.src)
		}
		return v, nil
	case unicode.IsLetter(rune(c)):
		start := p.pos
		for p.pos < len(p.src) && (unicode.IsLetter(rune(p.src[p.pos])) || unicode.IsDigit(rune(p.src[p.pos])) || p.src[p.pos] == '_') {
			p.pos++
		}
		ident := p.src[start:p.pos]
		if ident == "pi" {
			return math.Pi, nil
		}
		fn, ok := exprFuncs[ident]
		if !ok {
			return 0, errors.Errorf("unknown identifier %q in %q", ident, p.src)
		}
		if p.peek() != '(' {
			return 0, errors.Errorf("%s needs an argument in %q", ident, p.src)
		}
		arg, err := p.primary()
		if err != nil {
			return 0, err
		}
		return fn(arg), nil
	}
	return 0, errors.Errorf("unexpected end of expression %q", p.src)
}

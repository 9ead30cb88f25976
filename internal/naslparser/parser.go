// Package naslparser implements a Pratt (operator-precedence) parser
// producing a naslast.Statement tree. Binding powers are used instead
// of the teacher's recursive-descent-per-precedence-level style
// (internal/compiler/parser/expressions.go) because spec §4.2
// explicitly calls for an operator-precedence design: a single
// parseExpression(minBp) handles SL's whole precedence table, and the
// NamedParameter "ident : expr" rewrite hooks in as just another infix
// operator at its own binding power. The token-consumption idiom
// (match/check/consume/previous) and panic-mode error recovery are
// carried over from that file and internal/compiler/parser/errors.go.
package naslparser

import (
	"fmt"

	"github.com/nasl-runtime/naslrun/internal/naslast"
	"github.com/nasl-runtime/naslrun/internal/naslerr"
	"github.com/nasl-runtime/naslrun/internal/nasllexer"
	"github.com/nasl-runtime/naslrun/internal/nasltoken"
)

// Parser drives a Lexer and produces one naslast.Statement per
// top-level call to Next, matching spec §4.2's "iterator of
// Result<Statement, SyntaxError>, one result per top-level statement".
type Parser struct {
	tokens []nasltoken.Token
	pos    int
}

// New buffers every token up front (plugin source is small, per spec
// §5's resource-discipline note) and returns a ready Parser.
func New(source []byte) *Parser {
	return &Parser{tokens: nasllexer.New(source).Tokens()}
}

// Next parses and returns the next top-level statement. ok is false
// once the stream is exhausted (an EoF statement has already been
// returned).
func (p *Parser) Next() (stmt naslast.Statement, err error, ok bool) {
	if p.check(nasltoken.CategoryEOF) {
		return naslast.Statement{}, nil, false
	}
	stmt, err = p.parseStatement()
	return stmt, err, true
}

// All drains the parser, keeping only successful parses — the code
// rewriter's statement cache does exactly this (spec §4.5 step 1).
func (p *Parser) All() ([]naslast.Statement, []error) {
	var stmts []naslast.Statement
	var errs []error
	for {
		stmt, err, ok := p.Next()
		if !ok {
			break
		}
		if err != nil {
			errs = append(errs, err)
			p.synchronize()
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts, errs
}

// parseStatement dispatches on the leading token to either a
// keyword-introduced construct or a bare expression statement
// terminated by ';'.
func (p *Parser) parseStatement() (naslast.Statement, error) {
	switch p.peek().Category {
	case nasltoken.CategoryLBrace:
		return p.parseBlock()
	case nasltoken.CategoryIf:
		return p.parseIf()
	case nasltoken.CategoryFor:
		return p.parseFor()
	case nasltoken.CategoryForEach:
		return p.parseForEach()
	case nasltoken.CategoryWhile:
		return p.parseWhile()
	case nasltoken.CategoryRepeat:
		return p.parseRepeat()
	case nasltoken.CategoryFunction:
		return p.parseFunctionDeclaration()
	case nasltoken.CategoryInclude:
		return p.parseInclude()
	case nasltoken.CategoryExit:
		return p.parseExit()
	case nasltoken.CategoryReturn:
		return p.parseReturn()
	case nasltoken.CategoryBreak:
		tok := p.advance()
		stmt := naslast.Statement{Kind: naslast.KindBreak, Start: tok, End: tok}
		return p.finishSimpleStatement(stmt)
	case nasltoken.CategoryContinue:
		tok := p.advance()
		stmt := naslast.Statement{Kind: naslast.KindContinue, Start: tok, End: tok}
		return p.finishSimpleStatement(stmt)
	case nasltoken.CategoryLocalVar, nasltoken.CategoryGlobalVar:
		return p.parseDeclare()
	case nasltoken.CategorySemicolon:
		tok := p.advance()
		return naslast.Statement{Kind: naslast.KindNoOp, Start: tok, End: tok}, nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) finishSimpleStatement(stmt naslast.Statement) (naslast.Statement, error) {
	end, err := p.consume(nasltoken.CategorySemicolon, "expected ';'")
	if err != nil {
		return stmt, err
	}
	stmt.End = end
	return stmt, nil
}

func (p *Parser) parseExpressionStatement() (naslast.Statement, error) {
	expr, err := p.parseExpression(0)
	if err != nil {
		return expr, err
	}
	end, err := p.consume(nasltoken.CategorySemicolon, "expected ';' after expression")
	if err != nil {
		return expr, err
	}
	expr.End = end
	return expr, nil
}

func (p *Parser) parseBlock() (naslast.Statement, error) {
	open := p.advance() // {
	var stmts []naslast.Statement
	for !p.check(nasltoken.CategoryRBrace) && !p.check(nasltoken.CategoryEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return stmt, err
		}
		stmts = append(stmts, stmt)
	}
	close, err := p.consume(nasltoken.CategoryRBrace, "expected '}'")
	if err != nil {
		return naslast.Statement{}, err
	}
	return naslast.Statement{Kind: naslast.KindBlock, Start: open, End: close, Children: stmts}, nil
}

func (p *Parser) parseIf() (naslast.Statement, error) {
	start := p.advance() // if
	if _, err := p.consume(nasltoken.CategoryLParen, "expected '(' after 'if'"); err != nil {
		return naslast.Statement{}, err
	}
	cond, err := p.parseExpression(0)
	if err != nil {
		return cond, err
	}
	if _, err := p.consume(nasltoken.CategoryRParen, "expected ')' after condition"); err != nil {
		return naslast.Statement{}, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return then, err
	}
	stmt := naslast.Statement{Kind: naslast.KindIf, Start: start, End: then.End, Cond: &cond, Then: &then}
	if p.check(nasltoken.CategoryElse) {
		p.advance()
		elseStmt, err := p.parseStatement()
		if err != nil {
			return elseStmt, err
		}
		stmt.Else = &elseStmt
		stmt.End = elseStmt.End
	}
	return stmt, nil
}

func (p *Parser) parseFor() (naslast.Statement, error) {
	start := p.advance() // for
	if _, err := p.consume(nasltoken.CategoryLParen, "expected '(' after 'for'"); err != nil {
		return naslast.Statement{}, err
	}
	init, err := p.parseStatement() // consumes trailing ';'
	if err != nil {
		return init, err
	}
	cond, err := p.parseExpression(0)
	if err != nil {
		return cond, err
	}
	if _, err := p.consume(nasltoken.CategorySemicolon, "expected ';' after for-condition"); err != nil {
		return naslast.Statement{}, err
	}
	step, err := p.parseExpression(0)
	if err != nil {
		return step, err
	}
	if _, err := p.consume(nasltoken.CategoryRParen, "expected ')' after for-step"); err != nil {
		return naslast.Statement{}, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return body, err
	}
	return naslast.Statement{
		Kind: naslast.KindFor, Start: start, End: body.End,
		Init: &init, Cond: &cond, Step: &step, Body: &body,
	}, nil
}

func (p *Parser) parseForEach() (naslast.Statement, error) {
	start := p.advance() // foreach
	varTok, err := p.consume(nasltoken.CategoryIdentifier, "expected loop variable")
	if err != nil {
		return naslast.Statement{}, err
	}
	// SL spells foreach's separator as the bare identifier "in"
	// rather than a reserved word; consume it if present so both
	// "foreach x (arr)" and "foreach x in arr" style feeds parse. A
	// parenthesised iterable is read as a grouped expression.
	if p.check(nasltoken.CategoryIdentifier) && p.peek().Lexeme == "in" {
		p.advance()
	}
	iter, err := p.parseExpression(0)
	if err != nil {
		return iter, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return body, err
	}
	return naslast.Statement{
		Kind: naslast.KindForEach, Start: start, End: body.End,
		Tok: varTok, Iter: &iter, Body: &body,
	}, nil
}

func (p *Parser) parseWhile() (naslast.Statement, error) {
	start := p.advance()
	if _, err := p.consume(nasltoken.CategoryLParen, "expected '(' after 'while'"); err != nil {
		return naslast.Statement{}, err
	}
	cond, err := p.parseExpression(0)
	if err != nil {
		return cond, err
	}
	if _, err := p.consume(nasltoken.CategoryRParen, "expected ')' after while-condition"); err != nil {
		return naslast.Statement{}, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return body, err
	}
	return naslast.Statement{Kind: naslast.KindWhile, Start: start, End: body.End, Cond: &cond, Body: &body}, nil
}

func (p *Parser) parseRepeat() (naslast.Statement, error) {
	start := p.advance()
	body, err := p.parseStatement()
	if err != nil {
		return body, err
	}
	if _, err := p.consume(nasltoken.CategoryUntil, "expected 'until' after repeat-body"); err != nil {
		return naslast.Statement{}, err
	}
	cond, err := p.parseExpression(0)
	if err != nil {
		return cond, err
	}
	end, err := p.consume(nasltoken.CategorySemicolon, "expected ';' after repeat-until condition")
	if err != nil {
		return naslast.Statement{}, err
	}
	return naslast.Statement{Kind: naslast.KindRepeat, Start: start, End: end, Body: &body, Cond: &cond}, nil
}

func (p *Parser) parseFunctionDeclaration() (naslast.Statement, error) {
	start := p.advance() // function
	name, err := p.consume(nasltoken.CategoryIdentifier, "expected function name")
	if err != nil {
		return naslast.Statement{}, err
	}
	if _, err := p.consume(nasltoken.CategoryLParen, "expected '(' after function name"); err != nil {
		return naslast.Statement{}, err
	}
	var params []naslast.Statement
	for !p.check(nasltoken.CategoryRParen) {
		paramTok, err := p.consume(nasltoken.CategoryIdentifier, "expected parameter name")
		if err != nil {
			return naslast.Statement{}, err
		}
		params = append(params, naslast.Statement{Kind: naslast.KindVariable, Start: paramTok, End: paramTok, Tok: paramTok})
		if p.check(nasltoken.CategoryComma) {
			p.advance()
		}
	}
	closeParen, err := p.consume(nasltoken.CategoryRParen, "expected ')' after parameters")
	if err != nil {
		return naslast.Statement{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return body, err
	}
	return naslast.Statement{
		Kind: naslast.KindFunctionDeclaration, Start: start, End: body.End,
		Tok: name, Children: params, ClosePar: closeParen, Body: &body,
	}, nil
}

func (p *Parser) parseInclude() (naslast.Statement, error) {
	start := p.advance()
	openParen, err := p.consume(nasltoken.CategoryLParen, "expected '(' after 'include'")
	if err != nil {
		return naslast.Statement{}, err
	}
	expr, err := p.parseExpression(0)
	if err != nil {
		return expr, err
	}
	closeParen, err := p.consume(nasltoken.CategoryRParen, "expected ')' after include expression")
	if err != nil {
		return naslast.Statement{}, err
	}
	end, err := p.consume(nasltoken.CategorySemicolon, "expected ';' after include(...)")
	if err != nil {
		return naslast.Statement{}, err
	}
	return naslast.Statement{
		Kind: naslast.KindInclude, Start: start, End: end,
		OpenTok: openParen, Expr: &expr, ClosePar: closeParen,
	}, nil
}

func (p *Parser) parseExit() (naslast.Statement, error) {
	start := p.advance()
	openParen, err := p.consume(nasltoken.CategoryLParen, "expected '(' after 'exit'")
	if err != nil {
		return naslast.Statement{}, err
	}
	expr, err := p.parseExpression(0)
	if err != nil {
		return expr, err
	}
	closeParen, err := p.consume(nasltoken.CategoryRParen, "expected ')' after exit expression")
	if err != nil {
		return naslast.Statement{}, err
	}
	end, err := p.consume(nasltoken.CategorySemicolon, "expected ';' after exit(...)")
	if err != nil {
		return naslast.Statement{}, err
	}
	return naslast.Statement{
		Kind: naslast.KindExit, Start: start, End: end,
		OpenTok: openParen, Expr: &expr, ClosePar: closeParen,
	}, nil
}

func (p *Parser) parseReturn() (naslast.Statement, error) {
	start := p.advance()
	if p.check(nasltoken.CategorySemicolon) {
		end := p.advance()
		return naslast.Statement{Kind: naslast.KindReturn, Start: start, End: end}, nil
	}
	expr, err := p.parseExpression(0)
	if err != nil {
		return expr, err
	}
	end, err := p.consume(nasltoken.CategorySemicolon, "expected ';' after return expression")
	if err != nil {
		return naslast.Statement{}, err
	}
	return naslast.Statement{Kind: naslast.KindReturn, Start: start, End: end, Expr: &expr}, nil
}

func (p *Parser) parseDeclare() (naslast.Statement, error) {
	kindTok := p.advance() // local_var | global_var
	var names []naslast.Statement
	for {
		nameTok, err := p.consume(nasltoken.CategoryIdentifier, "expected variable name")
		if err != nil {
			return naslast.Statement{}, err
		}
		names = append(names, naslast.Statement{Kind: naslast.KindVariable, Start: nameTok, End: nameTok, Tok: nameTok})
		if !p.check(nasltoken.CategoryComma) {
			break
		}
		p.advance()
	}
	end, err := p.consume(nasltoken.CategorySemicolon, "expected ';' after declaration")
	if err != nil {
		return naslast.Statement{}, err
	}
	return naslast.Statement{Kind: naslast.KindDeclare, Start: kindTok, End: end, Tok: kindTok, Children: names}, nil
}

// parseExpression is the Pratt core: parse a prefix ("nud"), then
// repeatedly fold in infix/postfix operators ("led") whose left
// binding power exceeds minBp.
func (p *Parser) parseExpression(minBp int) (naslast.Statement, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return left, err
	}

	for {
		bp, isOp := infixPower(p.peek().Category)
		if !isOp || bp.left <= minBp {
			break
		}
		left, err = p.parseInfix(left, bp)
		if err != nil {
			return left, err
		}
	}
	return left, nil
}

func (p *Parser) parsePrefix() (naslast.Statement, error) {
	tok := p.peek()
	switch tok.Category {
	case nasltoken.CategoryNumber, nasltoken.CategoryString, nasltoken.CategoryData,
		nasltoken.CategoryNull, nasltoken.CategoryTrue, nasltoken.CategoryFalse:
		p.advance()
		return naslast.Statement{Kind: naslast.KindPrimitive, Start: tok, End: tok, Tok: tok}, nil
	case nasltoken.CategoryAttackCategory:
		p.advance()
		return naslast.Statement{Kind: naslast.KindAttackCategory, Start: tok, End: tok, Tok: tok}, nil
	case nasltoken.CategoryIdentifier:
		return p.parseIdentifierLed()
	case nasltoken.CategoryLParen:
		p.advance()
		inner, err := p.parseExpression(0)
		if err != nil {
			return inner, err
		}
		closeTok, err := p.consume(nasltoken.CategoryRParen, "expected ')'")
		if err != nil {
			return naslast.Statement{}, err
		}
		inner.Start, inner.End = tok, closeTok
		return inner, nil
	case nasltoken.CategoryLBracket:
		return p.parseArrayLiteral()
	case nasltoken.CategoryMinus, nasltoken.CategoryBang, nasltoken.CategoryTilde:
		p.advance()
		operand, err := p.parseExpression(prefixPower)
		if err != nil {
			return operand, err
		}
		return naslast.Statement{
			Kind: naslast.KindOperator, Start: tok, End: operand.End,
			OperatorTok: tok, Operands: []naslast.Statement{operand},
		}, nil
	case nasltoken.CategoryIncr, nasltoken.CategoryDecr:
		p.advance()
		operand, err := p.parseExpression(prefixPower)
		if err != nil {
			return operand, err
		}
		op := naslast.OpAddSet
		if tok.Category == nasltoken.CategoryDecr {
			op = naslast.OpSubSet
		}
		return naslast.Statement{
			Kind: naslast.KindAssign, Start: tok, End: operand.End,
			Op: op, Order: naslast.OrderPreAssign, Lhs: &operand, Rhs: &operand,
		}, nil
	default:
		return naslast.Statement{}, p.errorf(tok, "unexpected token %s", tok.Category)
	}
}

// parseIdentifierLed handles a leading identifier: a bare Variable, a
// Call if followed by '(', or an Array lookup if followed by '['.
// Postfix ++/-- and further [] / () chains are folded in by the
// caller's infix loop.
func (p *Parser) parseIdentifierLed() (naslast.Statement, error) {
	name := p.advance()
	return naslast.Statement{Kind: naslast.KindVariable, Start: name, End: name, Tok: name}, nil
}

func (p *Parser) parseArrayLiteral() (naslast.Statement, error) {
	open := p.advance() // [
	var items []naslast.Statement
	for !p.check(nasltoken.CategoryRBracket) {
		item, err := p.parseExpression(1) // above comma's bp so it doesn't re-flatten here
		if err != nil {
			return item, err
		}
		items = append(items, item)
		if p.check(nasltoken.CategoryComma) {
			p.advance()
			continue
		}
		break
	}
	closeTok, err := p.consume(nasltoken.CategoryRBracket, "expected ']'")
	if err != nil {
		return naslast.Statement{}, err
	}
	return naslast.Statement{Kind: naslast.KindParameter, Start: open, End: closeTok, Children: items}, nil
}

func (p *Parser) parseInfix(left naslast.Statement, bp bindingPower) (naslast.Statement, error) {
	opTok := p.advance()

	switch opTok.Category {
	case nasltoken.CategoryLParen:
		return p.parseCall(left, opTok)
	case nasltoken.CategoryLBracket:
		return p.parseIndex(left, opTok)
	case nasltoken.CategoryIncr, nasltoken.CategoryDecr:
		op := naslast.OpAddSet
		if opTok.Category == nasltoken.CategoryDecr {
			op = naslast.OpSubSet
		}
		return naslast.Statement{
			Kind: naslast.KindAssign, Start: left.Start, End: opTok,
			Op: op, Order: naslast.OrderReturnAssign, Lhs: &left, Rhs: &left,
		}, nil
	case nasltoken.CategoryColon:
		// NamedParameter rewrite: "ident : expr".
		if left.Kind != naslast.KindVariable {
			return left, p.errorf(opTok, "named parameter requires a bare identifier before ':'")
		}
		value, err := p.parseExpression(bp.right)
		if err != nil {
			return value, err
		}
		return naslast.Statement{
			Kind: naslast.KindNamedParameter, Start: left.Start, End: value.End,
			Tok: left.Tok, Expr: &value,
		}, nil
	case nasltoken.CategoryComma:
		right, err := p.parseExpression(bp.right)
		if err != nil {
			return right, err
		}
		items := flattenParameterList(left)
		items = append(items, flattenParameterList(right)...)
		return naslast.Statement{Kind: naslast.KindParameter, Start: left.Start, End: right.End, Children: items}, nil
	case nasltoken.CategoryAssign, nasltoken.CategoryPlusAssign, nasltoken.CategoryMinusAssign,
		nasltoken.CategoryStarAssign, nasltoken.CategorySlashAssign, nasltoken.CategoryPercentAssign,
		nasltoken.CategoryShlAssign, nasltoken.CategoryShrAssign, nasltoken.CategoryUShrAssign:
		rhs, err := p.parseExpression(bp.right)
		if err != nil {
			return rhs, err
		}
		return naslast.Statement{
			Kind: naslast.KindAssign, Start: left.Start, End: rhs.End,
			Op: assignOpFor(opTok.Category), Order: naslast.OrderNormal, Lhs: &left, Rhs: &rhs,
		}, nil
	default:
		right, err := p.parseExpression(bp.right)
		if err != nil {
			return right, err
		}
		return naslast.Statement{
			Kind: naslast.KindOperator, Start: left.Start, End: right.End,
			OperatorTok: opTok, Operands: []naslast.Statement{left, right},
		}, nil
	}
}

func (p *Parser) parseCall(callee naslast.Statement, openParen nasltoken.Token) (naslast.Statement, error) {
	if callee.Kind != naslast.KindVariable {
		return callee, p.errorf(openParen, "call target must be a bare identifier")
	}
	var args []naslast.Statement
	if !p.check(nasltoken.CategoryRParen) {
		argExpr, err := p.parseExpression(0)
		if err != nil {
			return argExpr, err
		}
		args = flattenParameterList(argExpr)
	}
	closeParen, err := p.consume(nasltoken.CategoryRParen, "expected ')' after call arguments")
	if err != nil {
		return naslast.Statement{}, err
	}
	return naslast.Statement{
		Kind: naslast.KindCall, Start: callee.Start, End: closeParen,
		Tok: callee.Tok, Args: args, ClosePar: closeParen,
	}, nil
}

// parseIndex handles "target[idx]" (Array(Some(idx))) and the
// append-only "target[]" form (Array(None) — spec §3/§4.3's
// no-index-given lookup-as-value case, used by SL's array-append
// idiom `a[] = x;`).
func (p *Parser) parseIndex(target naslast.Statement, openBracket nasltoken.Token) (naslast.Statement, error) {
	target.Kind = naslast.KindArray
	if p.check(nasltoken.CategoryRBracket) {
		closeBracket := p.advance()
		target.End = closeBracket
		_ = openBracket
		return target, nil
	}
	idx, err := p.parseExpression(0)
	if err != nil {
		return idx, err
	}
	closeBracket, err := p.consume(nasltoken.CategoryRBracket, "expected ']' after index")
	if err != nil {
		return naslast.Statement{}, err
	}
	target.End = closeBracket
	target.Index = &idx
	_ = openBracket
	return target, nil
}

// flattenParameterList unwraps a left-leaning chain of Parameter
// statements produced by repeated comma folding into one flat slice,
// or wraps a single non-Parameter expression as a one-item list.
func flattenParameterList(s naslast.Statement) []naslast.Statement {
	if s.Kind == naslast.KindParameter {
		return s.Children
	}
	return []naslast.Statement{s}
}

func assignOpFor(cat nasltoken.Category) naslast.AssignOp {
	switch cat {
	case nasltoken.CategoryPlusAssign:
		return naslast.OpAddSet
	case nasltoken.CategoryMinusAssign:
		return naslast.OpSubSet
	case nasltoken.CategoryStarAssign:
		return naslast.OpMulSet
	case nasltoken.CategorySlashAssign:
		return naslast.OpDivSet
	case nasltoken.CategoryPercentAssign:
		return naslast.OpModSet
	case nasltoken.CategoryShlAssign:
		return naslast.OpShlSet
	case nasltoken.CategoryShrAssign:
		return naslast.OpShrSet
	case nasltoken.CategoryUShrAssign:
		return naslast.OpUShrSet
	default:
		return naslast.OpSet
	}
}

// token-stream primitives

func (p *Parser) peek() nasltoken.Token { return p.tokens[p.pos] }

func (p *Parser) advance() nasltoken.Token {
	tok := p.tokens[p.pos]
	if tok.Category != nasltoken.CategoryEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) check(cat nasltoken.Category) bool { return p.peek().Category == cat }

func (p *Parser) consume(cat nasltoken.Category, message string) (nasltoken.Token, error) {
	if p.check(cat) {
		return p.advance(), nil
	}
	return nasltoken.Token{}, p.errorf(p.peek(), "%s (found %s)", message, p.peek().Category)
}

func (p *Parser) errorf(tok nasltoken.Token, format string, args ...interface{}) error {
	return &naslerr.SyntaxError{
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Position.Line,
		Column:  tok.Position.Column,
	}
}

// synchronize implements panic-mode recovery (teacher's
// ErrorRecoveryStrategy enum's PanicMode): skip tokens until a
// statement boundary so later top-level statements can still parse.
func (p *Parser) synchronize() {
	start := p.pos
	for !p.check(nasltoken.CategoryEOF) {
		if p.pos > start && p.tokens[p.pos-1].Category == nasltoken.CategorySemicolon {
			return
		}
		switch p.peek().Category {
		case nasltoken.CategoryIf, nasltoken.CategoryFor, nasltoken.CategoryForEach,
			nasltoken.CategoryWhile, nasltoken.CategoryRepeat, nasltoken.CategoryFunction,
			nasltoken.CategoryReturn, nasltoken.CategoryInclude, nasltoken.CategoryExit:
			return
		}
		p.advance()
	}
}

/*
 * Copyright 2022 ByteDance Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package irtext

import (
    `fmt`
    `os`
    `strconv`
    `strings`
    `text/scanner`
    `unicode`

    `github.com/cloudwego/optir/internal/ir`
)

// ParseError occures when the textual IR is malformed.
type ParseError struct {
    File   string
    Line   int
    Column int
    Reason string
}

func (self *ParseError) Error() string {
    return fmt.Sprintf("%s:%d:%d: %s", self.File, self.Line, self.Column, self.Reason)
}

// ParseFile reads and parses the IR file at path.
func ParseFile(path string) (*ir.Module, error) {
    if src, err := os.ReadFile(path); err != nil {
        return nil, err
    } else {
        return Parse(path, string(src))
    }
}

// Parse parses src into a module. name is used for diagnostics and as the
// module name.
func Parse(name string, src string) (m *ir.Module, err error) {
    defer func() {
        if v := recover(); v != nil {
            if e, ok := v.(*ParseError); ok {
                m, err = nil, e
            } else {
                panic(v)
            }
        }
    }()

    /* parse errors are raised as panics, including the ones of the first token */
    p := newParser(name, src)
    m = p.module()
    return
}

type _Operand struct {
    pos  scanner.Position
    kind rune
    name string
    lit  int64
}

type _Label struct {
    pos  scanner.Position
    name string
}

type _Instr struct {
    pos    scanner.Position
    op     ir.Opcode
    name   string
    ty     ir.Type
    elem   ir.Type
    callee string
    args   []_Operand
    labels []_Label
}

type _Block struct {
    pos  scanner.Position
    name string
    ins  []*_Instr
}

type _Param struct {
    pos  scanner.Position
    name string
    ty   ir.Type
}

type _Func struct {
    pos    scanner.Position
    name   string
    ret    ir.Type
    params []_Param
    blocks []*_Block
}

type _Parser struct {
    s    scanner.Scanner
    tok  rune
    file string
}

func newParser(name string, src string) *_Parser {
    p := &_Parser { file: name }
    p.s.Init(strings.NewReader(src))

    /* newlines are significant, comments are skipped */
    p.s.Filename = name
    p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanComments | scanner.SkipComments
    p.s.Whitespace = 1 << '\t' | 1 << '\r' | 1 << ' '
    p.s.IsIdentRune = isIdentRune
    p.s.Error = p.scanError

    /* load the first token */
    p.next()
    return p
}

func isIdentRune(ch rune, i int) bool {
    return ch == '_' || ch == '.' || unicode.IsLetter(ch) || (i > 0 && unicode.IsDigit(ch))
}

func (self *_Parser) scanError(s *scanner.Scanner, msg string) {
    self.fail(s.Pos(), "%s", msg)
}

func (self *_Parser) fail(pos scanner.Position, format string, args ...interface{}) {
    panic(&ParseError {
        File   : self.file,
        Line   : pos.Line,
        Column : pos.Column,
        Reason : fmt.Sprintf(format, args...),
    })
}

func (self *_Parser) next() {
    self.tok = self.s.Scan()
}

func (self *_Parser) pos() scanner.Position {
    return self.s.Position
}

func (self *_Parser) describe() string {
    switch self.tok {
        case scanner.EOF : return "end of file"
        case '\n'        : return "end of line"
        default          : return strconv.Quote(self.s.TokenText())
    }
}

func (self *_Parser) expect(tok rune) {
    if self.tok != tok {
        self.fail(self.pos(), "expected %q, found %s", tok, self.describe())
    }
    self.next()
}

func (self *_Parser) ident() string {
    if self.tok != scanner.Ident {
        self.fail(self.pos(), "expected identifier, found %s", self.describe())
    }
    ret := self.s.TokenText()
    self.next()
    return ret
}

// name parses a value or block name, which may also be a plain number.
func (self *_Parser) name() string {
    if self.tok != scanner.Ident && self.tok != scanner.Int {
        self.fail(self.pos(), "expected name, found %s", self.describe())
    }
    ret := self.s.TokenText()
    self.next()
    return ret
}

func (self *_Parser) typ() ir.Type {
    pos := self.pos()
    ret, err := ir.ParseType(self.ident())

    /* check for type errors */
    if err != nil {
        self.fail(pos, "%v", err)
    }
    return ret
}

func (self *_Parser) skipLines() {
    for self.tok == '\n' {
        self.next()
    }
}

func (self *_Parser) endOfLine() {
    if self.tok != '\n' && self.tok != scanner.EOF {
        self.fail(self.pos(), "unexpected %s at end of instruction", self.describe())
    }
}

func (self *_Parser) module() *ir.Module {
    var fns []*_Func
    m := ir.NewModule(self.file)

    /* parse every top-level declaration */
    for self.skipLines(); self.tok != scanner.EOF; self.skipLines() {
        pos := self.pos()
        switch kw := self.ident(); kw {
            case "global" : self.global(m, pos)
            case "func"   : fns = append(fns, self.function(pos))
            default       : self.fail(pos, "expected \"global\" or \"func\", found %q", kw)
        }
    }

    /* resolve the functions once all the globals are known */
    for _, fn := range fns {
        self.build(m, fn)
    }

    /* all done */
    return m
}

func (self *_Parser) global(m *ir.Module, pos scanner.Position) {
    self.expect('@')
    name := self.name()

    /* global type */
    self.expect(':')
    ty := self.typ()
    self.endOfLine()

    /* check for duplications */
    if m.Global(name) != nil {
        self.fail(pos, "duplicated global @%s", name)
    }

    /* add to module */
    m.NewGlobal(name, ty)
}

func (self *_Parser) function(pos scanner.Position) *_Func {
    self.expect('@')
    fn := &_Func { pos: pos, name: self.name(), ret: ir.Void }

    /* formal parameters */
    for self.expect('('); self.tok != ')'; {
        pp := self.pos()
        self.expect('%')
        name := self.name()
        self.expect(':')
        fn.params = append(fn.params, _Param { pos: pp, name: name, ty: self.typ() })

        /* more parameters */
        if self.tok != ',' {
            break
        }
        self.next()
    }

    /* optional return type */
    if self.expect(')'); self.tok == ':' {
        self.next()
        fn.ret = self.typ()
    }

    /* function body */
    self.expect('{')
    self.blocks(fn)
    self.expect('}')
    self.endOfLine()
    return fn
}

func (self *_Parser) blocks(fn *_Func) {
    var bb *_Block
    for self.skipLines(); self.tok != '}'; self.skipLines() {
        var name string
        var pos = self.pos()

        /* "%name = op ..." */
        if self.tok == '%' {
            self.next()
            name = self.name()
            self.expect('=')
            op := self.ident()

            /* must be inside a block */
            if bb == nil {
                self.fail(pos, "instruction outside of a basic block")
            }

            /* parse the instruction */
            bb.ins = append(bb.ins, self.instr(pos, name, op))
            continue
        }

        /* either a label or an opcode */
        if self.tok == scanner.EOF {
            self.fail(pos, "unexpected end of file in function @%s", fn.name)
        }

        /* block labels */
        if id := self.name(); self.tok == ':' {
            self.next()
            bb = &_Block { pos: pos, name: id }
            fn.blocks = append(fn.blocks, bb)
        } else if bb == nil {
            self.fail(pos, "instruction outside of a basic block")
        } else {
            bb.ins = append(bb.ins, self.instr(pos, "", id))
        }
    }
}

func (self *_Parser) operand() _Operand {
    neg := false
    pos := self.pos()

    /* named values */
    switch self.tok {
        case '%' : self.next(); return _Operand { pos: pos, kind: '%', name: self.name() }
        case '@' : self.next(); return _Operand { pos: pos, kind: '@', name: self.name() }
        case '-' : self.next(); neg = true
    }

    /* integer literals */
    if self.tok != scanner.Int {
        self.fail(pos, "expected operand, found %s", self.describe())
    }

    /* parse the literal */
    text := self.s.TokenText()
    if neg {
        text = "-" + text
    }

    /* literals are 64-bit at most */
    v, err := strconv.ParseInt(text, 0, 64)
    if err != nil {
        self.fail(pos, "invalid integer literal %s", text)
    }

    /* consume the literal */
    self.next()
    return _Operand { pos: pos, kind: scanner.Int, lit: v }
}

func (self *_Parser) label() _Label {
    pos := self.pos()
    return _Label { pos: pos, name: self.name() }
}

func (self *_Parser) instr(pos scanner.Position, name string, mnemonic string) *_Instr {
    op, ok := ir.ParseOpcode(mnemonic)
    if !ok {
        self.fail(pos, "unknown opcode %q", mnemonic)
    }

    /* parse by opcode */
    p := &_Instr { pos: pos, op: op, name: name, ty: ir.Void, elem: ir.Void }
    switch op {
        case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv: {
            p.ty = self.typ()
            p.args = append(p.args, self.operand())
            self.expect(',')
            p.args = append(p.args, self.operand())
        }

        /* cmp T x, y -> i1 */
        case ir.OpCmp: {
            p.ty = ir.I1
            p.elem = self.typ()
            p.args = append(p.args, self.operand())
            self.expect(',')
            p.args = append(p.args, self.operand())
        }

        /* alloca T -> ptr */
        case ir.OpAlloca: {
            p.ty = ir.Ptr
            p.elem = self.typ()
        }

        /* load T, p -> T */
        case ir.OpLoad: {
            p.ty = self.typ()
            self.expect(',')
            p.args = append(p.args, self.operand())
        }

        /* store T v, p */
        case ir.OpStore: {
            p.elem = self.typ()
            p.args = append(p.args, self.operand())
            self.expect(',')
            p.args = append(p.args, self.operand())
        }

        /* call T @f(args...) */
        case ir.OpCall: {
            p.ty = self.typ()
            self.expect('@')
            p.callee = self.name()

            /* call arguments */
            for self.expect('('); self.tok != ')'; {
                if p.args = append(p.args, self.operand()); self.tok != ',' {
                    break
                }
                self.next()
            }

            /* end of argument list */
            self.expect(')')
        }

        /* br label */
        case ir.OpBr: {
            p.labels = append(p.labels, self.label())
        }

        /* condbr c, t, f */
        case ir.OpCondBr: {
            p.args = append(p.args, self.operand())
            self.expect(',')
            p.labels = append(p.labels, self.label())
            self.expect(',')
            p.labels = append(p.labels, self.label())
        }

        /* ret void | ret T v */
        case ir.OpRet: {
            if self.tok == scanner.Ident && self.s.TokenText() == "void" {
                self.next()
            } else {
                p.elem = self.typ()
                p.args = append(p.args, self.operand())
            }
        }
    }

    /* instructions that don't produce values can not be named */
    if name != "" && p.ty.IsVoid() {
        self.fail(pos, "%s does not produce a value, but is named %%%s", op, name)
    }

    /* must end here */
    self.endOfLine()
    return p
}

// literalType returns the type of an integer literal at operand i of p.
func literalType(p *_Instr, i int) ir.Type {
    switch p.op {
        case ir.OpCmp    : return p.elem
        case ir.OpLoad   : return ir.Ptr
        case ir.OpCall   : return ir.I64
        case ir.OpCondBr : return ir.I1
        case ir.OpRet    : return p.elem
    }

    /* stores: value, then pointer */
    if p.op == ir.OpStore {
        if i == 0 {
            return p.elem
        } else {
            return ir.Ptr
        }
    }

    /* arithmetics */
    return p.ty
}

func (self *_Parser) build(m *ir.Module, f *_Func) {
    if m.Func(f.name) != nil {
        self.fail(f.pos, "duplicated function @%s", f.name)
    }

    /* create the function and it's parameters */
    fn := m.NewFunction(f.name, f.ret)
    vals := make(map[string]ir.Value, len(f.params))

    /* formal parameters */
    for _, p := range f.params {
        if _, ok := vals[p.name]; ok {
            self.fail(p.pos, "duplicated parameter %%%s", p.name)
        }
        vals[p.name] = fn.AddParam(p.name, p.ty)
    }

    /* Phase 1: create all the blocks */
    for _, bb := range f.blocks {
        if fn.Block(bb.name) != nil {
            self.fail(bb.pos, "duplicated block label %s", bb.name)
        }
        fn.NewBlock(bb.name)
    }

    /* Phase 2: create all the instructions without operands */
    ins := make([]*ir.Instruction, 0, len(f.blocks))
    raw := make([]*_Instr, 0, len(f.blocks))
    idx := make(map[*ir.Instruction]int, len(f.blocks))

    /* add every instruction */
    for i, bb := range f.blocks {
        for _, v := range bb.ins {
            p := ir.NewInstr(v.op, v.ty, v.name)
            p.Elem = v.elem
            p.Callee = v.callee

            /* nothing may follow a terminator */
            if t := fn.Blocks[i].Terminator(); t != nil {
                self.fail(v.pos, "%s follows the terminator of block %s", v.op, bb.name)
            }

            /* named values */
            if v.name != "" {
                if _, ok := vals[v.name]; ok {
                    self.fail(v.pos, "duplicated value %%%s", v.name)
                }
                vals[v.name] = p
            }

            /* add to block */
            fn.Blocks[i].Append(p)
            idx[p] = len(ins)
            ins = append(ins, p)
            raw = append(raw, v)
        }
    }

    /* Phase 3: resolve operands and branch targets */
    for i, p := range ins {
        v := raw[i]
        ops := make([]ir.Value, 0, len(v.args))

        /* operands */
        for j, a := range v.args {
            r := self.resolve(m, vals, v, j, a)

            /* within a block, values must be defined before they are used */
            if d := ir.AsInstr(r); d != nil && d.Parent() == p.Parent() && idx[d] >= i {
                self.fail(a.pos, "value %%%s is used before it is defined", a.name)
            }

            /* add to operands */
            ops = append(ops, r)
        }

        /* branch targets */
        for _, lb := range v.labels {
            if bb := fn.Block(lb.name); bb == nil {
                self.fail(lb.pos, "undefined block label %s", lb.name)
            } else {
                p.Targets = append(p.Targets, bb)
            }
        }

        /* set the operands */
        p.SetOperands(ops...)
    }
}

func (self *_Parser) resolve(m *ir.Module, vals map[string]ir.Value, p *_Instr, i int, a _Operand) ir.Value {
    switch a.kind {
        case '%': {
            if v, ok := vals[a.name]; !ok {
                self.fail(a.pos, "undefined value %%%s", a.name)
                return nil
            } else {
                return v
            }
        }

        /* globals */
        case '@': {
            if gv := m.Global(a.name); gv == nil {
                self.fail(a.pos, "undefined global @%s", a.name)
                return nil
            } else {
                return gv
            }
        }

        /* literals */
        default: {
            return ir.NewConst(literalType(p, i), a.lit)
        }
    }
}

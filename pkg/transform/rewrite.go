package transform

import (
	"slices"

	"github.com/leapstack-labs/leaprelay/pkg/artifact"
	"github.com/leapstack-labs/leaprelay/pkg/gqltag"
	"github.com/tdewolff/parse/v2/js"
)

// rewriter walks one file in source order. Every method returns the node it
// was given when nothing below it changed, and a shallow copy with rewritten
// children otherwise. After the first error every method is a no-op.
type rewriter struct {
	t    *Transformer
	file File

	pending []js.IStmt
	sites   []Site
	err     error
}

func rewriteSlice[T any](in []T, f func(T) (T, bool)) ([]T, bool) {
	var out []T
	for i, item := range in {
		n, changed := f(item)
		if changed && out == nil {
			out = slices.Clone(in)
		}
		if out != nil {
			out[i] = n
		}
	}
	if out == nil {
		return in, false
	}
	return out, true
}

func (r *rewriter) stmts(list []js.IStmt) ([]js.IStmt, bool) {
	return rewriteSlice(list, r.stmt)
}

func (r *rewriter) exprs(list []js.IExpr) ([]js.IExpr, bool) {
	return rewriteSlice(list, r.expr)
}

func (r *rewriter) block(b *js.BlockStmt) (*js.BlockStmt, bool) {
	if b == nil {
		return nil, false
	}
	list, changed := r.stmts(b.List)
	if !changed {
		return b, false
	}
	c := *b
	c.List = list
	return &c, true
}

// blockValue rewrites a block embedded by value in a function or method.
func (r *rewriter) blockValue(b js.BlockStmt) (js.BlockStmt, bool) {
	list, changed := r.stmts(b.List)
	if !changed {
		return b, false
	}
	b.List = list
	return b, true
}

func (r *rewriter) stmt(s js.IStmt) (js.IStmt, bool) {
	if s == nil || r.err != nil {
		return s, false
	}

	switch n := s.(type) {
	case *js.ExprStmt:
		v, changed := r.expr(n.Value)
		if !changed {
			return s, false
		}
		c := *n
		c.Value = v
		return &c, true

	case *js.BlockStmt:
		b, changed := r.block(n)
		return b, changed

	case *js.IfStmt:
		cond, c1 := r.expr(n.Cond)
		body, c2 := r.stmt(n.Body)
		els, c3 := r.stmt(n.Else)
		if !c1 && !c2 && !c3 {
			return s, false
		}
		return &js.IfStmt{Cond: cond, Body: body, Else: els}, true

	case *js.DoWhileStmt:
		body, c1 := r.stmt(n.Body)
		cond, c2 := r.expr(n.Cond)
		if !c1 && !c2 {
			return s, false
		}
		return &js.DoWhileStmt{Cond: cond, Body: body}, true

	case *js.WhileStmt:
		cond, c1 := r.expr(n.Cond)
		body, c2 := r.stmt(n.Body)
		if !c1 && !c2 {
			return s, false
		}
		return &js.WhileStmt{Cond: cond, Body: body}, true

	case *js.ForStmt:
		init, c1 := r.expr(n.Init)
		cond, c2 := r.expr(n.Cond)
		post, c3 := r.expr(n.Post)
		body, c4 := r.block(n.Body)
		if !c1 && !c2 && !c3 && !c4 {
			return s, false
		}
		return &js.ForStmt{Init: init, Cond: cond, Post: post, Body: body}, true

	case *js.ForInStmt:
		init, c1 := r.expr(n.Init)
		value, c2 := r.expr(n.Value)
		body, c3 := r.block(n.Body)
		if !c1 && !c2 && !c3 {
			return s, false
		}
		return &js.ForInStmt{Init: init, Value: value, Body: body}, true

	case *js.ForOfStmt:
		init, c1 := r.expr(n.Init)
		value, c2 := r.expr(n.Value)
		body, c3 := r.block(n.Body)
		if !c1 && !c2 && !c3 {
			return s, false
		}
		return &js.ForOfStmt{Await: n.Await, Init: init, Value: value, Body: body}, true

	case *js.SwitchStmt:
		init, c1 := r.expr(n.Init)
		list, c2 := rewriteSlice(n.List, r.caseClause)
		if !c1 && !c2 {
			return s, false
		}
		return &js.SwitchStmt{Init: init, List: list}, true

	case *js.ReturnStmt:
		v, changed := r.expr(n.Value)
		if !changed {
			return s, false
		}
		return &js.ReturnStmt{Value: v}, true

	case *js.ThrowStmt:
		v, changed := r.expr(n.Value)
		if !changed {
			return s, false
		}
		return &js.ThrowStmt{Value: v}, true

	case *js.WithStmt:
		cond, c1 := r.expr(n.Cond)
		body, c2 := r.stmt(n.Body)
		if !c1 && !c2 {
			return s, false
		}
		return &js.WithStmt{Cond: cond, Body: body}, true

	case *js.LabelledStmt:
		v, changed := r.stmt(n.Value)
		if !changed {
			return s, false
		}
		return &js.LabelledStmt{Label: n.Label, Value: v}, true

	case *js.TryStmt:
		body, c1 := r.block(n.Body)
		binding, c2 := r.binding(n.Binding)
		catch, c3 := r.block(n.Catch)
		finally, c4 := r.block(n.Finally)
		if !c1 && !c2 && !c3 && !c4 {
			return s, false
		}
		return &js.TryStmt{Body: body, Binding: binding, Catch: catch, Finally: finally}, true

	case *js.ExportStmt:
		decl, changed := r.expr(n.Decl)
		if !changed {
			return s, false
		}
		c := *n
		c.Decl = decl
		return &c, true

	case *js.VarDecl:
		return r.varDecl(n)

	case *js.FuncDecl:
		return r.funcDecl(n)

	case *js.ClassDecl:
		return r.classDecl(n)
	}

	// Imports, branches, directives, comments and empty statements hold no
	// expressions.
	return s, false
}

func (r *rewriter) caseClause(cc js.CaseClause) (js.CaseClause, bool) {
	cond, c1 := r.expr(cc.Cond)
	list, c2 := r.stmts(cc.List)
	if !c1 && !c2 {
		return cc, false
	}
	cc.Cond = cond
	cc.List = list
	return cc, true
}

func (r *rewriter) expr(e js.IExpr) (js.IExpr, bool) {
	if e == nil || r.err != nil {
		return e, false
	}

	switch n := e.(type) {
	case *js.TemplateExpr:
		if IsMarker(n) {
			return r.marker(n)
		}
		tag, c1 := r.expr(n.Tag)
		list, c2 := rewriteSlice(n.List, r.templatePart)
		if !c1 && !c2 {
			return e, false
		}
		c := *n
		c.Tag = tag
		c.List = list
		return &c, true

	case *js.GroupExpr:
		x, changed := r.expr(n.X)
		if !changed {
			return e, false
		}
		return &js.GroupExpr{X: x}, true

	case *js.DotExpr:
		x, changed := r.expr(n.X)
		if !changed {
			return e, false
		}
		c := *n
		c.X = x
		return &c, true

	case *js.IndexExpr:
		x, c1 := r.expr(n.X)
		y, c2 := r.expr(n.Y)
		if !c1 && !c2 {
			return e, false
		}
		c := *n
		c.X = x
		c.Y = y
		return &c, true

	case *js.CallExpr:
		x, c1 := r.expr(n.X)
		args, c2 := r.args(n.Args)
		if !c1 && !c2 {
			return e, false
		}
		return &js.CallExpr{X: x, Args: args, Optional: n.Optional}, true

	case *js.NewExpr:
		x, c1 := r.expr(n.X)
		var args *js.Args
		c2 := false
		if n.Args != nil {
			var a js.Args
			a, c2 = r.args(*n.Args)
			args = &a
		}
		if !c1 && !c2 {
			return e, false
		}
		if !c2 {
			args = n.Args
		}
		return &js.NewExpr{X: x, Args: args}, true

	case *js.UnaryExpr:
		x, changed := r.expr(n.X)
		if !changed {
			return e, false
		}
		return &js.UnaryExpr{Op: n.Op, X: x}, true

	case *js.BinaryExpr:
		x, c1 := r.expr(n.X)
		y, c2 := r.expr(n.Y)
		if !c1 && !c2 {
			return e, false
		}
		return &js.BinaryExpr{Op: n.Op, X: x, Y: y}, true

	case *js.CondExpr:
		cond, c1 := r.expr(n.Cond)
		x, c2 := r.expr(n.X)
		y, c3 := r.expr(n.Y)
		if !c1 && !c2 && !c3 {
			return e, false
		}
		return &js.CondExpr{Cond: cond, X: x, Y: y}, true

	case *js.YieldExpr:
		x, changed := r.expr(n.X)
		if !changed {
			return e, false
		}
		return &js.YieldExpr{Generator: n.Generator, X: x}, true

	case *js.CommaExpr:
		list, changed := r.exprs(n.List)
		if !changed {
			return e, false
		}
		return &js.CommaExpr{List: list}, true

	case *js.ArrayExpr:
		list, changed := rewriteSlice(n.List, r.element)
		if !changed {
			return e, false
		}
		return &js.ArrayExpr{List: list}, true

	case *js.ObjectExpr:
		list, changed := rewriteSlice(n.List, r.property)
		if !changed {
			return e, false
		}
		return &js.ObjectExpr{List: list}, true

	case *js.ArrowFunc:
		params, c1 := r.params(n.Params)
		body, c2 := r.blockValue(n.Body)
		if !c1 && !c2 {
			return e, false
		}
		return &js.ArrowFunc{Async: n.Async, Params: params, Body: body}, true

	case *js.VarDecl:
		return r.varDecl(n)

	case *js.FuncDecl:
		return r.funcDecl(n)

	case *js.ClassDecl:
		return r.classDecl(n)

	case *js.MethodDecl:
		return r.methodDecl(n)
	}

	// Identifiers, literals and meta properties.
	return e, false
}

func (r *rewriter) templatePart(p js.TemplatePart) (js.TemplatePart, bool) {
	x, changed := r.expr(p.Expr)
	if !changed {
		return p, false
	}
	p.Expr = x
	return p, true
}

func (r *rewriter) args(a js.Args) (js.Args, bool) {
	list, changed := rewriteSlice(a.List, func(arg js.Arg) (js.Arg, bool) {
		v, changed := r.expr(arg.Value)
		if !changed {
			return arg, false
		}
		arg.Value = v
		return arg, true
	})
	if !changed {
		return a, false
	}
	return js.Args{List: list}, true
}

func (r *rewriter) element(el js.Element) (js.Element, bool) {
	v, changed := r.expr(el.Value)
	if !changed {
		return el, false
	}
	el.Value = v
	return el, true
}

func (r *rewriter) property(p js.Property) (js.Property, bool) {
	name, c1 := r.propertyName(p.Name)
	value, c2 := r.expr(p.Value)
	init, c3 := r.expr(p.Init)
	if !c1 && !c2 && !c3 {
		return p, false
	}
	p.Name = name
	p.Value = value
	p.Init = init
	return p, true
}

func (r *rewriter) propertyName(pn *js.PropertyName) (*js.PropertyName, bool) {
	if pn == nil {
		return nil, false
	}
	x, changed := r.expr(pn.Computed)
	if !changed {
		return pn, false
	}
	c := *pn
	c.Computed = x
	return &c, true
}

func (r *rewriter) binding(b js.IBinding) (js.IBinding, bool) {
	if b == nil || r.err != nil {
		return b, false
	}

	switch n := b.(type) {
	case *js.BindingArray:
		list, c1 := rewriteSlice(n.List, r.bindingElement)
		rest, c2 := r.binding(n.Rest)
		if !c1 && !c2 {
			return b, false
		}
		return &js.BindingArray{List: list, Rest: rest}, true

	case *js.BindingObject:
		list, changed := rewriteSlice(n.List, func(item js.BindingObjectItem) (js.BindingObjectItem, bool) {
			key, c1 := r.propertyName(item.Key)
			value, c2 := r.bindingElement(item.Value)
			if !c1 && !c2 {
				return item, false
			}
			return js.BindingObjectItem{Key: key, Value: value}, true
		})
		if !changed {
			return b, false
		}
		return &js.BindingObject{List: list, Rest: n.Rest}, true
	}
	return b, false
}

func (r *rewriter) bindingElement(el js.BindingElement) (js.BindingElement, bool) {
	binding, c1 := r.binding(el.Binding)
	def, c2 := r.expr(el.Default)
	if !c1 && !c2 {
		return el, false
	}
	return js.BindingElement{Binding: binding, Default: def}, true
}

func (r *rewriter) params(p js.Params) (js.Params, bool) {
	list, c1 := rewriteSlice(p.List, r.bindingElement)
	rest, c2 := r.binding(p.Rest)
	if !c1 && !c2 {
		return p, false
	}
	return js.Params{List: list, Rest: rest}, true
}

func (r *rewriter) varDecl(n *js.VarDecl) (*js.VarDecl, bool) {
	list, changed := rewriteSlice(n.List, r.bindingElement)
	if !changed {
		return n, false
	}
	c := *n
	c.List = list
	return &c, true
}

func (r *rewriter) funcDecl(n *js.FuncDecl) (*js.FuncDecl, bool) {
	params, c1 := r.params(n.Params)
	body, c2 := r.blockValue(n.Body)
	if !c1 && !c2 {
		return n, false
	}
	c := *n
	c.Params = params
	c.Body = body
	return &c, true
}

func (r *rewriter) methodDecl(n *js.MethodDecl) (*js.MethodDecl, bool) {
	name, c1 := r.classElementName(n.Name)
	params, c2 := r.params(n.Params)
	body, c3 := r.blockValue(n.Body)
	if !c1 && !c2 && !c3 {
		return n, false
	}
	c := *n
	c.Name = name
	c.Params = params
	c.Body = body
	return &c, true
}

func (r *rewriter) classElementName(n js.ClassElementName) (js.ClassElementName, bool) {
	x, changed := r.expr(n.Computed)
	if !changed {
		return n, false
	}
	n.Computed = x
	return n, true
}

func (r *rewriter) classDecl(n *js.ClassDecl) (*js.ClassDecl, bool) {
	extends, c1 := r.expr(n.Extends)
	list, c2 := rewriteSlice(n.List, r.classElement)
	if !c1 && !c2 {
		return n, false
	}
	c := *n
	c.Extends = extends
	c.List = list
	return &c, true
}

func (r *rewriter) classElement(el js.ClassElement) (js.ClassElement, bool) {
	switch {
	case el.StaticBlock != nil:
		b, changed := r.block(el.StaticBlock)
		el.StaticBlock = b
		return el, changed
	case el.Method != nil:
		m, changed := r.methodDecl(el.Method)
		el.Method = m
		return el, changed
	}

	name, c1 := r.classElementName(el.Name)
	init, c2 := r.expr(el.Init)
	if !c1 && !c2 {
		return el, false
	}
	el.Name = name
	el.Init = init
	return el, true
}

// marker replaces one graphql tag with the identifier of its artifact and
// queues the binding that declares it.
func (r *rewriter) marker(n *js.TemplateExpr) (js.IExpr, bool) {
	index := len(r.sites) + 1
	fail := func(err error) (js.IExpr, bool) {
		r.err = &MarkerError{File: r.file.Path, Index: index, Err: err}
		return n, false
	}

	def, err := gqltag.Parse(MarkerText(n))
	if err != nil {
		return fail(err)
	}

	ref := artifact.Resolve(r.file.Path, r.t.cfg.ArtifactDirectory, def.Name)
	binding, ident, err := Synthesize(r.t.builder, ref, r.file.Module)
	if err != nil {
		return fail(err)
	}

	r.pending = append(r.pending, binding)
	r.sites = append(r.sites, Site{Definition: def, Reference: ref})
	r.t.logger.Debug("rewrote graphql tag",
		"file", r.file.Path,
		"definition", def.Name,
		"kind", string(def.Kind),
		"artifact", ref.Path,
	)

	// The replacement is a bare identifier and has nothing left to visit.
	return ident, true
}

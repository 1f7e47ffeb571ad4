package infer

import (
	"jsema/internal/types"
)

const (
	// maxIncorporationRounds bounds bound propagation; real inputs reach
	// the fixpoint in two or three rounds.
	maxIncorporationRounds = 10
	maxGroundDepth         = 16
)

// job is a constraint deferred until the arguments pertinent to
// applicability are checked: implicitly typed lambdas, inexact method
// references and everything under them. Jobs run against the context being
// solved, which is the outermost one once nested invocations merged theirs.
type job func(ctx *inferCtx) bool

// inferCtx is the inference state of one candidate.
type inferCtx struct {
	reg       *types.Registry
	vars      []*types.InferenceVar
	jobs      []job
	commits   []func()
	unchecked bool
}

func newInferCtx(reg *types.Registry) *inferCtx {
	return &inferCtx{reg: reg}
}

// freshVars creates one inference variable per type parameter, extends s
// with them and records the declared bounds.
func (ctx *inferCtx) freshVars(params []*types.TypeVar, s types.Substitution) types.Substitution {
	if len(params) == 0 {
		return s
	}
	ivars := make([]types.Type, len(params))
	for i, p := range params {
		iv := ctx.reg.NewInferenceVar(p)
		ivars[i] = iv
		ctx.vars = append(ctx.vars, iv)
	}
	s = s.AndThen(types.NewSubst(params, ivars))
	for i, p := range params {
		if b := types.Subst(p.UpperBound(), s); b != nil && !types.IsObject(b) {
			ivars[i].(*types.InferenceVar).AddBound(types.BoundUpper, b)
		}
	}
	return s
}

// absorb takes over the variables and deferred work of a nested
// invocation, which is then solved together with this one.
func (ctx *inferCtx) absorb(inner *inferCtx) {
	ctx.vars = append(ctx.vars, inner.vars...)
	ctx.jobs = append(ctx.jobs, inner.jobs...)
	ctx.commits = append(ctx.commits, inner.commits...)
	inner.jobs = nil
	inner.commits = nil
}

// runJobs runs deferred constraints in argument order, including those the
// jobs themselves add.
func (ctx *inferCtx) runJobs() bool {
	for i := 0; i < len(ctx.jobs); i++ {
		if !ctx.jobs[i](ctx) {
			return false
		}
	}
	ctx.jobs = nil
	return true
}

func (ctx *inferCtx) commit() {
	for _, c := range ctx.commits {
		c()
	}
	ctx.commits = nil
}

func (ctx *inferCtx) boundCount() int {
	n := 0
	for _, v := range ctx.vars {
		n += len(v.Bounds(types.BoundUpper)) + len(v.Bounds(types.BoundLower)) + len(v.Bounds(types.BoundEq))
	}
	return n
}

// incorporate propagates bounds until nothing changes: every lower bound
// must be a subtype of every upper bound and equal bounds must agree with
// all others. Relations between proper types that fail make the bound set
// inconsistent; relations mentioning variables only add bounds to them.
func (ctx *inferCtx) incorporate() bool {
	for round := 0; round < maxIncorporationRounds; round++ {
		before := ctx.boundCount()
		for _, v := range ctx.vars {
			if v.Inst() != nil {
				continue
			}
			eqs := append([]types.Type(nil), v.Bounds(types.BoundEq)...)
			lows := append([]types.Type(nil), v.Bounds(types.BoundLower)...)
			ups := append([]types.Type(nil), v.Bounds(types.BoundUpper)...)
			for i, e := range eqs {
				for _, l := range lows {
					if !ctx.relate(l, e, types.IsSubtype) {
						return false
					}
				}
				for _, u := range ups {
					if !ctx.relate(e, u, types.IsSubtype) {
						return false
					}
				}
				for _, e2 := range eqs[i+1:] {
					if !ctx.relate(e, e2, types.IsSameType) {
						return false
					}
				}
			}
			for _, l := range lows {
				for _, u := range ups {
					if !ctx.relate(l, u, types.IsSubtype) {
						return false
					}
				}
			}
		}
		if ctx.boundCount() == before {
			return true
		}
	}
	return true
}

func (ctx *inferCtx) relate(a, b types.Type, rel func(a, b types.Type) bool) bool {
	a, b = ctx.partial(a), ctx.partial(b)
	if types.IsErrorLike(a) || types.IsErrorLike(b) {
		return true
	}
	if rel(a, b) {
		return true
	}
	return !(ctx.proper(a) && ctx.proper(b))
}

// solve instantiates every variable of the context.
func (ctx *inferCtx) solve() bool { return ctx.solveVars(ctx.vars) }

// solveVars instantiates want and the variables their bounds depend on.
// Variables whose bounds are proper go first.
func (ctx *inferCtx) solveVars(want []*types.InferenceVar) bool {
	if !ctx.incorporate() {
		return false
	}
	for {
		pending := ctx.dependencies(want)
		if len(pending) == 0 {
			return true
		}
		if !ctx.resolveVar(ctx.pick(pending)) {
			return false
		}
		if !ctx.incorporate() {
			return false
		}
	}
}

// dependencies lists the unsolved variables of want plus the unsolved
// variables their bounds mention, transitively.
func (ctx *inferCtx) dependencies(want []*types.InferenceVar) []*types.InferenceVar {
	seen := map[*types.InferenceVar]bool{}
	var out []*types.InferenceVar
	var visit func(v *types.InferenceVar)
	visit = func(v *types.InferenceVar) {
		if seen[v] || v.Inst() != nil {
			return
		}
		seen[v] = true
		out = append(out, v)
		for _, kind := range []types.BoundKind{types.BoundEq, types.BoundLower, types.BoundUpper} {
			for _, b := range v.Bounds(kind) {
				for _, dep := range types.FreeInferenceVars(ctx.partial(b)) {
					visit(dep)
				}
			}
		}
	}
	for _, v := range want {
		visit(v)
	}
	return out
}

// pick chooses the next variable to instantiate: one whose bounds mention
// no other pending variable, else one with a proper equal or lower bound,
// else the first.
func (ctx *inferCtx) pick(pending []*types.InferenceVar) *types.InferenceVar {
	for _, v := range pending {
		if ctx.independent(v) {
			return v
		}
	}
	for _, v := range pending {
		for _, kind := range []types.BoundKind{types.BoundEq, types.BoundLower} {
			for _, b := range v.Bounds(kind) {
				if ctx.proper(b) {
					return v
				}
			}
		}
	}
	return pending[0]
}

func (ctx *inferCtx) independent(v *types.InferenceVar) bool {
	for _, kind := range []types.BoundKind{types.BoundEq, types.BoundLower, types.BoundUpper} {
		for _, b := range v.Bounds(kind) {
			for _, dep := range types.FreeInferenceVars(ctx.partial(b)) {
				if dep != v {
					return false
				}
			}
		}
	}
	return true
}

// resolveVar instantiates v from its proper bounds and checks the choice
// against all of them.
func (ctx *inferCtx) resolveVar(v *types.InferenceVar) bool {
	inst := ctx.candidateFor(v)
	v.SetInst(inst)
	for _, kind := range []types.BoundKind{types.BoundUpper, types.BoundLower, types.BoundEq} {
		for _, b := range append([]types.Type(nil), v.Bounds(kind)...) {
			b = ctx.partial(b)
			if types.IsErrorLike(b) {
				continue
			}
			var ok bool
			switch kind {
			case types.BoundUpper:
				ok = types.IsSubtype(inst, b)
			case types.BoundLower:
				ok = types.IsSubtype(b, inst)
			default:
				ok = types.IsSameType(inst, b)
			}
			if !ok && kind == types.BoundUpper && types.UncheckedConversionExists(inst, b) != types.UncheckedNone {
				ok = true
			}
			if !ok && ctx.proper(b) {
				return false
			}
		}
	}
	return true
}

// candidateFor is the instantiation JLS 18.4 picks: an equal bound, else
// the lub of the lower bounds, else the glb of the upper bounds.
func (ctx *inferCtx) candidateFor(v *types.InferenceVar) types.Type {
	var lows, ups []types.Type
	for _, b := range v.Bounds(types.BoundEq) {
		if b = ctx.partial(b); ctx.proper(b) && !types.IsErrorLike(b) {
			return b
		}
	}
	for _, b := range v.Bounds(types.BoundLower) {
		if b = ctx.partial(b); ctx.proper(b) && !types.IsSentinel(b, types.SentinelNull) {
			lows = append(lows, b)
		}
	}
	if len(lows) > 0 {
		return ctx.reg.Lub(lows...)
	}
	for _, b := range v.Bounds(types.BoundUpper) {
		if b = ctx.partial(b); ctx.proper(b) {
			ups = append(ups, b)
		}
	}
	if len(ups) > 0 {
		return ctx.reg.Glb(ups...)
	}
	if o := v.Origin(); o != nil {
		if b := o.UpperBound(); b != nil {
			return types.Erasure(b)
		}
	}
	return ctx.reg.Object()
}

// partial replaces solved variables by their instantiation.
func (ctx *inferCtx) partial(t types.Type) types.Type { return groundType(ctx.reg, t, false) }

// ground replaces solved variables by their instantiation and unsolved ones
// by ERROR.
func (ctx *inferCtx) ground(t types.Type) types.Type { return groundType(ctx.reg, t, true) }

func (ctx *inferCtx) proper(t types.Type) bool {
	return len(types.FreeInferenceVars(ctx.partial(t))) == 0
}

func groundType(reg *types.Registry, t types.Type, final bool) types.Type {
	if t == nil {
		return nil
	}
	for i := 0; i < maxGroundDepth; i++ {
		vars := types.FreeInferenceVars(t)
		if len(vars) == 0 {
			return t
		}
		s := types.EmptySubst
		for _, v := range vars {
			switch {
			case v.Inst() != nil:
				s = s.Plus(v, v.Inst())
			case final:
				s = s.Plus(v, reg.Error)
			}
		}
		if s.IsEmpty() {
			return t
		}
		t = types.Subst(t, s)
	}
	return t
}

// instantiated returns view with every variable of the context replaced by
// its instantiation.
func (ctx *inferCtx) instantiated(view *types.MethodSig) *types.MethodSig {
	if len(ctx.vars) == 0 {
		return view
	}
	s := types.EmptySubst
	for _, v := range ctx.vars {
		s = s.Plus(v, ctx.ground(v))
	}
	return view.Instantiate(s)
}

// freeVars lists the unsolved variables mentioned by ts.
func (ctx *inferCtx) freeVars(ts ...types.Type) []*types.InferenceVar {
	var out []*types.InferenceVar
	seen := map[*types.InferenceVar]bool{}
	for _, t := range ts {
		for _, v := range types.FreeInferenceVars(ctx.partial(t)) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

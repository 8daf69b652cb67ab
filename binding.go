package siter

// Arity is the set of argument counts a macro or function accepts,
// represented as a set (map to true) rather than a slice so the
// single-argument-sugar check in the evaluator is a plain map lookup
// against a singleton rather than a linear scan — the Go equivalent of
// the original's `num_params == [1]` list-equality check.
type Arity map[int]bool

// NewArity builds an Arity set from the given counts, mirroring how the
// original passes arity as a literal Python list ([2, 3], [1], ...).
func NewArity(counts ...int) Arity {
	a := make(Arity, len(counts))
	for _, c := range counts {
		a[c] = true
	}
	return a
}

// IsSingleton reports whether this Arity accepts exactly one argument
// count, namely 1 itself. This is the gate for the capture_args
// single-argument sugar.
func (a Arity) IsSingleton() bool {
	return len(a) == 1 && a[1]
}

func (a Arity) Contains(n int) bool {
	return a[n]
}

// BindingKind tags which of the three binding shapes a Binding value
// holds, used the way pongo2's tags.go dispatches on which INodeTag
// implementation a parsed tag produced.
type BindingKind int

const (
	BindVariable BindingKind = iota
	BindMacro
	BindFunction
)

// FunctionImpl is a builtin's implementation. Eager functions receive
// already-evaluated, resolved argument strings and return replacement
// text. Lazy functions receive the raw (unevaluated) argument blocks and
// an Evaluator handle so they can selectively evaluate, and return a
// single block the evaluator will then evaluate itself.
type FunctionImpl func(ev *Evaluator, args []string) (string, error)

// LazyFunctionImpl is the lazy counterpart of FunctionImpl: it receives
// the raw, unevaluated argument blocks and returns a single replacement
// Block that the evaluator will evaluate in turn (exactly as the
// original's evaluate_block feeds a lazy call's raw args to binding.func
// and then re-runs evaluate_block over whatever block it returns).
type LazyFunctionImpl func(ev *Evaluator, args []*Token) (*Token, error)

// Binding is one entry in a BindingEnvironment: a variable's stored body,
// a macro's parameter list and body, or a builtin function's
// implementation and arity. Exactly one of the three non-nil fields
// matching Kind is meaningful on any given value, mirroring the
// original's three separate *Binding subclasses collapsed into one
// struct rather than kept as a Go interface with three implementations,
// since the evaluator needs to switch on kind anyway and a struct keeps
// the zero-value fields visibly unused rather than hidden in an unboxed
// interface.
type Binding struct {
	Kind      BindingKind
	Protected bool

	// BindVariable
	Body TokenCollection

	// BindMacro
	Params      []string
	NumRequired int
	NumParams   int // len(Params); kept distinct from Arity for macros

	// BindFunction
	Arity   Arity
	Lazy    bool
	Func    FunctionImpl
	LazyFun LazyFunctionImpl
}

// NewVariableBinding wraps tokens as a variable binding.
func NewVariableBinding(body TokenCollection) *Binding {
	return &Binding{Kind: BindVariable, Body: body}
}

// NewMacroBinding splits params into required/optional halves at the
// first occurrence of the optional-delimiter token ("/"), exactly as
// MacroBinding.__init__ does, then drops the delimiter itself from the
// parameter list.
func NewMacroBinding(params []string, body TokenCollection) *Binding {
	numRequired := len(params)
	for i, p := range params {
		if p == optDelimiter {
			numRequired = i
			params = append(append([]string{}, params[:i]...), params[i+1:]...)
			break
		}
	}
	return &Binding{
		Kind:        BindMacro,
		Params:      params,
		NumRequired: numRequired,
		NumParams:   len(params),
		Body:        body,
	}
}

// macroArity reports the macro's accepted argument-count window as a
// (min, max) pair, since macros (unlike functions) accept a contiguous
// range rather than an arbitrary set.
func (b *Binding) macroArity() (min, max int) {
	return b.NumRequired, b.NumParams
}

// NewFunctionBinding registers a builtin. Exactly one of fn/lazyFn
// should be non-nil, matching lazy.
func NewFunctionBinding(arity Arity, lazy bool, fn FunctionImpl, lazyFn LazyFunctionImpl) *Binding {
	return &Binding{Kind: BindFunction, Arity: arity, Lazy: lazy, Func: fn, LazyFun: lazyFn}
}

// optDelimiter separates required from optional macro parameters, e.g.
// {{!def {{greet}} {{name / title}} {{Hello {{!title}} {{!name}}}}}}.
const optDelimiter = "/"

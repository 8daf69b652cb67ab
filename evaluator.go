package siter

import "errors"

// maxMacroDepth bounds recursive macro calls, the same guard pongo2's
// tagMacroNode.Execute keeps on ExecutionContext.macroDepth, generalized
// here to siter's single macro-call site in evaluateBlock.
const maxMacroDepth = 1000

// Evaluator walks a token tree, resolving {{ }} calls against a
// BindingEnvironment into final text. It is the Go analogue of CSiter's
// evaluate_block/_evaluate_collection pair, kept as its own type (rather
// than methods hung directly off BindingEnvironment) so a driver can
// hold one Evaluator per in-flight page render.
type Evaluator struct {
	Bindings *BindingEnvironment

	// Warn receives every non-fatal diagnostic raised while evaluating;
	// the driver wires this to its logger. A nil Warn silently discards
	// warnings, which test code relies on for fixtures that intentionally
	// exercise the warning paths.
	Warn func(*Warning)

	macroDepth int
}

func (ev *Evaluator) warn(kind ErrorKind, sender, format string, args ...any) {
	if ev.Warn != nil {
		ev.Warn(newWarning(kind, sender, format, args...))
	}
}

// fatalUnwind carries a fatal *Error up through EvaluateBlock's recursion.
// EvaluateCollection/EvaluateBlock have no error return (by design, to keep
// the recursive splicing logic simple), so a fatal error can't be returned
// normally from deep inside a macro call; Evaluate is the single place that
// recovers it, the Go analogue of the original's Util.error fatal exit.
type fatalUnwind struct{ err *Error }

// handleBuiltinError dispatches a builtin's returned error: fatal errors
// (e.g. ErrOverwrite from redefining a protected binding) unwind the whole
// evaluation via panic/recover, everything else is just a warning.
func (ev *Evaluator) handleBuiltinError(name string, err error) {
	var serr *Error
	if errors.As(err, &serr) && serr.Kind.Fatal() {
		panic(fatalUnwind{serr})
	}
	ev.warn(ErrValue, name, "%s", err)
}

// Evaluate is the top-level entry point: it evaluates c and recovers any
// fatal error raised deep within the recursive EvaluateBlock/EvaluateCollection
// calls, returning it as an ordinary error instead of letting it crash the
// process.
func (ev *Evaluator) Evaluate(c TokenCollection) (out TokenCollection, err error) {
	defer func() {
		if r := recover(); r != nil {
			unwind, ok := r.(fatalUnwind)
			if !ok {
				panic(r)
			}
			out = nil
			err = unwind.err
		}
	}()
	return ev.EvaluateCollection(c), nil
}

// EvaluateCollection evaluates every token in c in order, splicing each
// KindBlock token's evaluation result in place and passing every other
// token through unchanged. This is _evaluate_collection.
func (ev *Evaluator) EvaluateCollection(c TokenCollection) TokenCollection {
	var out TokenCollection
	for _, tok := range c {
		if tok.Kind == KindBlock {
			out = out.AddCollection(ev.EvaluateBlock(tok))
		} else {
			out = out.Append(tok)
		}
	}
	return out
}

// EvaluateBlock evaluates a single {{ ... }} block: if its contents don't
// open with an Eval-hinted name, the block is just a grouping construct
// and its children are evaluated and spliced through. Otherwise the name
// is looked up and dispatched according to the binding's kind. This is
// evaluate_block.
func (ev *Evaluator) EvaluateBlock(block *Token) TokenCollection {
	var out TokenCollection

	name, ok := captureCall(block.Children)
	if !ok {
		return ev.EvaluateCollection(block.Children)
	}

	if !ev.Bindings.Contains(name) {
		ev.warn(ErrUnknownBinding, "evaluator", "use of unknown binding %s:\n%s", name, block)
		return out
	}

	binding := ev.Bindings.Get(name)

	switch binding.Kind {
	case BindVariable:
		out = out.AddCollection(ev.EvaluateCollection(binding.Body))

	case BindMacro:
		args := captureArgs(block.Children, binding.NumParams == 1)
		min, max := binding.macroArity()
		if len(args) < min || len(args) > max {
			ev.warn(ErrArity, "evaluator", "macro %s takes %d-%d args, got %d:\n%s",
				name, min, max, len(args), block)
			return out
		}

		if ev.macroDepth >= maxMacroDepth {
			ev.warn(ErrArity, "evaluator", "maximum recursive macro call depth reached calling %s (max is %d)",
				name, maxMacroDepth)
			return out
		}
		ev.macroDepth++

		ev.Bindings.Push()
		for i, param := range binding.Params {
			if i < len(args) {
				ev.Bindings.AddVariable(param, ev.EvaluateBlock(args[i]), false)
			} else {
				ev.Bindings.AddVariable(param, nil, false)
			}
		}
		out = out.AddCollection(ev.EvaluateCollection(binding.Body))
		ev.Bindings.Pop()

		ev.macroDepth--

	case BindFunction:
		args := captureArgs(block.Children, binding.Arity.IsSingleton())
		if !binding.Arity.Contains(len(args)) {
			ev.warn(ErrArity, "evaluator", "function %s takes %v args, got %d:\n%s",
				name, binding.Arity, len(args), block)
			return out
		}

		if binding.Lazy {
			result, err := binding.LazyFun(ev, args)
			if err != nil {
				ev.handleBuiltinError(name, err)
				return out
			}
			out = out.AddCollection(ev.EvaluateBlock(result))
		} else {
			arguments := make([]string, len(args))
			for i, a := range args {
				arguments[i] = ev.EvaluateBlock(a).Resolve()
			}
			body, err := binding.Func(ev, arguments)
			if err != nil {
				ev.handleBuiltinError(name, err)
				return out
			}
			out = out.Append(&Token{Kind: KindText, Text: body})
		}
	}

	out.Trim()
	return out
}

// captureCall extracts a block's binding name, the Go port of
// CTokenBlock.capture_call: a block calls a binding only when its first
// (whitespace-skippable) tokens are an Eval marker followed immediately
// by a Text token, which becomes the name.
func captureCall(children TokenCollection) (string, bool) {
	head, _ := children.Capture(KindEval, KindText)
	if head == nil {
		return "", false
	}
	return head[1].Text, true
}

// captureArgs extracts the argument blocks following a call name, the Go
// port of CTokenBlock.capture_args. singleArg is true exactly when the
// binding's accepted arity is the singleton {1} (functions) or its
// parameter count is exactly 1 (macros) — callers compute that via
// Arity.IsSingleton() / NumParams == 1, matching the original's
// `binding.num_params == [1]` / `binding.num_params == 1` equality
// checks precisely (see DESIGN.md's "Multi-argument call syntax" entry).
func captureArgs(children TokenCollection, singleArg bool) []*Token {
	_, tail := children.Capture(KindEval, KindText)
	if tail == nil || len(tail) == 0 {
		return nil
	}

	blockArgs := tail.Filter(KindBlock)

	if singleArg || len(blockArgs) == 0 {
		tail.Trim()
		wrapped := &Token{Kind: KindBlock, Children: tail}
		return []*Token{wrapped}
	}

	return []*Token(blockArgs)
}

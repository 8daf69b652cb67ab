package siter

// Builtin binding names. Kept as exported constants (rather than the
// original's free-floating "siter-def" string literals scattered across
// call sites) so driver.go and tests reference the same identifiers the
// registration code does.
const (
	NameDef       = "def"
	NameIf        = "if"
	NameDatefmt   = "datefmt"
	NameGenerated = "generated"
	NameModified  = "modified"
	NameAnchor    = "anchor"
	NameMarkdown  = "md"
	NameCode      = "code"
	NameStubs     = "stubs"
	NameRoot      = "root"
	NameContent   = "content"
)

// RegisterCoreBuiltins installs every builtin that needs no filesystem
// or site-layout access: def, if, datefmt, anchor, md, code. (stubs,
// root, and content are registered by internal/site's driver, since they
// need the project's directory layout and per-page state.) All of these
// are Protected, matching _set_global_bindings registering every builtin
// with Protected=True so a page can never accidentally shadow one with
// {{def}}.
func RegisterCoreBuiltins(env *BindingEnvironment) error {
	registrations := []struct {
		name      string
		arity     Arity
		lazy      bool
		fn        FunctionImpl
		lazyFn    LazyFunctionImpl
	}{
		{NameDef, NewArity(1, 2, 3), true, nil, builtinDef},
		{NameIf, NewArity(2, 3), true, nil, builtinIf},
		{NameDatefmt, NewArity(2), false, builtinDatefmt, nil},
		{NameAnchor, NewArity(1), false, builtinAnchor, nil},
		{NameMarkdown, NewArity(1), false, builtinMarkdown, nil},
		{NameCode, NewArity(1, 2, 3), false, builtinCode, nil},
	}

	for _, r := range registrations {
		b := NewFunctionBinding(r.arity, r.lazy, r.fn, r.lazyFn)
		if err := env.Add(r.name, b, true); err != nil {
			return err
		}
	}
	return nil
}

// firstText returns the resolved text of a block argument's first
// token, the Go port of `Args[0].tokens.get_token(0).resolve()` used by
// declare_binding to read a name out of `{{name}}`.
func firstText(arg *Token) string {
	if len(arg.Children) == 0 {
		return ""
	}
	return arg.Children[0].Resolve()
}

// builtinDef implements the `def` builtin: declares a variable (1 or 2
// args) or a macro (3 args) in the current binding scope and always
// yields empty output, the Go port of CFunctions.declare_binding.
func builtinDef(ev *Evaluator, args []*Token) (*Token, error) {
	if len(args) == 3 {
		name := firstText(args[0])
		paramTokens := args[1].Children.Filter(KindText)
		params := make([]string, len(paramTokens))
		for i, t := range paramTokens {
			params[i] = t.Text
		}
		if err := ev.Bindings.Add(name, NewMacroBinding(params, TokenCollection{args[2]}), false); err != nil {
			return nil, err
		}
	} else {
		name := firstText(args[0])
		var body TokenCollection
		if len(args) == 2 {
			body = TokenCollection{args[1]}
		}
		if err := ev.Bindings.AddVariable(name, body, false); err != nil {
			return nil, err
		}
	}
	return &Token{Kind: KindBlock}, nil
}

// builtinIf implements the `if` builtin: evaluates and resolves the
// first argument, checks whether the resulting name is a bound name, and
// hands back the matching (still unevaluated) branch for the evaluator
// to evaluate in turn. The Go port of CFunctions.if_check.
func builtinIf(ev *Evaluator, args []*Token) (*Token, error) {
	clause := ev.EvaluateBlock(args[0]).Resolve()

	if ev.Bindings.Contains(clause) {
		return args[1], nil
	}
	if len(args) == 3 {
		return args[2], nil
	}
	return &Token{Kind: KindBlock}, nil
}

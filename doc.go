// Package siter implements the token model, binding environment, and
// recursive evaluator behind siter's {{ }} templating language: a
// uniform grammar where every block either groups plain text or, when it
// opens with an eval hint ("!name ..."), calls a binding (a variable, a
// macro, or a builtin function).
//
// Project-level concerns — loading a project's directory layout,
// rendering every page, and wiring the filesystem-dependent builtins
// (stubs, root, content) — live in internal/site, which depends on this
// package rather than the reverse.
package siter

// Package patternpress compiles a hand-authored pattern library into
// a navigable static site plus a machine-readable search index, and
// grounds a streaming chat assistant's answers in that corpus.
//
// This package contains domain types, pure domain logic (document
// parsing, link rewriting, query scoring, prompt assembly), and the
// service interfaces. Implementations live in subdirectories named
// after their primary dependency or concern (e.g. site/, http/,
// keyring/, tui/).
package patternpress

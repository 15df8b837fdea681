// Package normalize holds the canonicalization primitives shared by identity
// resolution and the bulk importer.
//
// Phones reduce to digits-only keys, names to accent-free case-folded text,
// emails to trimmed lowercase. All functions are pure and total: absence of
// input maps to the empty string, nothing ever fails. Identity decisions all
// over the codebase hinge on these keys, so any change here changes who
// matches whom.
package normalize

// Package complete provides completion candidates for prompt input.
//
// A completer examines the text being edited and the cursor position and
// returns candidates plus the byte span of the token they replace. The
// package offers prefix matching and fuzzy subsequence matching; both are
// pure functions invoked only when the owning mode asks for candidates.
package complete

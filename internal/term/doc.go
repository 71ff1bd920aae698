// Package term is the terminal backend: it owns the tcell screen,
// converts terminal events into editor key events and renders status
// lines, info boxes and menus.
package term

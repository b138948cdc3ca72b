// Package highlight briefly moves the terminal cursor onto the bracket that
// matches the one just typed, then moves it back.
//
// Each hop schedules one restore. Restores are numbered and only the most
// recently scheduled one may run; typing another key runs it early through
// Cancel.
package highlight

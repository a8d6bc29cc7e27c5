// Package views holds the templ components for the public pages. Edit the
// .templ files and run `templ generate`; the *_templ.go files are generated.
package views

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.906 generate

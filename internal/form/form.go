// Package form holds the labeled-input abstraction shared by every page: a
// field declaration, the current value, and the error attached to it.
package form

import (
	"fmt"
	"io"
	"strings"
)

// Errors maps a field to its message. An empty map means the form is valid.
type Errors[F ~string] map[F]string

func (e Errors[F]) Valid() bool { return len(e) == 0 }

func (e Errors[F]) Get(f F) string { return e[f] }

func (e Errors[F]) Clone() Errors[F] {
	out := make(Errors[F], len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

type Kind string

const (
	KindText     Kind = "text"
	KindEmail    Kind = "email"
	KindPassword Kind = "password"
	KindNumber   Kind = "number"
	KindDate     Kind = "date"
)

type Field[F ~string] struct {
	Name        F
	Label       string
	Kind        Kind
	Placeholder string
	HelperText  string
}

// State is not safe for concurrent use; the owning page serialises access.
type State[F ~string] struct {
	fields []Field[F]
	values map[F]string
	errors Errors[F]
}

func New[F ~string](fields ...Field[F]) *State[F] {
	return &State[F]{
		fields: fields,
		values: make(map[F]string, len(fields)),
		errors: Errors[F]{},
	}
}

func (s *State[F]) Fields() []Field[F] {
	out := make([]Field[F], len(s.fields))
	copy(out, s.fields)
	return out
}

// Set stores the value and drops any error on that field, valid or not.
// Errors come back only with the next full validation pass.
func (s *State[F]) Set(name F, value string) {
	s.values[name] = value
	delete(s.errors, name)
}

func (s *State[F]) Value(name F) string { return s.values[name] }

func (s *State[F]) Error(name F) string { return s.errors[name] }

func (s *State[F]) Errors() Errors[F] { return s.errors.Clone() }

func (s *State[F]) SetErrors(errs Errors[F]) { s.errors = errs.Clone() }

// Reset clears values and errors.
func (s *State[F]) Reset() {
	s.values = make(map[F]string, len(s.fields))
	s.errors = Errors[F]{}
}

type View struct {
	Name        string
	Label       string
	Kind        Kind
	Value       string
	Placeholder string
	Error       string
	HelperText  string
}

func (s *State[F]) Views() []View {
	views := make([]View, 0, len(s.fields))
	for _, f := range s.fields {
		views = append(views, View{
			Name:        string(f.Name),
			Label:       f.Label,
			Kind:        f.Kind,
			Value:       s.values[f.Name],
			Placeholder: f.Placeholder,
			Error:       s.errors[f.Name],
			HelperText:  f.HelperText,
		})
	}
	return views
}

// Render prints one field per line: label and value, followed by the error,
// or by the helper text when there is no error.
func Render(w io.Writer, views []View) error {
	for _, v := range views {
		value := v.Value
		switch {
		case value == "" && v.Placeholder != "":
			value = "(" + v.Placeholder + ")"
		case v.Kind == KindPassword:
			value = strings.Repeat("*", len(value))
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", v.Label, value); err != nil {
			return err
		}
		switch {
		case v.Error != "":
			if _, err := fmt.Fprintf(w, "  ! %s\n", v.Error); err != nil {
				return err
			}
		case v.HelperText != "":
			if _, err := fmt.Fprintf(w, "  %s\n", v.HelperText); err != nil {
				return err
			}
		}
	}
	return nil
}

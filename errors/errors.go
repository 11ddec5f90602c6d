package errors

import (
	"fmt"
	"strings"

	"github.com/efu-lang/efugo/types"
)

type ExpectedOneOfKindGotKind struct {
	Expected []types.TokenKind
	Got      types.Token
	Location types.Span
}

func (e ExpectedOneOfKindGotKind) Error() string {
	var kinds []string
	for _, k := range e.Expected {
		kinds = append(kinds, k.String())
	}
	return fmt.Sprintf("%s: got a %s, expected one of %s", e.Location.From, e.Got, strings.Join(kinds, ", "))
}

type ExpectedSymbolGotToken struct {
	Expected []string
	Got      types.Token
	Location types.Span
}

func (e ExpectedSymbolGotToken) Error() string {
	return fmt.Sprintf("%s: got %s, expected one of '%s'", e.Location.From, e.Got, strings.Join(e.Expected, "' '"))
}

type UnexpectedToken struct {
	Got      types.Token
	While    string
	Location types.Span
}

func (e UnexpectedToken) Error() string {
	return fmt.Sprintf("%s: unexpected %s while parsing %s", e.Location.From, e.Got, e.While)
}

type InvalidPipeTarget struct {
	Location types.Span
}

func (e InvalidPipeTarget) Error() string {
	return fmt.Sprintf("%s: pipe target must be a name or a call", e.Location.From)
}

type MalformedTypeName struct {
	Name     string
	Detail   string
	Location types.Span
}

func (e MalformedTypeName) Error() string {
	return fmt.Sprintf("%s: malformed type name '%s': %s", e.Location.From, e.Name, e.Detail)
}

// IncompleteType is panicked by a type builder whose required fields
// were not all set before Build.
type IncompleteType struct {
	Builder string
	Missing string
}

func (e IncompleteType) Error() string {
	return fmt.Sprintf("%s builder: required field %s was never set", e.Builder, e.Missing)
}

// UnhandledNode marks a gap between the parser and a backend; it is a
// compiler bug, not a user error.
type UnhandledNode struct {
	Backend string
	Kind    string
}

func (e UnhandledNode) Error() string {
	return fmt.Sprintf("%s backend: unhandled node kind %s", e.Backend, e.Kind)
}

package filter

import (
	"context"

	"github.com/s0up4200/listnode/marketing"
)

// Filter decides whether a contact matches
type Filter interface {
	// Evaluate checks if a contact matches the filter criteria
	Evaluate(contact marketing.Contact) bool
}

// CompiledFilter is a filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Match is Evaluate with the runtime error exposed
	Match(contact marketing.Contact) (bool, error)

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler is a Compiler that keeps compiled programs around
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// Evaluator selects the contacts a filter matches
type Evaluator interface {
	Select(ctx context.Context, filter CompiledFilter, contacts []marketing.Contact) ([]marketing.Contact, error)
}

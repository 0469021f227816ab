package filter

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/listnode/marketing"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	extra      map[string]any
}

// matchAll is the filter for an empty expression
type matchAll struct{}

func (matchAll) Evaluate(marketing.Contact) bool       { return true }
func (matchAll) Match(marketing.Contact) (bool, error) { return true, nil }
func (matchAll) Expression() string                    { return "" }

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables caching of compiled programs
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		}
	}
}

// WithCustomFunctions adds helper functions to every expression
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.extra, funcs)
	}
}

type exprCompiler struct {
	extra map[string]any
	cache *lruCache[CompiledFilter]
}

// NewExprCompiler creates an expr-based contact filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{extra: make(map[string]any)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles expression. An empty expression matches every contact.
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return matchAll{}, nil
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// the zero contact gives the checker the field and helper types
	program, err := expr.Compile(expression,
		expr.Env(environment(marketing.Contact{}, c.extra)),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{expression: expression, program: program, extra: c.extra}
	if c.cache != nil {
		c.cache.Put(expression, filter)
	}
	return filter, nil
}

func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Evaluate reports whether contact matches. Contacts the expression fails
// on do not match.
func (f *exprFilter) Evaluate(contact marketing.Contact) bool {
	ok, err := f.Match(contact)
	return err == nil && ok
}

func (f *exprFilter) Match(contact marketing.Contact) (bool, error) {
	out, err := expr.Run(f.program, environment(contact, f.extra))
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, Email: contact.Email, Err: err}
	}
	return out.(bool), nil
}

func (f *exprFilter) Expression() string {
	return f.expression
}

// environment exposes a contact and the helper functions to an expression
func environment(contact marketing.Contact, extra map[string]any) map[string]any {
	env := make(map[string]any, 24+len(extra))

	env["Contact"] = contact
	env["ID"] = contact.ID
	env["Email"] = contact.Email
	env["Name"] = contact.Name
	env["Status"] = contact.Status
	env["Tags"] = contact.Tags
	env["Lists"] = contact.Lists
	env["Fields"] = contact.Fields
	env["Created"] = contact.Created

	env["hasTag"] = hasAny(contact.Tags)
	env["inList"] = hasAny(contact.Lists)
	env["field"] = contact.Field

	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["parseDate"] = func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}
	env["now"] = time.Now
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper

	maps.Copy(env, extra)
	return env
}

// hasAny returns a case-insensitive membership test over values
func hasAny(values []string) func(string) bool {
	lowered := make([]string, len(values))
	for i, v := range values {
		lowered[i] = strings.ToLower(v)
	}
	return func(v string) bool {
		return slices.Contains(lowered, strings.ToLower(v))
	}
}

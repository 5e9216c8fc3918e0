package filters

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dosort/pkg/registry"
	"github.com/arthur-debert/dosort/pkg/types"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

const ExprFilterName = "expr"

// ExprFilter evaluates a boolean expression over the resource and the vars
// recorded by earlier filters, e.g. `size.bytes > 1000 && extension == "pdf"`.
// Unknown identifiers evaluate to nil.
type ExprFilter struct {
	source  string
	program *vm.Program
}

type exprOptions struct {
	Expr string `mapstructure:"expr"`
}

// NewExprFilter compiles source
func NewExprFilter(source string) (*ExprFilter, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%s filter needs an expression", ExprFilterName)
	}
	program, err := expr.Compile(source, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	return &ExprFilter{source: source, program: program}, nil
}

func (f *ExprFilter) Config() types.FilterConfig {
	return types.FilterConfig{Name: ExprFilterName, Files: true, Dirs: true}
}

func (f *ExprFilter) Pipeline(res *types.Resource, out types.Output) (bool, error) {
	result, err := expr.Run(f.program, exprEnv(res))
	if err != nil {
		return false, err
	}
	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("expression %q returned %T, expected bool", f.source, result)
	}
	res.Vars.Set(ExprFilterName, matched)
	return matched, nil
}

// exprEnv exposes the resource location and all vars to the expression.
// Vars take precedence over the location keys.
func exprEnv(res *types.Resource) map[string]interface{} {
	env := make(map[string]interface{})
	if res.HasPath() {
		name := filepath.Base(res.Path)
		env["path"] = res.Path
		env["name"] = name
		env["stem"] = strings.TrimSuffix(name, filepath.Ext(name))
		env["extension"] = normalizeExtension(filepath.Ext(name))
		env["parent"] = filepath.Dir(res.Path)
		env["relative_path"] = res.RelativePath()
		env["basedir"] = res.BaseDir
	}
	for key, value := range res.Vars.Map() {
		env[key] = value
	}
	return env
}

func init() {
	registry.MustRegisterFilter(registry.FilterSpec{
		Config:      (&ExprFilter{}).Config(),
		Primary:     "expr",
		Description: "Match entries with a boolean expression",
		New: func(opts registry.Options) (types.Filter, error) {
			var o exprOptions
			if err := registry.Decode(opts, &o); err != nil {
				return nil, err
			}
			return NewExprFilter(o.Expr)
		},
	})
}

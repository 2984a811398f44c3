// Package fileperm provides a linter to check for hardcoded file permissions
package fileperm

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"

	"golang.org/x/tools/go/analysis"
)

// Analyzer is a custom analysis pass that checks for hardcoded file permissions
var Analyzer = &analysis.Analyzer{
	Name: "fileperm",
	Doc:  "checks for hardcoded file permission literals instead of using constants",
	Run:  run,
}

// permFuncs lists the calls whose last argument is a file mode. This covers
// os, afero and *os.File variants alike.
var permFuncs = map[string]bool{
	"Chmod":     true,
	"WriteFile": true,
	"Mkdir":     true,
	"MkdirAll":  true,
	"OpenFile":  true,
}

// permConstants maps mode values to the fileutil constant to use instead.
var permConstants = map[int64]string{
	0o600: "fileutil.ReadWriteUserPermission",
	0o644: "fileutil.ReadWriteUserReadOthers",
	0o660: "fileutil.ReadWriteUserGroup",
	0o700: "fileutil.ReadWriteExecuteUserPermission",
	0o755: "fileutil.ReadWriteExecuteUserReadExecuteOthers",
	0o770: "fileutil.ReadWriteExecuteUserGroup",
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		Check(file, func(pos token.Pos, msg string) {
			pass.Reportf(pos, "%s", msg)
		})
	}
	// Return a dummy non-nil value to satisfy the linter
	return (*struct{})(nil), nil
}

// Check calls report for every hardcoded mode literal in file that has a
// fileutil constant.
func Check(file *ast.File, report func(pos token.Pos, msg string)) {
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || len(call.Args) == 0 {
			return true
		}
		fun, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || !permFuncs[fun.Sel.Name] {
			return true
		}
		lit, ok := call.Args[len(call.Args)-1].(*ast.BasicLit)
		if !ok || lit.Kind != token.INT {
			return true
		}
		if msg, ok := suggest(lit.Value); ok {
			report(lit.Pos(), msg)
		}
		return true
	})
}

// suggest returns the diagnostic for a mode literal, if there is a constant for it.
func suggest(literal string) (string, bool) {
	value, err := strconv.ParseInt(literal, 0, 64)
	if err != nil {
		return "", false
	}
	name, ok := permConstants[value]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("use a file permission constant like '%s' instead of hardcoded '%s'", name, literal), true
}

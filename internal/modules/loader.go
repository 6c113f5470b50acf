// Package modules resolves and evaluates imported source files, caching
// each by its resolved absolute path so that two import statements
// naming the same file share one evaluation and one exports object.
package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrwan84/jeem/internal/evaluator"
	"github.com/mrwan84/jeem/internal/lexer"
	"github.com/mrwan84/jeem/internal/parser"
)

// Loader caches loaded modules by resolved path and detects import
// cycles by tracking paths currently mid-evaluation.
type Loader struct {
	cache      map[string]*evaluator.Module
	processing map[string]bool
}

// NewLoader returns an empty, ready-to-use Loader.
func NewLoader() *Loader {
	return &Loader{
		cache:      make(map[string]*evaluator.Module),
		processing: make(map[string]bool),
	}
}

// Load implements evaluator.ModuleLoader. It resolves path relative to
// fromFile, memoizes by the resolved absolute path, and otherwise runs
// the five-step save/restore sequence: resolve, check cache, swap in a
// fresh module scope and CurrentFile, evaluate and collect exports,
// then restore the interpreter's prior CurrentFile before returning.
func (l *Loader) Load(interp *evaluator.Interpreter, fromFile, path string) (*evaluator.Module, error) {
	abs, err := resolve(fromFile, path)
	if err != nil {
		return nil, &evaluator.ModuleError{Message: err.Error()}
	}

	if mod, ok := l.cache[abs]; ok {
		return mod, nil
	}
	if l.processing[abs] {
		return nil, &evaluator.ModuleError{Message: fmt.Sprintf("circular import involving %s", abs)}
	}
	l.processing[abs] = true
	defer delete(l.processing, abs)

	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, &evaluator.ModuleError{Message: fmt.Sprintf("cannot read module %q: %v", abs, err)}
	}

	lx := lexer.New(string(src))
	ps := parser.New(lx, abs)
	program, err := ps.ParseProgram()
	if err != nil {
		return nil, &evaluator.ModuleError{Message: err.Error()}
	}

	savedFile := interp.CurrentFile
	interp.CurrentFile = abs
	moduleEnv := evaluator.NewChildEnvironment(interp.Global)
	exports, errObj := interp.EvalModule(program, moduleEnv)
	interp.CurrentFile = savedFile
	if errObj != nil {
		return nil, &evaluator.ModuleError{Message: errObj.Inspect()}
	}

	mod := &evaluator.Module{Path: path, Obj: exports}
	l.cache[abs] = mod
	return mod, nil
}

// resolve turns an import path into an absolute filesystem path,
// appending the ".jm" extension when the path omits it and treating the
// path as relative to the directory containing fromFile (or the
// process's working directory when fromFile is empty, as at the
// top-level entry script).
func resolve(fromFile, path string) (string, error) {
	if !strings.HasSuffix(path, ".jm") {
		path += ".jm"
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	dir := "."
	if fromFile != "" {
		dir = filepath.Dir(fromFile)
	}
	return filepath.Abs(filepath.Join(dir, path))
}

// Package files installs the file I/O built-ins: readFile, writeFile,
// appendFile, fileExists, remove, mkdir, rename.
package files

import (
	"os"

	"github.com/mrwan84/jeem/internal/evaluator"
)

func Install(interp *evaluator.Interpreter) {
	interp.RegisterBuiltin("readFile", builtinReadFile)
	interp.RegisterBuiltin("writeFile", builtinWriteFile)
	interp.RegisterBuiltin("appendFile", builtinAppendFile)
	interp.RegisterBuiltin("fileExists", builtinFileExists)
	interp.RegisterBuiltin("remove", builtinRemove)
	interp.RegisterBuiltin("mkdir", builtinMkdir)
	interp.RegisterBuiltin("rename", builtinRename)
}

func argString(args []evaluator.Object, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	s, ok := args[i].(*evaluator.String)
	if !ok {
		return "", false
	}
	return s.Value, true
}

func builtinReadFile(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	path, ok := argString(args, 0)
	if !ok {
		return evaluator.NULL
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return evaluator.NULL
	}
	return &evaluator.String{Value: string(data)}
}

func builtinWriteFile(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	path, ok := argString(args, 0)
	if !ok {
		return evaluator.FALSE
	}
	content, _ := argString(args, 1)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return evaluator.FALSE
	}
	return evaluator.TRUE
}

func builtinAppendFile(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	path, ok := argString(args, 0)
	if !ok {
		return evaluator.FALSE
	}
	content, _ := argString(args, 1)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return evaluator.FALSE
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return evaluator.FALSE
	}
	return evaluator.TRUE
}

func builtinFileExists(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	path, ok := argString(args, 0)
	if !ok {
		return evaluator.FALSE
	}
	if _, err := os.Stat(path); err != nil {
		return evaluator.FALSE
	}
	return evaluator.TRUE
}

func builtinRemove(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	path, ok := argString(args, 0)
	if !ok {
		return evaluator.FALSE
	}
	if err := os.RemoveAll(path); err != nil {
		return evaluator.FALSE
	}
	return evaluator.TRUE
}

func builtinMkdir(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	path, ok := argString(args, 0)
	if !ok {
		return evaluator.FALSE
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return evaluator.FALSE
	}
	return evaluator.TRUE
}

func builtinRename(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	from, ok1 := argString(args, 0)
	to, ok2 := argString(args, 1)
	if !ok1 || !ok2 {
		return evaluator.FALSE
	}
	if err := os.Rename(from, to); err != nil {
		return evaluator.FALSE
	}
	return evaluator.TRUE
}

// Package manifest reads and writes jeem.json, the small project
// descriptor consumed by the `init`/`start`/`test`/`run` CLI verbs.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
)

// FileName is the conventional manifest filename looked up in the
// current working directory.
const FileName = "jeem.json"

// Manifest is the on-disk project descriptor.
type Manifest struct {
	Name    string            `json:"name"`
	Version string            `json:"version"`
	Main    string            `json:"main"`
	Scripts map[string]string `json:"scripts"`
}

// Load reads and parses FileName from the current directory.
func Load() (*Manifest, error) {
	data, err := os.ReadFile(FileName)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", FileName, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", FileName, err)
	}
	return &m, nil
}

// Script resolves name to its source file path, failing if the
// manifest has no such entry.
func (m *Manifest) Script(name string) (string, error) {
	path, ok := m.Scripts[name]
	if !ok {
		return "", fmt.Errorf("no script named %q in %s", name, FileName)
	}
	return path, nil
}

// Init writes a minimal manifest plus starter `main.jm`/`test.jm`
// source files for a new project named name into the current
// directory, refusing to overwrite an existing manifest.
func Init(name string) error {
	if _, err := os.Stat(FileName); err == nil {
		return fmt.Errorf("%s already exists", FileName)
	}
	if name == "" {
		name = "my-project"
	}
	m := Manifest{
		Name:    name,
		Version: "0.1.0",
		Main:    "main.jm",
		Scripts: map[string]string{
			"start": "main.jm",
			"test":  "test.jm",
		},
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(FileName, append(data, '\n'), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile("main.jm", []byte(mainTemplate), 0o644); err != nil {
		return err
	}
	return os.WriteFile("test.jm", []byte(testTemplate), 0o644)
}

const mainTemplate = `print("hello from jeem")
`

const testTemplate = `assert(1 + 1 == 2, "math still works")
print("tests passed")
`

// Package scenario parses and executes YAML-scripted tree workloads.
//
// A scenario file holds a list of operations:
//
//	ops:
//	  - op: mkdir
//	    path: /data
//	  - op: create
//	    path: /data/hello.txt
//	    contents: "hello"
//	  - op: read
//	    path: /data/hello.txt
//	    offset: 0
//	    length: 5
//
// Each entry names its operation with the "op" key; the remaining keys
// are operation-specific options.
package scenario

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Op is a single scripted operation.
type Op interface {
	// Name returns the operation name as written in the scenario file.
	Name() string

	// apply executes the operation against the runner's tree.
	apply(r *Runner) error
}

// MkdirOp creates a directory.
type MkdirOp struct {
	Path string `mapstructure:"path"`
	Mode uint32 `mapstructure:"mode"`
}

func (MkdirOp) Name() string { return "mkdir" }

// CreateOp creates an empty or pre-filled data file.
type CreateOp struct {
	Path     string `mapstructure:"path"`
	Contents string `mapstructure:"contents"`
	Mode     uint32 `mapstructure:"mode"`
}

func (CreateOp) Name() string { return "create" }

// WriteOp writes data into an existing data file at an offset.
type WriteOp struct {
	Path   string `mapstructure:"path"`
	Offset int64  `mapstructure:"offset"`
	Data   string `mapstructure:"data"`
}

func (WriteOp) Name() string { return "write" }

// ReadOp reads a byte range from an existing data file.
type ReadOp struct {
	Path   string `mapstructure:"path"`
	Offset int64  `mapstructure:"offset"`
	Length int    `mapstructure:"length"`

	// Expect, when non-empty, makes the read fail unless the bytes
	// read match it exactly.
	Expect string `mapstructure:"expect"`
}

func (ReadOp) Name() string { return "read" }

// ListOp lists a directory's entries.
type ListOp struct {
	Path string `mapstructure:"path"`
}

func (ListOp) Name() string { return "list" }

// MoveOp renames a node, possibly across directories.
type MoveOp struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

func (MoveOp) Name() string { return "move" }

// RemoveOp unlinks a node. Directories must be empty.
type RemoveOp struct {
	Path string `mapstructure:"path"`
}

func (RemoveOp) Name() string { return "remove" }

// SymlinkOp creates a symbolic link.
type SymlinkOp struct {
	Path   string `mapstructure:"path"`
	Target string `mapstructure:"target"`
}

func (SymlinkOp) Name() string { return "symlink" }

// StatOp reads a node's attributes.
type StatOp struct {
	Path string `mapstructure:"path"`
}

func (StatOp) Name() string { return "stat" }

// file is the on-disk scenario document shape.
type file struct {
	Ops []map[string]any `yaml:"ops"`
}

// Load reads and parses the scenario file at path.
func Load(path string) ([]Op, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse parses a scenario document from r.
func Parse(r io.Reader) ([]Op, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	var doc file
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	ops := make([]Op, 0, len(doc.Ops))
	for i, raw := range doc.Ops {
		op, err := decodeOp(raw)
		if err != nil {
			return nil, fmt.Errorf("ops[%d]: %w", i, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// decodeOp dispatches on the "op" key and decodes the remaining keys
// into the matching typed operation.
func decodeOp(raw map[string]any) (Op, error) {
	name, ok := raw["op"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or non-string 'op' key")
	}

	opts := make(map[string]any, len(raw))
	for k, v := range raw {
		if k != "op" {
			opts[k] = v
		}
	}

	var op Op
	switch name {
	case "mkdir":
		op = &MkdirOp{}
	case "create":
		op = &CreateOp{}
	case "write":
		op = &WriteOp{}
	case "read":
		op = &ReadOp{}
	case "list":
		op = &ListOp{}
	case "move":
		op = &MoveOp{}
	case "remove":
		op = &RemoveOp{}
	case "symlink":
		op = &SymlinkOp{}
	case "stat":
		op = &StatOp{}
	default:
		return nil, fmt.Errorf("unknown operation %q", name)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      op,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build decoder for %q: %w", name, err)
	}
	if err := decoder.Decode(opts); err != nil {
		return nil, fmt.Errorf("invalid options for %q: %w", name, err)
	}
	return op, nil
}

package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	apperr "github.com/matzehuels/layermerge/pkg/errors"
	"github.com/matzehuels/layermerge/pkg/view"
)

// Encode writes root as a document in the given format.
// The output can be read back with [Decode].
func Encode(w io.Writer, root *view.Node, format Format) error {
	return EncodeDocument(w, FromTree(root), format)
}

// EncodeDocument writes doc in the given format.
func EncodeDocument(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
	default:
		return apperr.New(apperr.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	return nil
}

// ExportFile writes root to path, choosing the format from the file
// extension.
func ExportFile(root *view.Node, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Encode(f, root, format)
}

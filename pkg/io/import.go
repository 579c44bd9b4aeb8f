package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	apperr "github.com/matzehuels/layermerge/pkg/errors"
	"github.com/matzehuels/layermerge/pkg/view"
)

// Format is a document serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported document formats.
var Formats = []string{string(FormatJSON), string(FormatYAML), string(FormatTOML)}

// ParseFormat validates s as a document format. "yml" is accepted as YAML.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(s)
	if s == "yml" {
		s = string(FormatYAML)
	}
	if err := apperr.ValidateFormat(s, Formats); err != nil {
		return "", err
	}
	return Format(s), nil
}

// FormatFromPath infers the document format from path's extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", apperr.New(apperr.ErrCodeInvalidFormat, "cannot infer format of %s: no extension", path)
	}
	return ParseFormat(ext)
}

// DecodeDocument reads a document in the given format from r. Unknown fields
// are rejected. DecodeDocument does not close r.
func DecodeDocument(r io.Reader, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode json")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode yaml")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&doc)
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, apperr.New(apperr.ErrCodeInvalidFormat, "decode toml: unknown field %q", undecoded[0].String())
		}
	default:
		return nil, apperr.New(apperr.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	return &doc, nil
}

// Decode reads a document from r and builds its view tree.
//
// Decode returns an error if the document is malformed, names an unknown
// kind or orientation, gives a leaf children, or carries a dimension that
// is neither a non-negative pixel count nor "match"/"wrap". Errors name the
// offending node by its id path.
func Decode(r io.Reader, format Format) (*view.Node, error) {
	doc, err := DecodeDocument(r, format)
	if err != nil {
		return nil, err
	}
	return doc.Tree()
}

// ImportFile reads the document at path, choosing the format from the file
// extension, and returns its view tree.
func ImportFile(path string) (*view.Node, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, format)
}

// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/pkgplan/pkgplan/pkg/cueutil"
)

// Supported manifest formats.
const (
	FormatCUE  Format = "cue"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"

	schemaDefinition = "#Manifest"
)

var (
	//go:embed manifest_schema.cue
	manifestSchema string

	// ErrUnsupportedFormat is returned for a manifest whose extension maps to
	// no known format.
	ErrUnsupportedFormat = errors.New("unsupported manifest format")
)

type (
	// Format names a manifest encoding.
	Format string

	// LoadOption configures Load and LoadBytes.
	LoadOption func(*loadOptions)

	loadOptions struct {
		format      Format
		maxFileSize int64
		logger      *log.Logger
	}
)

// WithFormat forces a format instead of detecting it from the file extension.
func WithFormat(f Format) LoadOption {
	return func(o *loadOptions) { o.format = f }
}

// WithMaxFileSize overrides cueutil.DefaultMaxFileSize.
func WithMaxFileSize(n int64) LoadOption {
	return func(o *loadOptions) { o.maxFileSize = n }
}

// WithLogger sends debug output about decoding to l.
func WithLogger(l *log.Logger) LoadOption {
	return func(o *loadOptions) { o.logger = l }
}

// Formats returns the supported formats.
func Formats() []Format {
	return []Format{FormatCUE, FormatJSON, FormatYAML, FormatTOML, FormatHCL}
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %q (expected .cue, .json, .yaml, .yml, .toml or .hcl)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and parses the manifest at path.
func Load(path string, opts ...LoadOption) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(data, path, opts...)
}

// LoadBytes parses manifest content. filename selects the format unless
// WithFormat is given, and is used in error messages.
//
// Whatever the format, the document is checked against the embedded CUE
// schema before Parse sees it, so every format reports the same field paths.
// All decoding and schema failures are *MalformedManifestError.
func LoadBytes(data []byte, filename string, opts ...LoadOption) (*Manifest, error) {
	o := loadOptions{maxFileSize: cueutil.DefaultMaxFileSize}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	format := o.format
	if format == "" {
		f, err := DetectFormat(filename)
		if err != nil {
			return nil, &MalformedManifestError{File: filename, Message: err.Error(), Err: err}
		}
		format = f
	}
	logger.Debug("loading manifest", "file", filename, "format", format, "bytes", len(data))

	if err := cueutil.CheckFileSize(data, o.maxFileSize, filename); err != nil {
		return nil, &MalformedManifestError{File: filename, Message: "document too large", Err: err}
	}

	doc, err := normalize(format, data, filename)
	if err != nil {
		return nil, err
	}

	f, err := cueutil.Decode[File](manifestSchema, doc, schemaDefinition,
		cueutil.WithFilename(filename), cueutil.WithMaxFileSize(o.maxFileSize))
	if err != nil {
		return nil, schemaFailure(filename, err)
	}
	logger.Debug("manifest decoded", "targets", len(f.Targets), "products", len(f.Products), "platforms", len(f.Platforms))

	m, err := Parse(f)
	if err != nil {
		var mm *MalformedManifestError
		if errors.As(err, &mm) {
			mm.File = filename
		}
		return nil, err
	}
	m.source = filename
	return m, nil
}

// normalize returns a document CUE can compile. CUE and JSON pass through;
// the other formats are decoded into a File and re-encoded as JSON.
func normalize(format Format, data []byte, filename string) ([]byte, error) {
	var f File
	switch format {
	case FormatCUE, FormatJSON:
		return data, nil
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, &MalformedManifestError{File: filename, Message: "invalid YAML: " + err.Error(), Err: err}
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, &MalformedManifestError{File: filename, Message: "invalid TOML: " + tomlMessage(err), Err: err}
		}
	case FormatHCL:
		file, diags := hclparse.NewParser().ParseHCL(data, filename)
		if diags.HasErrors() {
			return nil, &MalformedManifestError{File: filename, Message: "invalid HCL: " + diags.Error(), Err: diags}
		}
		if diags := gohcl.DecodeBody(file.Body, nil, &f); diags.HasErrors() {
			return nil, &MalformedManifestError{File: filename, Message: "invalid HCL: " + diags.Error(), Err: diags}
		}
	default:
		err := fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
		return nil, &MalformedManifestError{File: filename, Message: err.Error(), Err: err}
	}

	out, err := json.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("internal error: re-encode %s manifest: %w", format, err)
	}
	return out, nil
}

func schemaFailure(filename string, err error) error {
	var se *cueutil.SchemaError
	if errors.As(err, &se) {
		msg := se.Error()
		if len(se.Violations) > 0 {
			msg = se.Violations[0].Message
			if n := len(se.Violations) - 1; n > 0 {
				msg += fmt.Sprintf(" (and %d more)", n)
			}
		}
		return &MalformedManifestError{File: filename, Field: se.FirstPath(), Message: msg, Err: se}
	}
	return &MalformedManifestError{File: filename, Message: err.Error(), Err: err}
}

func tomlMessage(err error) string {
	var de *toml.DecodeError
	if errors.As(err, &de) {
		row, col := de.Position()
		return fmt.Sprintf("line %d, column %d: %s", row, col, de.Error())
	}
	var sm *toml.StrictMissingError
	if errors.As(err, &sm) {
		return sm.String()
	}
	return err.Error()
}

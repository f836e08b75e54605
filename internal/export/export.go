// Package export reads and writes application record files. JSON is the
// default format; .yaml and .yml files use YAML.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/blockedby/jobtrends/internal/models"
)

// Format of an export file.
type Format string

// Format constants.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for formats other than json and yaml.
var ErrUnknownFormat = errors.New("unknown export format")

// Document is the envelope written by Write. Load also accepts a bare list.
type Document struct {
	Version      int                   `json:"version" yaml:"version"`
	Applications []*models.Application `json:"applications" yaml:"applications"`
}

// CurrentVersion of the Document layout.
const CurrentVersion = 1

// FormatFor picks the format from a file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads records from path.
func Load(path string) ([]*models.Application, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	apps, err := Decode(f, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return apps, nil
}

// Decode reads records in the given format. Both an envelope with an
// "applications" key and a top-level list are accepted.
func Decode(r io.Reader, format Format) ([]*models.Application, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []*models.Application{}, nil
	}

	var (
		doc  Document
		list []*models.Application
	)

	switch format {
	case FormatJSON:
		if isList(data, '[') {
			err = json.Unmarshal(data, &list)
		} else {
			err = json.Unmarshal(data, &doc)
			list = doc.Applications
		}
	case FormatYAML:
		if isList(data, '-') {
			err = yaml.Unmarshal(data, &list)
		} else {
			err = yaml.Unmarshal(data, &doc)
			list = doc.Applications
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s export: %w", format, err)
	}

	return normalize(list), nil
}

// Write stores records at path in the format implied by its extension.
func Write(path string, apps []*models.Application) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	defer f.Close()

	if err := Encode(f, FormatFor(path), apps); err != nil {
		return err
	}
	return f.Close()
}

// Encode writes records wrapped in a Document.
func Encode(w io.Writer, format Format, apps []*models.Application) error {
	if apps == nil {
		apps = []*models.Application{}
	}
	doc := Document{Version: CurrentVersion, Applications: apps}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json export: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml export: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return nil
}

func isList(data []byte, marker byte) bool {
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		return line[0] == marker
	}
	return false
}

// normalize drops null entries and fills in an empty history.
func normalize(list []*models.Application) []*models.Application {
	out := make([]*models.Application, 0, len(list))
	for _, app := range list {
		if app == nil {
			continue
		}
		if app.StatusHistory == nil {
			app.StatusHistory = []models.StatusChange{}
		}
		out = append(out, app)
	}
	return out
}

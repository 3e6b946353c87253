package schemadef

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/dshills/prosetree/internal/logging"
	"github.com/dshills/prosetree/internal/model"
)

const includeKey = "@include"

// DefaultMaxIncludeDepth limits nested @include directives.
const DefaultMaxIncludeDepth = 8

// Loader reads definition files from a file system.
type Loader struct {
	fs       afero.Fs
	maxDepth int
	logger   *logging.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithMaxIncludeDepth sets the include nesting limit.
func WithMaxIncludeDepth(depth int) LoaderOption {
	return func(l *Loader) {
		if depth > 0 {
			l.maxDepth = depth
		}
	}
}

// WithLogger sets the logger used while loading.
func WithLogger(logger *logging.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a loader reading from fs. A nil fs reads from the OS.
func NewLoader(fs afero.Fs, opts ...LoaderOption) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	l := &Loader{
		fs:       fs,
		maxDepth: DefaultMaxIncludeDepth,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.WithComponent("schemadef")
	return l
}

// Load reads the definition at path together with its includes.
func (l *Loader) Load(path string) (*Definition, error) {
	raw, err := l.loadRaw(filepath.Clean(path), l.maxDepth, nil)
	if err != nil {
		return nil, err
	}
	def, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.logger.WithFields(map[string]any{
		"path":  path,
		"nodes": len(def.Nodes),
		"marks": len(def.Marks),
	}).Debug("definition loaded")
	return def, nil
}

// LoadSchema reads the definition at path and builds its schema.
func (l *Loader) LoadSchema(path string, opts ...model.SchemaOption) (*model.Schema, error) {
	def, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	return Build(def, opts...)
}

// Load reads the definition at path from fs.
func Load(fs afero.Fs, path string) (*Definition, error) {
	return NewLoader(fs).Load(path)
}

// loadRaw reads path and its includes. chain holds the files currently
// being loaded, outermost first.
func (l *Loader) loadRaw(path string, depth int, chain []string) (map[string]any, error) {
	if slices.Contains(chain, path) {
		return nil, fmt.Errorf("%w: %s", ErrIncludeCycle, strings.Join(append(chain, path), " -> "))
	}
	if depth <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrIncludeDepthExceeded, path)
	}
	chain = append(chain[:len(chain):len(chain)], path)
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading definition %s: %w", path, err)
	}
	raw, err := parseRaw(format, path, data)
	if err != nil {
		return nil, err
	}

	includes, ok := raw[includeKey]
	if !ok {
		return raw, nil
	}
	delete(raw, includeKey)

	var includeList []string
	switch v := includes.(type) {
	case string:
		includeList = []string{v}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, invalid("%s: @include must be string or array of strings", path)
			}
			includeList = append(includeList, s)
		}
	default:
		return nil, invalid("%s: @include must be string or array of strings, got %T", path, includes)
	}

	// Includes are lower priority than the including file.
	merged := map[string]any{}
	baseDir := filepath.Dir(path)
	for _, inc := range includeList {
		incPath := filepath.Clean(inc)
		if !filepath.IsAbs(inc) {
			incPath = filepath.Join(baseDir, inc)
		}
		l.logger.WithField("include", incPath).Debug("loading include")
		incRaw, err := l.loadRaw(incPath, depth-1, chain)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", incPath, err)
		}
		merged = mergeRaw(merged, incRaw)
	}
	return mergeRaw(merged, raw), nil
}

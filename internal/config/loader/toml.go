package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// includeKey is the top-level key naming files to load underneath a file.
const includeKey = "@include"

// MaxIncludeDepth bounds nested @include directives.
const MaxIncludeDepth = 8

var (
	// ErrIncludeDepth indicates too many nested @include directives.
	ErrIncludeDepth = errors.New("include depth exceeded")

	// ErrIncludeCycle indicates a file that includes itself.
	ErrIncludeCycle = errors.New("include cycle")

	// ErrIncludeType indicates an @include value that is not a string or
	// a list of strings.
	ErrIncludeType = errors.New("@include must be a string or a list of strings")
)

// TOMLLoader loads configuration from a TOML file. Files named by the
// top-level "@include" key are loaded first and overridden by the including
// file.
type TOMLLoader struct {
	fs   FileSystem
	path string
}

// NewTOMLLoader creates a loader reading path from the OS file system.
func NewTOMLLoader(path string) *TOMLLoader {
	return NewTOMLLoaderWithFS(DefaultFS(), path)
}

// NewTOMLLoaderWithFS creates a loader reading path from fs.
func NewTOMLLoaderWithFS(fs FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{fs: fs, path: path}
}

// Load reads the file and its includes. A missing file yields nil, nil.
func (l *TOMLLoader) Load() (map[string]any, error) {
	return l.load(l.path, nil)
}

func (l *TOMLLoader) load(path string, stack []string) (map[string]any, error) {
	clean := filepath.Clean(path)
	if slices.Contains(stack, clean) {
		return nil, fmt.Errorf("%w: %s", ErrIncludeCycle, path)
	}
	if len(stack) >= MaxIncludeDepth {
		return nil, fmt.Errorf("%w: %s", ErrIncludeDepth, path)
	}

	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	config, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	includes, err := takeIncludes(config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	merged := map[string]any{}
	for _, inc := range includes {
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(filepath.Dir(path), inc)
		}
		sub, err := l.load(inc, append(stack, clean))
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", inc, err)
		}
		merged = DeepMerge(merged, sub)
	}
	return DeepMerge(merged, config), nil
}

// takeIncludes removes the include key from config and returns its paths.
func takeIncludes(config map[string]any) ([]string, error) {
	v, ok := config[includeKey]
	if !ok {
		return nil, nil
	}
	delete(config, includeKey)

	switch v := v.(type) {
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, ErrIncludeType
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w, got %T", ErrIncludeType, v)
	}
}

// Parse decodes TOML data. source names the data in errors.
func Parse(source string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := toml.Unmarshal(data, &config); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		return nil, pe
	}
	if config == nil {
		config = map[string]any{}
	}
	return config, nil
}

// ParseError is a TOML syntax error with its position when known.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DeepMerge merges src into dst and returns dst. Nested maps merge key by
// key; any other src value replaces the dst value.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		sm, ok := v.(map[string]any)
		if dm, isMap := dst[k].(map[string]any); ok && isMap {
			dst[k] = DeepMerge(dm, sm)
			continue
		}
		if ok {
			v = Clone(sm)
		}
		dst[k] = v
	}
	return dst
}

// Clone returns a deep copy of the nested maps in src.
func Clone(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		if m, ok := v.(map[string]any); ok {
			v = Clone(m)
		}
		dst[k] = v
	}
	return dst
}

package load

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File parses one schema document from disk, dispatching on the
// file extension (.json, .yml, .yaml).
func File(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return ParseYAML(data)
	default:
		return Parse(data)
	}
}

// Directory discovers schema documents under dir (recursively) and merges
// them into a single schema. Files are processed in lexical path order so
// the merged type sequence is stable.
func Directory(dir string) (*Schema, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".yml", ".yaml":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover schemas in %s: %w", dir, err)
	}
	sort.Strings(paths)
	schemas := make([]*Schema, 0, len(paths))
	for _, path := range paths {
		s, err := File(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		schemas = append(schemas, s)
	}
	return Merge(schemas...)
}

// Merge combines schema documents: type sequences are concatenated in order,
// codec settings must agree across documents that declare them.
func Merge(schemas ...*Schema) (*Schema, error) {
	merged := &Schema{}
	for _, s := range schemas {
		merged.Types = append(merged.Types, s.Types...)
		if s.CodecNamespace != "" {
			if merged.CodecNamespace != "" && merged.CodecNamespace != s.CodecNamespace {
				return nil, NewParseError("codecNamespace", fmt.Sprintf("conflicting values %q and %q across documents", merged.CodecNamespace, s.CodecNamespace))
			}
			merged.CodecNamespace = s.CodecNamespace
		}
		if s.FullCodec != "" {
			if merged.FullCodec != "" && merged.FullCodec != s.FullCodec {
				return nil, NewParseError("fullCodec", fmt.Sprintf("conflicting values %q and %q across documents", merged.FullCodec, s.FullCodec))
			}
			merged.FullCodec = s.FullCodec
		}
	}
	return merged, nil
}

// Package fs provides file-based transport for extraction artifacts.
// The engine itself stores nothing; callers carry the flat map and
// metadata bundle between extract and inject, and on the command line
// that means files.
package fs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/structguard/structguard"
)

// FlatMapPath returns the flat map file path for a bundle name.
func FlatMapPath(dir, name string) string {
	return filepath.Join(dir, name+".flatmap.json")
}

// BundlePath returns the metadata bundle file path for a bundle name.
func BundlePath(dir, name string) string {
	return filepath.Join(dir, name+".bundle.json")
}

// DeriveName converts a document path to a bundle base name.
// Example: corpus/exports/posts.xml → posts
func DeriveName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		return base
	}
	return name
}

// WriteExtraction writes the flat map and metadata bundle under dir as
// <name>.flatmap.json and <name>.bundle.json. Both files are written
// atomically; a crash never leaves a half-written artifact behind. The
// flat map is indented for hand editing, with keys in document order.
func WriteExtraction(dir, name string, result *structguard.ExtractionResult) (flatPath, bundlePath string, err error) {
	if result == nil || result.FlatMap == nil || result.Metadata == nil {
		return "", "", structguard.Errorf(structguard.EINVALID, "extraction result required")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", err
	}

	flatData, err := json.MarshalIndent(result.FlatMap, "", "  ")
	if err != nil {
		return "", "", err
	}
	bundleData, err := json.MarshalIndent(result.Metadata, "", "  ")
	if err != nil {
		return "", "", err
	}

	flatPath = FlatMapPath(dir, name)
	bundlePath = BundlePath(dir, name)
	if err := WriteFileAtomic(flatPath, append(flatData, '\n')); err != nil {
		return "", "", err
	}
	if err := WriteFileAtomic(bundlePath, append(bundleData, '\n')); err != nil {
		return "", "", err
	}
	return flatPath, bundlePath, nil
}

// WriteFileAtomic writes data to path via a temporary file and rename.
func WriteFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// ReadFlatMap loads a flat map from path, preserving its key order.
func ReadFlatMap(path string) (*structguard.FlatMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m structguard.FlatMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ReadBundle loads and validates a metadata bundle from path.
func ReadBundle(path string) (*structguard.MetadataBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var meta structguard.MetadataBundle
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, structguard.Errorf(structguard.EINVALID, "parse bundle %s: %v", path, err)
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	return &meta, nil
}

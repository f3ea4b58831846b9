// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"path/filepath"
	"strings"

	"github.com/pdiddy/boundary-fetch/internal/outline"
	"github.com/pdiddy/boundary-fetch/pkg/types"
)

// OutputPath locates the saved file for an entry inside the mirrored tree.
type OutputPath struct {
	// Dir mirrors the entry's parent labels under the output root.
	Dir string

	// File is the full path of the saved file.
	File string

	// NodeDir is the directory created for the entry: its own folder for
	// levels 1-4 so children have a home, Dir for villages.
	NodeDir string
}

// segmentReplacer keeps labels from introducing extra path elements.
var segmentReplacer = strings.NewReplacer("/", "_", `\`, "_")

func segment(label string) string {
	s := segmentReplacer.Replace(strings.TrimSpace(label))
	switch s {
	case "", ".", "..":
		return "_"
	}
	return s
}

// ResolvePath computes where an entry is saved. Levels 1-4 are named
// "{code}_{label}.{ext}"; villages are named after the concatenated path.
func ResolvePath(root, ext string, e outline.Entry) OutputPath {
	parts := []string{root}
	for _, p := range e.Parents() {
		parts = append(parts, segment(p))
	}
	dir := filepath.Join(parts...)
	ext = strings.TrimPrefix(ext, ".")

	if e.Node.Level == types.LevelVillage {
		return OutputPath{
			Dir:     dir,
			File:    filepath.Join(dir, segment(e.FullName())+"."+ext),
			NodeDir: dir,
		}
	}
	label := segment(e.Node.Label)
	return OutputPath{
		Dir:     dir,
		File:    filepath.Join(dir, segment(e.Node.Code)+"_"+label+"."+ext),
		NodeDir: filepath.Join(dir, label),
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the records shared by the outline parser, the fetcher
// and the run report.
package types

import "fmt"

// Level is the depth of a node in the administrative hierarchy.
// Level 0 marks a line that is not a node.
type Level int

const (
	LevelNone     Level = iota
	LevelProvince       // "# "
	LevelCity           // "## "
	LevelDistrict       // "- "
	LevelTown           // "  - "
	LevelVillage        // "    - "
)

// MaxLevel is the deepest level an outline can express.
const MaxLevel = LevelVillage

func (l Level) String() string {
	switch l {
	case LevelProvince:
		return "province"
	case LevelCity:
		return "city"
	case LevelDistrict:
		return "district"
	case LevelTown:
		return "town"
	case LevelVillage:
		return "village"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Valid reports whether l is one of the five node levels.
func (l Level) Valid() bool {
	return l >= LevelProvince && l <= MaxLevel
}

// HierarchyNode is one entry of an outline document.
type HierarchyNode struct {
	// Label is the human-readable place name.
	Label string `json:"label" yaml:"label"`

	// Code is the administrative division code, e.g. "110105".
	Code string `json:"code" yaml:"code"`

	Level Level `json:"level" yaml:"level"`
}

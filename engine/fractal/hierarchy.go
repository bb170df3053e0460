package fractal

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-fractal/common"
)

// level is one depth layer of the hierarchy. parts and matrices are parallel slices: the
// matrix at index i is the render transform emitted for the part at index i.
type level struct {
	parts    []Part
	matrices []common.Affine3x4
}

// Hierarchy owns the per-level part and matrix storage of a fractal.
// The zero value is an inactive hierarchy ready for Activate.
//
// Parent relationships are never stored: the parent of part i on level L is part
// i/BranchFactor on level L-1. Storage for one level is contiguous so a level can be
// handed to the GPU as-is.
type Hierarchy struct {
	levels []level
}

// NodeCountAt returns the number of parts on a level, BranchFactor^levelIndex.
//
// Parameters:
//   - levelIndex: the level, 0 being the root level
//
// Returns:
//   - int: the part count of that level
func NodeCountAt(levelIndex int) int {
	n := 1
	for range levelIndex {
		n *= BranchFactor
	}
	return n
}

// TotalNodeCountFor returns the total number of parts held by a hierarchy of the given depth.
//
// Parameters:
//   - depth: the number of levels
//
// Returns:
//   - int: the sum of all level part counts
func TotalNodeCountFor(depth int) int {
	total := 0
	for l := range depth {
		total += NodeCountAt(l)
	}
	return total
}

// ParentIndex returns the index of the parent of part i on the previous level.
func ParentIndex(i int) int {
	return i / BranchFactor
}

// SiblingPosition returns the position of part i within its group of siblings.
func SiblingPosition(i int) int {
	return i % BranchFactor
}

// LevelScale returns the uniform scale of a level given the root scale: rootScale * 0.5^levelIndex.
//
// Parameters:
//   - rootScale: the owner's uniform scale this frame
//   - levelIndex: the level
//
// Returns:
//   - float32: the level's scale
func LevelScale(rootScale float32, levelIndex int) float32 {
	s := rootScale
	for range levelIndex {
		s *= LevelScaleFactor
	}
	return s
}

// Activate allocates levels 0..depth-1 and assigns every part its fixed direction and local
// rotation from its sibling position. Spin angles and world transforms start at zero.
// An already active hierarchy is torn down and fully reallocated.
//
// Activate panics if depth is outside [MinDepth, MaxDepth]; callers are expected to clamp first.
//
// Parameters:
//   - depth: the number of levels to allocate
func (h *Hierarchy) Activate(depth int) {
	if depth < MinDepth || depth > MaxDepth {
		panic(fmt.Sprintf("fractal: hierarchy depth %d outside [%d, %d]", depth, MinDepth, MaxDepth))
	}
	h.Deactivate()

	h.levels = make([]level, depth)
	for l := range h.levels {
		count := NodeCountAt(l)
		parts := make([]Part, count)
		for i := range parts {
			parts[i] = newPart(SiblingPosition(i))
		}
		h.levels[l] = level{
			parts:    parts,
			matrices: make([]common.Affine3x4, count),
		}
	}
}

// Deactivate releases all level storage. Safe to call on an inactive hierarchy.
func (h *Hierarchy) Deactivate() {
	h.levels = nil
}

// Active reports whether level storage is currently allocated.
func (h *Hierarchy) Active() bool {
	return len(h.levels) > 0
}

// Depth returns the number of allocated levels, or 0 when inactive.
func (h *Hierarchy) Depth() int {
	return len(h.levels)
}

// NodeCount returns the number of parts on an allocated level.
//
// Parameters:
//   - levelIndex: the level to query
//
// Returns:
//   - int: the part count
func (h *Hierarchy) NodeCount(levelIndex int) int {
	return len(h.levels[levelIndex].parts)
}

// TotalNodeCount returns the number of parts across all allocated levels.
func (h *Hierarchy) TotalNodeCount() int {
	total := 0
	for _, lv := range h.levels {
		total += len(lv.parts)
	}
	return total
}

// Parts returns the part storage of a level. The slice aliases the hierarchy's storage.
//
// Parameters:
//   - levelIndex: the level to query
//
// Returns:
//   - []Part: the level's parts
func (h *Hierarchy) Parts(levelIndex int) []Part {
	return h.levels[levelIndex].parts
}

// Matrices returns the render matrices of a level. The slice aliases the hierarchy's storage
// and is only complete once the frame's scheduler run has drained.
//
// Parameters:
//   - levelIndex: the level to query
//
// Returns:
//   - []common.Affine3x4: the level's matrices
func (h *Hierarchy) Matrices(levelIndex int) []common.Affine3x4 {
	return h.levels[levelIndex].matrices
}

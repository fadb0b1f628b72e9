package copyplan

import (
	"sort"

	"github.com/copysnap/copysnap/internal/diffing"
	"github.com/copysnap/copysnap/internal/model"
)

// dirNode is one directory in the tree induced by the union of current and
// prior file paths. files holds the per-file classification of direct file
// children; children holds subdirectories keyed by their segment name.
type dirNode struct {
	relPath  model.RelativePath
	files    map[string]diffing.Classification
	children map[string]*dirNode
}

func newDirNode(relPath model.RelativePath) *dirNode {
	return &dirNode{
		relPath:  relPath,
		files:    make(map[string]diffing.Classification),
		children: make(map[string]*dirNode),
	}
}

// Plan computes the minimal CopyAction set realizing diff against
// destinationLocation, given the absolute locations of the current source
// tree and the prior snapshot the diff was computed against. Plan performs
// no I/O; it is a pure function of its inputs.
func Plan(diff diffing.FileSystemDiff, sourceLocation, priorLocation, destinationLocation string) []CopyAction {
	roots := buildTree(diff)

	var actions []CopyAction
	for _, name := range sortedKeys(roots) {
		actions = append(actions, walk(roots[name], sourceLocation, priorLocation, destinationLocation)...)
	}
	return actions
}

func buildTree(diff diffing.FileSystemDiff) map[string]*dirNode {
	roots := make(map[string]*dirNode)

	for relPath, entry := range diff.Entries {
		segments := relPath.Segments()
		if len(segments) == 0 {
			continue
		}
		dirSegments, fileName := segments[:len(segments)-1], segments[len(segments)-1]

		top, ok := roots[segments[0]]
		if !ok {
			top = newDirNode(model.RelativePath(segments[0]))
			roots[segments[0]] = top
		}

		cur := top
		built := segments[0]
		for _, seg := range dirSegments[1:] {
			built = built + "/" + seg
			child, ok := cur.children[seg]
			if !ok {
				child = newDirNode(model.RelativePath(built))
				cur.children[seg] = child
			}
			cur = child
		}
		cur.files[fileName] = entry.Classification
	}

	return roots
}

// purelyUnchanged reports whether every file anywhere beneath node is
// Unchanged or UnchangedButTouched: a New, Changed, Removed, or Error file
// at any depth disqualifies the whole subtree from alias promotion.
func purelyUnchanged(node *dirNode) bool {
	for _, cls := range node.files {
		if !cls.IsUnchangedForPlanning() {
			return false
		}
	}
	for _, child := range node.children {
		if !purelyUnchanged(child) {
			return false
		}
	}
	return true
}

func walk(node *dirNode, sourceLocation, priorLocation, destinationLocation string) []CopyAction {
	if purelyUnchanged(node) {
		return []CopyAction{{
			Variant:             Symlink,
			SourceLocation:      priorLocation,
			DestinationLocation: destinationLocation,
			RelPath:             node.relPath,
		}}
	}

	var actions []CopyAction
	for _, name := range sortedFileNames(node.files) {
		cls := node.files[name]
		relPath := model.Join(node.relPath, name)
		switch cls {
		case diffing.New, diffing.Changed:
			actions = append(actions, CopyAction{
				Variant:             Plain,
				SourceLocation:      sourceLocation,
				DestinationLocation: destinationLocation,
				RelPath:             relPath,
			})
		case diffing.Unchanged, diffing.UnchangedButTouched:
			actions = append(actions, CopyAction{
				Variant:             Symlink,
				SourceLocation:      priorLocation,
				DestinationLocation: destinationLocation,
				RelPath:             relPath,
			})
		case diffing.Removed, diffing.Error:
			// No action: a removed file simply does not exist at the
			// destination, and an errored file is omitted by policy.
		}
	}

	for _, name := range sortedKeys(node.children) {
		actions = append(actions, walk(node.children[name], sourceLocation, priorLocation, destinationLocation)...)
	}

	return actions
}

func sortedKeys(m map[string]*dirNode) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFileNames(m map[string]diffing.Classification) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

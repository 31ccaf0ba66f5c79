package render

import (
	"io"
	"strings"

	"github.com/temirov/codeflat/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
)

// TreeNode is either a *DirectoryNode or a *FileNode.
type TreeNode interface {
	NodeName() string
	isTreeNode()
}

// DirectoryNode keeps its children in insertion order.
type DirectoryNode struct {
	Name     string
	Children []TreeNode
	index    map[string]TreeNode
}

// FileNode is a leaf naming one catalog file.
type FileNode struct {
	Name string
}

func (node *DirectoryNode) NodeName() string { return node.Name }
func (node *FileNode) NodeName() string      { return node.Name }
func (*DirectoryNode) isTreeNode()           {}
func (*FileNode) isTreeNode()                {}

func newDirectoryNode(name string) *DirectoryNode {
	return &DirectoryNode{Name: name, index: map[string]TreeNode{}}
}

// BuildTree inserts each record's path components into a nested tree rooted at
// rootName. Siblings keep catalog order, so an ordered catalog yields an
// ordered tree without sorting here.
func BuildTree(rootName string, catalog []types.FileRecord) *DirectoryNode {
	root := newDirectoryNode(rootName)
	for _, fileRecord := range catalog {
		components := strings.Split(fileRecord.RelativePath, "/")
		current := root
		for _, component := range components[:len(components)-1] {
			current = current.childDirectory(component)
		}
		leafName := components[len(components)-1]
		if _, exists := current.index[leafName]; exists {
			continue
		}
		leaf := &FileNode{Name: leafName}
		current.index[leafName] = leaf
		current.Children = append(current.Children, leaf)
	}
	return root
}

func (node *DirectoryNode) childDirectory(name string) *DirectoryNode {
	if existing, exists := node.index[name]; exists {
		if directory, isDirectory := existing.(*DirectoryNode); isDirectory {
			return directory
		}
	}
	directory := newDirectoryNode(name)
	node.index[name] = directory
	node.Children = append(node.Children, directory)
	return directory
}

// WriteTree writes the root label followed by every descendant using box-drawing connectors.
func WriteTree(writer io.StringWriter, root *DirectoryNode) {
	_, _ = writer.WriteString(root.Name + "/\n")
	writeChildren(writer, root, "")
}

// RenderTree returns the text produced by WriteTree.
func RenderTree(root *DirectoryNode) string {
	var builder strings.Builder
	WriteTree(&builder, root)
	return builder.String()
}

func writeChildren(writer io.StringWriter, directory *DirectoryNode, prefix string) {
	for childIndex, child := range directory.Children {
		isLast := childIndex == len(directory.Children)-1
		connector, padding := treeBranchConnector, treeBranchPadding
		if isLast {
			connector, padding = treeLastConnector, treeLastPadding
		}
		_, _ = writer.WriteString(prefix + connector + child.NodeName() + "\n")
		if nested, isDirectory := child.(*DirectoryNode); isDirectory {
			writeChildren(writer, nested, prefix+padding)
		}
	}
}

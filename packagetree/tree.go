// Package packagetree builds a preview of the folder layout of a package.
package packagetree

import (
	"github.com/stupid-simple/pinpack/asset"
	"github.com/stupid-simple/pinpack/layout"
	"github.com/stupid-simple/pinpack/pathbuilder"
	"github.com/stupid-simple/pinpack/settings"
)

type Kind string

const (
	KindFolder Kind = "folder"
	KindFile   Kind = "file"
)

type Node struct {
	Name     string
	Kind     Kind
	Children []*Node

	// Set on file nodes only.
	Path     string
	Category settings.Category
	Size     int64
}

// Build returns the root of the package layout. The root itself is not part of
// the package. Children are kept in insertion order; see Flatten for display order.
//
// Nothing is placed without a table file.
func Build(table *asset.TableFile, files []asset.AdditionalFile, s settings.PackageSettings) *Node {
	root := &Node{Name: "Package", Kind: KindFolder}
	if table == nil {
		return root
	}

	if p, ok := layout.Table(table, s); ok {
		// The table file is listed under its own file name.
		name := table.Asset.Name()
		dir := root.folder(p.Location)
		dir.Children = append(dir.Children, &Node{
			Name: name,
			Kind: KindFile,
			Path: pathbuilder.EntryPath(p.Location, name),
			Size: table.Asset.Size(),
		})
	}

	for _, f := range files {
		p, ok := layout.File(f, table, s)
		if !ok {
			continue
		}
		dir := root.folder(p.Location)
		dir.Children = append(dir.Children, &Node{
			Name:     p.Name,
			Kind:     KindFile,
			Path:     p.Path,
			Category: f.Category,
			Size:     f.Size,
		})
	}

	return root
}

// folder walks down the segments of location, creating missing folders.
func (n *Node) folder(location string) *Node {
	current := n
	for _, segment := range pathbuilder.SplitLocation(location) {
		current = current.child(segment)
	}
	return current
}

func (n *Node) child(name string) *Node {
	for _, c := range n.Children {
		if c.Kind == KindFolder && c.Name == name {
			return c
		}
	}
	c := &Node{Name: name, Kind: KindFolder}
	n.Children = append(n.Children, c)
	return c
}

// Files returns the number of file nodes below n.
func (n *Node) Files() int {
	var count int
	for _, c := range n.Children {
		if c.Kind == KindFile {
			count++
			continue
		}
		count += c.Files()
	}
	return count
}

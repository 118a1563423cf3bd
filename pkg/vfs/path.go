package vfs

import "strings"

// SplitPath returns the ordered "/"-delimited components of path. An
// absolute path yields a leading "/" component as the absolute-path
// marker; consecutive and trailing separators are suppressed rather
// than preserved; an empty input yields no components.
//
//	SplitPath("/a/b/c") == ["/", "a", "b", "c"]
//	SplitPath("a//b/")  == ["a", "b"]
//	SplitPath("/")      == ["/"]
//	SplitPath("")       == []
func SplitPath(path string) []string {
	var parts []string
	if strings.HasPrefix(path, "/") {
		parts = append(parts, "/")
	}
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// ParsedPath is the transient result of resolving a path down to its
// final component: the locked handle of the resolved parent directory
// paired with the leaf node it lists.
//
// Child may be nil with a valid Parent: the leaf name does not exist
// yet, which is the error-free state create-type operations start from.
// The caller owns Parent and must Unlock it.
type ParsedPath struct {
	Parent *DirectoryHandle
	Child  File
}

// Resolver walks path components against a tree. The starting points
// are supplied externally: Root anchors absolute paths and Cwd anchors
// relative ones (falling back to Root when Cwd is nil). The resolver
// holds at most one directory lock at a time while walking.
type Resolver struct {
	Root *Directory
	Cwd  *Directory
}

// start picks the walk origin from the leading component.
func (r *Resolver) start(parts []string) (*Directory, []string) {
	if len(parts) > 0 && parts[0] == "/" {
		return r.Root, parts[1:]
	}
	if r.Cwd != nil {
		return r.Cwd, parts
	}
	return r.Root, parts
}

// GetDir walks every component and returns the final directory.
//
// Failures: a missing component is NoSuchEntry; a component resolving
// to a non-directory (including the final one) is NotADirectory; a walk
// that reaches forbidden is InvalidArgument. The forbidden parameter
// exists to block operations that would make a directory its own
// descendant, such as a move into one of its own subdirectories; pass
// nil when no ancestor is forbidden.
func (r *Resolver) GetDir(parts []string, forbidden File) (*Directory, error) {
	curr, rest := r.start(parts)

	var node File = curr
	for _, part := range rest {
		dir := AsDirectory(node)
		if dir == nil {
			return nil, NewNotADirectory(part)
		}

		h := dir.Locked()
		next := h.GetEntry(part)
		h.Unlock()

		if forbidden != nil && next == forbidden {
			return nil, NewInvalidArgument(part)
		}
		if next == nil {
			return nil, NewNoSuchEntry(part)
		}
		node = next
	}

	dir := AsDirectory(node)
	if dir == nil {
		return nil, NewNotADirectory(parts[len(parts)-1])
	}
	return dir, nil
}

// GetParsedPath resolves the directory portion of parts (everything but
// the last component) with GetDir, locks it, and looks up the last
// component as the leaf.
//
// A missing leaf is a valid, error-free result: the returned ParsedPath
// has a nil Child and a locked Parent handle. A directory-resolution
// failure propagates its error with no Parent handle. Resolving "/"
// returns the root as both the locked parent and the child. An empty
// component list is NoSuchEntry.
func (r *Resolver) GetParsedPath(parts []string, forbidden File) (ParsedPath, error) {
	if len(parts) == 0 {
		return ParsedPath{}, NewNoSuchEntry("")
	}

	if parts[0] == "/" && len(parts) == 1 {
		return ParsedPath{Parent: r.Root.Locked(), Child: r.Root}, nil
	}

	dir, err := r.GetDir(parts[:len(parts)-1], forbidden)
	if err != nil {
		return ParsedPath{}, err
	}

	h := dir.Locked()
	leaf := parts[len(parts)-1]
	return ParsedPath{Parent: h, Child: h.GetEntry(leaf)}, nil
}

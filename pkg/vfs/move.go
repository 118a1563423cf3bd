package vfs

// Move renames oldParent's entry oldName to newName under newParent as
// an explicit detach-then-attach: a two-lock unlink from the source
// directory, then a two-lock insert into the destination. The two
// phases are sequential, so Move never holds two directory locks at
// once, preserving the lock-order contract, and the node is listed by
// at most one directory at every instant (it is listed nowhere between
// the phases).
//
// An existing destination entry is replaced, rename-style: it is
// unlinked under the destination lock immediately before the insert,
// and becomes unreferenced unless the caller holds it elsewhere.
//
// Move returns NoSuchEntry when oldName is absent. It does not guard
// against moving a directory beneath itself; resolve the destination
// with the source as the forbidden ancestor (Resolver.GetDir) before
// calling.
func Move(oldParent *Directory, oldName string, newParent *Directory, newName string) error {
	src := oldParent.Locked()
	node := src.GetEntry(oldName)
	if node == nil {
		src.Unlock()
		return NewNoSuchEntry(oldName)
	}
	src.UnlinkEntry(oldName)
	src.Unlock()

	dst := newParent.Locked()
	defer dst.Unlock()
	if existing := dst.GetEntry(newName); existing != nil {
		dst.UnlinkEntry(newName)
	}
	dst.SetEntry(newName, node)
	return nil
}

package app

// ChangeSet exposes changeSet to the external tests.
type ChangeSet = changeSet

// NewChangeSet exposes newChangeSet to the external tests.
var NewChangeSet = newChangeSet

func (c *changeSet) Add(paths []string) { c.add(paths) }

func (c *changeSet) Take() []string { return c.take() }

func (c *changeSet) Ready() <-chan struct{} { return c.ready }

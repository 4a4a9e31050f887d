package tree

import (
	"sync"

	"github.com/cosmos/iavl"
	dbm "github.com/tendermint/tm-db"
)

// Store is a state store that can flush its dirty models into the tree.
type Store interface {
	Commit(db *iavl.MutableTree, version int64) error
	SetImmutableTree(immutableTree *iavl.ImmutableTree)
}

type ReadOnlyTree interface {
	Get(key []byte) (index int64, value []byte)
	Version() int64
	Hash() []byte
	Iterate(fn func(key []byte, value []byte) bool) (stopped bool)
}

type MTree interface {
	ReadOnlyTree
	Set(key, value []byte) bool
	Remove(key []byte) ([]byte, bool)
	GetLastImmutable() *iavl.ImmutableTree
	Commit(stores ...Store) (hash []byte, version int64, err error)
	DeleteVersionIfExists(version int64) error
	AvailableVersions() []int
}

// NewMutableTree loads the tree at the given height. Height 0 starts an
// empty tree whose first saved version is initialVersion (1 when
// initialVersion is 0).
func NewMutableTree(height uint64, db dbm.DB, cacheSize int, initialVersion uint64) (MTree, error) {
	tree, err := iavl.NewMutableTreeWithOpts(db, cacheSize, &iavl.Options{InitialVersion: initialVersion})
	if err != nil {
		return nil, err
	}

	if height != 0 {
		if _, err := tree.LoadVersionForOverwriting(int64(height)); err != nil {
			return nil, err
		}
	}

	return &mutableTree{tree: tree}, nil
}

// NewImmutableTree returns the read-only tree at the given height.
func NewImmutableTree(height uint64, db dbm.DB) (*iavl.ImmutableTree, error) {
	tree, err := iavl.NewMutableTreeWithOpts(db, 1024, &iavl.Options{})
	if err != nil {
		return nil, err
	}

	if _, err := tree.LazyLoadVersion(int64(height)); err != nil {
		return nil, err
	}

	return tree.GetImmutable(int64(height))
}

type mutableTree struct {
	tree *iavl.MutableTree
	lock sync.RWMutex
}

func (t *mutableTree) GetLastImmutable() *iavl.ImmutableTree {
	t.lock.RLock()
	defer t.lock.RUnlock()

	// Nothing is saved before the first commit: readers get an empty tree.
	if t.tree.Version() == 0 {
		return iavl.NewImmutableTree(dbm.NewMemDB(), 0)
	}

	immutable, err := t.tree.GetImmutable(t.tree.Version())
	if err != nil {
		return nil
	}

	return immutable
}

// Commit flushes the given stores into the tree, saves a new version and
// rebases every store onto the resulting immutable tree.
func (t *mutableTree) Commit(stores ...Store) (hash []byte, version int64, err error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	newVersion := t.tree.Version() + 1
	for _, store := range stores {
		if err := store.Commit(t.tree, newVersion); err != nil {
			return nil, 0, err
		}
	}

	hash, version, err = t.tree.SaveVersion()
	if err != nil {
		return nil, 0, err
	}

	immutable, err := t.tree.GetImmutable(version)
	if err != nil {
		return nil, 0, err
	}

	for _, store := range stores {
		store.SetImmutableTree(immutable)
	}

	return hash, version, nil
}

func (t *mutableTree) Iterate(fn func(key []byte, value []byte) bool) (stopped bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Iterate(fn)
}

func (t *mutableTree) Hash() []byte {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Hash()
}

func (t *mutableTree) Version() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Version()
}

func (t *mutableTree) Get(key []byte) (index int64, value []byte) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Get(key)
}

func (t *mutableTree) Set(key, value []byte) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.Set(key, value)
}

func (t *mutableTree) Remove(key []byte) ([]byte, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.Remove(key)
}

func (t *mutableTree) DeleteVersionIfExists(version int64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.tree.VersionExists(version) {
		return nil
	}

	return t.tree.DeleteVersion(version)
}

func (t *mutableTree) AvailableVersions() []int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.AvailableVersions()
}

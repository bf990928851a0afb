//nolint
package store

import "github.com/iov-one/bastion"

// Move references for all storage types into this package for shorter names
// everywhere.

type ReadOnlyKVStore = bastion.ReadOnlyKVStore
type KVStore = bastion.KVStore
type SetDeleter = bastion.SetDeleter
type Batch = bastion.Batch
type Iterator = bastion.Iterator
type CacheableKVStore = bastion.CacheableKVStore
type KVCacheWrap = bastion.KVCacheWrap
type CommitKVStore = bastion.CommitKVStore
type CommitID = bastion.CommitID
type Model = bastion.Model

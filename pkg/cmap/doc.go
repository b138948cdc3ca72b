// Package cmap provides a sharded concurrent map.
//
// Keys are spread over shards by their murmur3 hash and each shard has its
// own RWMutex, so goroutines touching different keys rarely contend.
//
// Usage:
//
//	m := cmap.New[uint64, *Conn]()
//	m.Set(id, conn)
//	conn, ok := m.Pop(id)
//
// Range takes the shard locks one at a time, so it does not see a
// consistent snapshot of the whole map.
package cmap

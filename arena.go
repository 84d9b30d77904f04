package xmldom

// defaultChunkSize and minChunkSize bound the node arena's growth policy.
// Grounded on the bump-allocator idiom in other_examples/pavanmanishd-arena
// and other_examples/dnsoa-go (fixed-size pages, bump offset, no
// relocation on growth), adapted here to hold Node values instead of bytes
// so that &chunk[i] is itself the stable node handle.
const (
	defaultChunkSize = 1000
	minChunkSize     = 50
)

// nodeArena is the chunked slab allocator described in spec §4.1: fixed
// size chunks of Node storage, a bump index into the current chunk, and a
// reset that rewinds to chunk 0 without freeing any chunk. Because every
// chunk is pre-allocated at its full length, appending within a chunk never
// happens and &chunk[i] never moves for the arena's lifetime — growth only
// ever appends a brand new chunk to the outer slice.
type nodeArena struct {
	chunkSize int
	chunks    [][]Node
	curChunk  int
	curIndex  int
}

func newNodeArena(chunkSize int) *nodeArena {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	} else if chunkSize < minChunkSize {
		chunkSize = minChunkSize
	}
	a := &nodeArena{chunkSize: chunkSize}
	a.chunks = append(a.chunks, make([]Node, chunkSize))
	return a
}

// allocate returns a zero-initialized Node handle. References are stable
// for the arena's lifetime; buffer capacity inside a reused slot is kept
// across reset so repeated parse/reset cycles over similar documents need
// no further allocation once the arena has grown to size once.
func (a *nodeArena) allocate() *Node {
	if a.curIndex >= a.chunkSize {
		a.curChunk++
		a.curIndex = 0
		if a.curChunk >= len(a.chunks) {
			a.chunks = append(a.chunks, make([]Node, a.chunkSize))
		}
	}
	n := &a.chunks[a.curChunk][a.curIndex]
	a.curIndex++
	n.resetForReuse()
	return n
}

// reset rewinds the bump index to chunk 0, index 1 — index 0 in chunk 0 is
// permanently reserved for the Document's root node and is never handed
// out by allocate.
func (a *nodeArena) reset() {
	a.curChunk = 0
	a.curIndex = 1
}

func (a *nodeArena) rootSlot() *Node {
	return &a.chunks[0][0]
}

// chunksAllocated reports how many chunks have ever been allocated, for
// tests asserting that reset+reparse does not grow the arena further.
func (a *nodeArena) chunksAllocated() int {
	return len(a.chunks)
}

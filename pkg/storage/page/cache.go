package page

import "sync"

// node represents a single node in the doubly linked list
type node struct {
	pageNo uint32
	data   []byte
	prev   *node
	next   *node
}

// lruCache is an LRU page cache: a doubly linked list combined with a hash
// map for O(1) lookup, insertion, and eviction.
//
// The cache is thread-safe. Pages are immutable once read, so Get hands out
// the cached slice directly; callers must treat it as read-only.
//
// Unlike a buffer pool there are no dirty pages to protect, so reaching
// capacity evicts the least recently used page instead of failing.
type lruCache struct {
	maxSize int              // Maximum number of pages the cache can hold
	cache   map[uint32]*node // Map for O(1) page lookup
	head    *node            // Dummy head node (most recently used end)
	tail    *node            // Dummy tail node (least recently used end)
	mutex   sync.Mutex
}

// newLRUCache creates a cache holding at most maxSize pages.
func newLRUCache(maxSize int) *lruCache {
	// Create dummy head and tail nodes
	head := &node{}
	tail := &node{}
	head.next = tail
	tail.prev = head

	return &lruCache{
		maxSize: maxSize,
		cache:   make(map[uint32]*node),
		head:    head,
		tail:    tail,
	}
}

// addToFront adds a node right after the head (marks as most recently used) - O(1)
func (c *lruCache) addToFront(n *node) {
	n.prev = c.head
	n.next = c.head.next
	c.head.next.prev = n
	c.head.next = n
}

// removeNode removes a node from the linked list - O(1)
func (c *lruCache) removeNode(n *node) {
	n.prev.next = n.next
	n.next.prev = n.prev
}

// moveToFront moves an existing node to the front (marks as most recently used) - O(1)
func (c *lruCache) moveToFront(n *node) {
	c.removeNode(n)
	c.addToFront(n)
}

// get retrieves a page by number, marking it as recently used.
func (c *lruCache) get(pageNo uint32) ([]byte, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if n, exists := c.cache[pageNo]; exists {
		c.moveToFront(n)
		return n.data, true
	}
	return nil, false
}

// put stores a page, evicting the least recently used entry when the cache
// is at capacity.
func (c *lruCache) put(pageNo uint32, data []byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if n, exists := c.cache[pageNo]; exists {
		n.data = data
		c.moveToFront(n)
		return
	}

	if len(c.cache) >= c.maxSize {
		lru := c.tail.prev
		if lru != c.head {
			c.removeNode(lru)
			delete(c.cache, lru.pageNo)
		}
	}

	newNode := &node{
		pageNo: pageNo,
		data:   data,
	}
	c.cache[pageNo] = newNode
	c.addToFront(newNode)
}

// size returns the current number of pages stored in the cache.
func (c *lruCache) size() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.cache)
}

// clear removes all pages and resets the cache to an empty state.
func (c *lruCache) clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[uint32]*node)
	c.head.next = c.tail
	c.tail.prev = c.head
}

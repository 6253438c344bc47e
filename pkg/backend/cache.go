package backend

import lru "github.com/hashicorp/golang-lru/v2"

// cache keeps recently loaded trees by id. Every write to a tree row must
// call Delete.
type cache struct {
	b     *Backend
	trees *lru.Cache[int64, *tree]
}

func newCache(b *Backend, size int) *cache {
	if size <= 0 {
		size = 1
	}
	c := &cache{b: b}
	cache, _ := lru.New[int64, *tree](size)
	c.trees = cache
	return c
}

func (c *cache) Get(id int64) (*tree, bool) {
	return c.trees.Get(id)
}

func (c *cache) Set(id int64, t *tree) {
	c.trees.Add(id, t)
}

func (c *cache) Delete(id int64) {
	c.trees.Remove(id)
}

func (c *cache) Len() int {
	return c.trees.Len()
}

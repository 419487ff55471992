package browser

import (
	"container/list"
	"context"
	"sync"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

type poolEntry[S any] struct {
	key     string
	session S
}

// Pool keeps up to size warm sessions keyed by target URL, least recently
// used evicted first. Sessions are opened and closed outside the lock.
type Pool[S any] struct {
	mu      sync.Mutex
	size    int
	closeFn func(S) error
	entries map[string]*list.Element
	lru     *list.List
}

// NewPool creates a pool holding at most size sessions (minimum 1).
func NewPool[S any](size int, closeFn func(S) error) *Pool[S] {
	if size < 1 {
		size = 1
	}
	return &Pool[S]{
		size:    size,
		closeFn: closeFn,
		entries: make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Acquire returns the warm session for key, opening one with open when
// none is held.
func (p *Pool[S]) Acquire(ctx context.Context, key string, open func(ctx context.Context) (S, error)) (S, error) {
	p.mu.Lock()
	if el, ok := p.entries[key]; ok {
		p.lru.MoveToFront(el)
		s := el.Value.(*poolEntry[S]).session
		p.mu.Unlock()
		logger.Debug("browser: reusing warm session for %s", key)
		return s, nil
	}
	p.mu.Unlock()

	s, err := open(ctx)
	if err != nil {
		var zero S
		return zero, err
	}

	p.mu.Lock()
	if el, ok := p.entries[key]; ok {
		// Opened concurrently; keep the first and drop ours.
		p.mu.Unlock()
		p.discard(s)
		return el.Value.(*poolEntry[S]).session, nil
	}
	p.entries[key] = p.lru.PushFront(&poolEntry[S]{key: key, session: s})
	var evicted []S
	for p.lru.Len() > p.size {
		oldest := p.lru.Back()
		e := oldest.Value.(*poolEntry[S])
		p.lru.Remove(oldest)
		delete(p.entries, e.key)
		evicted = append(evicted, e.session)
	}
	p.mu.Unlock()

	for _, old := range evicted {
		p.discard(old)
	}
	logger.Debug("browser: opened session for %s", key)
	return s, nil
}

// Release returns a session after use. A broken session is evicted and
// closed instead of being kept warm.
func (p *Pool[S]) Release(key string, broken bool) {
	if !broken {
		return
	}
	p.mu.Lock()
	el, ok := p.entries[key]
	if ok {
		p.lru.Remove(el)
		delete(p.entries, key)
	}
	p.mu.Unlock()

	if ok {
		logger.Debug("browser: evicting broken session for %s", key)
		p.discard(el.Value.(*poolEntry[S]).session)
	}
}

// Close closes every held session.
func (p *Pool[S]) Close() {
	p.mu.Lock()
	var all []S
	for el := p.lru.Front(); el != nil; el = el.Next() {
		all = append(all, el.Value.(*poolEntry[S]).session)
	}
	p.entries = make(map[string]*list.Element)
	p.lru.Init()
	p.mu.Unlock()

	for _, s := range all {
		p.discard(s)
	}
}

// Len returns the number of held sessions.
func (p *Pool[S]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lru.Len()
}

// Stats reports the held keys, most recently used first.
func (p *Pool[S]) Stats() domain.PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, p.lru.Len())
	for el := p.lru.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*poolEntry[S]).key)
	}
	return domain.PoolStats{Size: len(keys), MaxSize: p.size, Keys: keys}
}

func (p *Pool[S]) discard(s S) {
	if p.closeFn == nil {
		return
	}
	if err := p.closeFn(s); err != nil {
		logger.Debug("browser: close session: %v", err)
	}
}

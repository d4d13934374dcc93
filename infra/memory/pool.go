package memory

import "sync"

// Pool is a typed object pool. The matching loop allocates resting
// orders from it and the reclaimer returns retired ones through
// PutAny.
type Pool[T any] struct {
	p *sync.Pool
}

func NewPool[T any](ctor func() *T) *Pool[T] {
	return &Pool[T]{
		p: &sync.Pool{
			New: func() any { return ctor() },
		},
	}
}

func (p *Pool[T]) Get() *T {
	return p.p.Get().(*T)
}

func (p *Pool[T]) Put(v *T) {
	*v = *new(T)
	p.p.Put(v)
}

// PutAny is the type-erased adapter the reclaimer uses; it panics on a
// foreign type rather than silently dropping the object.
func (p *Pool[T]) PutAny(v any) {
	obj, ok := v.(*T)
	if !ok {
		panic("memory.Pool: PutAny received wrong type")
	}
	p.Put(obj)
}

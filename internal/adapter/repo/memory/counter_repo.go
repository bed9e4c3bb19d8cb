package memory

import "context"

type CounterRepo struct {
	store *Store
}

func NewCounterRepo(store *Store) CounterRepo {
	return CounterRepo{store: store}
}

func (r CounterRepo) TryIncrement(_ context.Context, name string, max int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.counters[name] >= max {
		return false, nil
	}
	r.store.counters[name]++
	return true, nil
}

func (r CounterRepo) Decrement(_ context.Context, name string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.counters[name] > 0 {
		r.store.counters[name]--
	}
	return nil
}

func (r CounterRepo) Get(_ context.Context, name string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.counters[name], nil
}

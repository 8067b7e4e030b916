package memory

import "sync"

// lookup busca k primero en las escrituras pendientes y luego en el estado confirmado.
func lookup[K comparable, V any](mu *sync.RWMutex, committed, pending map[K]V, k K) (V, bool) {
	if v, ok := pending[k]; ok {
		return v, true
	}
	mu.RLock()
	defer mu.RUnlock()
	v, ok := committed[k]
	return v, ok
}

// overlay devuelve la vista de la transacción: confirmado sobrescrito por pendiente.
func overlay[K comparable, V any](mu *sync.RWMutex, committed, pending map[K]V) map[K]V {
	mu.RLock()
	out := make(map[K]V, len(committed)+len(pending))
	for k, v := range committed {
		out[k] = v
	}
	mu.RUnlock()
	for k, v := range pending {
		out[k] = v
	}
	return out
}

// paginate aplica limit/offset; limit <= 0 significa sin límite.
func paginate[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

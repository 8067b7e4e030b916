package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo consecutivos en memoria; la clave queda bloqueada hasta el fin de la transacción,
// de modo que dos transacciones no pueden obtener el mismo número.
type SequenceRepo struct {
	s  *Store
	tx *tx
}

// NewSequenceRepository construye el adaptador en modo autocommit.
func NewSequenceRepository(s *Store) *SequenceRepo {
	return &SequenceRepo{s: s}
}

func (r *SequenceRepo) Next(ctx context.Context, companyID, scope string, year int) (int64, error) {
	key := fmt.Sprintf("%s|%s|%d", companyID, scope, year)
	var next int64
	err := r.s.exec(ctx, r.tx, func(t *tx) error {
		if err := t.lock("seq:" + key); err != nil {
			return err
		}
		current, _ := lookup(&t.s.mu, t.s.sequences, t.sequences, key)
		next = current + 1
		t.sequences[key] = next
		return nil
	})
	return next, err
}

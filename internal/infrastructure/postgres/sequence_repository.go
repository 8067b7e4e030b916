package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo consecutivos sin huecos en document_sequences.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Usar con una tx para que el número
// se descarte junto con el documento si la transacción falla.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el consecutivo. El UPDATE del ON CONFLICT bloquea la fila
// hasta el fin de la transacción, serializando a los llamadores de la misma clave.
func (r *SequenceRepo) Next(ctx context.Context, companyID, scope string, year int) (int64, error) {
	query := `
		INSERT INTO document_sequences (company_id, scope, year, last_number)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (company_id, scope, year)
		DO UPDATE SET last_number = document_sequences.last_number + 1
		RETURNING last_number`
	var n int64
	if err := r.q.QueryRow(ctx, query, companyID, scope, year).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence %s/%d: %w", scope, year, err)
	}
	return n, nil
}

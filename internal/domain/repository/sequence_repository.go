package repository

import "context"

// SequenceRepository asigna consecutivos sin huecos por (empresa, tipo, año).
// Next incrementa y devuelve el nuevo valor de forma atómica, serializando
// a los llamadores concurrentes sobre la misma clave.
type SequenceRepository interface {
	Next(ctx context.Context, companyID, scope string, year int) (int64, error)
}

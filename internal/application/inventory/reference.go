package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/traslados-api/internal/domain/repository"
)

// TransferScope prefijo y tipo de consecutivo de los traslados.
const TransferScope = "TR"

// ReferenceAllocator genera códigos legibles <prefijo>-<año>-<consecutivo>, p. ej. TR-2025-003.
// El consecutivo viene de SequenceRepository dentro de la misma transacción del documento,
// así que dos creaciones concurrentes nunca obtienen el mismo código.
type ReferenceAllocator struct {
	Scope string
}

// NewTransferReferences asignador de referencias de traslados.
func NewTransferReferences() ReferenceAllocator {
	return ReferenceAllocator{Scope: TransferScope}
}

// NextTx reserva el siguiente código del año para la empresa.
func (a ReferenceAllocator) NextTx(ctx context.Context, seqs repository.SequenceRepository, companyID string, year int) (string, error) {
	n, err := seqs.Next(ctx, companyID, a.Scope, year)
	if err != nil {
		return "", fmt.Errorf("asignar referencia: %w", err)
	}
	return FormatReference(a.Scope, year, n), nil
}

// FormatReference al menos tres dígitos de consecutivo.
func FormatReference(scope string, year int, n int64) string {
	return fmt.Sprintf("%s-%d-%03d", scope, year, n)
}

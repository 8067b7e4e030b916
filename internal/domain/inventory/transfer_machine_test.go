package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/traslados-api/internal/domain"
	"github.com/jhoicas/traslados-api/internal/domain/entity"
	"github.com/jhoicas/traslados-api/internal/domain/inventory"
)

func TestNextStatus_TransicionesPermitidas(t *testing.T) {
	cases := []struct {
		from   entity.TransferStatus
		action inventory.TransferAction
		want   entity.TransferStatus
	}{
		{entity.TransferPendiente, inventory.ActionCommit, entity.TransferEnTransito},
		{entity.TransferPendiente, inventory.ActionCancel, entity.TransferCancelado},
		{entity.TransferEnTransito, inventory.ActionConfirm, entity.TransferCompletado},
		{entity.TransferEnTransito, inventory.ActionCancel, entity.TransferCancelado},
	}
	for _, tc := range cases {
		got, err := inventory.NextStatus(tc.from, tc.action)
		require.NoError(t, err, "%s desde %s", tc.action, tc.from)
		assert.Equal(t, tc.want, got)
	}
}

// Cualquier combinación fuera de la tabla debe rechazarse con ErrInvalidState,
// en particular todo lo que salga de un estado terminal.
func TestNextStatus_TransicionesNoPermitidas(t *testing.T) {
	statuses := []entity.TransferStatus{
		entity.TransferPendiente, entity.TransferEnTransito,
		entity.TransferCompletado, entity.TransferCancelado,
	}
	actions := []inventory.TransferAction{inventory.ActionCommit, inventory.ActionConfirm, inventory.ActionCancel}
	allowed := map[entity.TransferStatus][]inventory.TransferAction{
		entity.TransferPendiente:  {inventory.ActionCommit, inventory.ActionCancel},
		entity.TransferEnTransito: {inventory.ActionConfirm, inventory.ActionCancel},
	}

	for _, from := range statuses {
		for _, action := range actions {
			ok := false
			for _, a := range allowed[from] {
				if a == action {
					ok = true
				}
			}
			_, err := inventory.NextStatus(from, action)
			if ok {
				assert.NoError(t, err)
				continue
			}
			assert.True(t, errors.Is(err, domain.ErrInvalidState), "%s desde %s debe fallar", action, from)
			assert.False(t, inventory.CanTransition(from, action))
		}
	}
}

func TestTransferStatus_Terminal(t *testing.T) {
	assert.True(t, entity.TransferCompletado.Terminal())
	assert.True(t, entity.TransferCancelado.Terminal())
	assert.False(t, entity.TransferPendiente.Terminal())
	assert.False(t, entity.TransferEnTransito.Terminal())
	assert.False(t, entity.TransferStatus("OTRO").Valid())
}

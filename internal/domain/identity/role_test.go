package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("Sales Agent")
	require.NoError(t, err)
	assert.Equal(t, RoleSalesAgent, r)

	_, err = ParseRole("sales agent")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestCan(t *testing.T) {
	tests := []struct {
		op    Operation
		ceo   bool
		mgr   bool
		agent bool
	}{
		{OpProcurementCreate, true, true, true},
		{OpProcurementUpdate, true, true, false},
		{OpProcurementDelete, true, false, false},
		{OpSaleCreate, true, true, true},
		{OpSaleUpdate, true, true, false},
		{OpSaleDelete, true, false, false},
		{OpCreditPay, true, true, false},
		{OpCreditRead, true, true, true},
		{OpStockCreate, true, true, false},
		{OpStockUpdate, true, true, false},
		{OpStockDelete, true, false, false},
		{OpStockRead, true, true, true},
		{OpBranchCreate, true, false, false},
		{OpBranchUpdate, true, false, false},
		{OpBranchDelete, true, false, false},
		{OpBranchRead, true, true, true},
		{OpUserCreate, true, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			assert.Equal(t, tt.ceo, Can(RoleCEO, tt.op))
			assert.Equal(t, tt.mgr, Can(RoleManager, tt.op))
			assert.Equal(t, tt.agent, Can(RoleSalesAgent, tt.op))
		})
	}

	t.Run("unknown role and operation are denied", func(t *testing.T) {
		assert.False(t, Can(Role("Auditor"), OpSaleRead))
		assert.False(t, Can(RoleCEO, Operation("sale.refund")))
	})

	t.Run("every operation allows the CEO", func(t *testing.T) {
		for _, op := range Operations() {
			assert.True(t, Can(RoleCEO, op), string(op))
		}
	})
}

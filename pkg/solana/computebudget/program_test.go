package compute_budget

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
)

func TestSetComputeUnitLimit(t *testing.T) {
	ixn := SetComputeUnitLimit(200_000)
	assert.Equal(t, ProgramKey, ixn.Program)
	assert.Empty(t, ixn.Accounts)
	assert.Equal(t, []byte{2, 0x40, 0x0d, 0x03, 0x00}, ixn.Data)

	limit, err := ParseSetComputeUnitLimitIxnData(ixn.Data)
	require.NoError(t, err)
	assert.EqualValues(t, 200_000, limit)
}

func TestSetComputeUnitPrice(t *testing.T) {
	ixn := SetComputeUnitPrice(1_000)
	assert.Equal(t, []byte{3, 0xe8, 0x03, 0, 0, 0, 0, 0, 0}, ixn.Data)

	price, err := ParseSetComputeUnitPriceIxnData(ixn.Data)
	require.NoError(t, err)
	assert.EqualValues(t, 1_000, price)
}

func TestParse_Invalid(t *testing.T) {
	_, err := ParseSetComputeUnitLimitIxnData(SetComputeUnitPrice(1).Data)
	assert.ErrorIs(t, err, ErrInvalidInstructionData)

	_, err = ParseSetComputeUnitPriceIxnData([]byte{3, 1})
	assert.ErrorIs(t, err, ErrInvalidInstructionData)

	data := SetComputeUnitLimit(1).Data
	data[0] = commandRequestHeapFrame
	_, err = ParseSetComputeUnitLimitIxnData(data)
	assert.ErrorIs(t, err, ErrInvalidInstructionData)
}

func TestBudget(t *testing.T) {
	instructions, err := Budget(0, 0)
	require.NoError(t, err)
	assert.Empty(t, instructions)

	instructions, err = Budget(300_000, 0)
	require.NoError(t, err)
	require.Len(t, instructions, 1)
	assert.Equal(t, SetComputeUnitLimit(300_000), instructions[0])

	_, err = Budget(MaxComputeUnitLimit+1, 5)
	assert.Error(t, err)
}

func TestDecompileBudget(t *testing.T) {
	payer, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	instructions, err := Budget(250_000, 42)
	require.NoError(t, err)
	instructions = append(instructions, solana.NewInstruction(make(ed25519.PublicKey, ed25519.PublicKeySize), []byte{1}))

	txn := solana.NewTransaction(payer, instructions...)
	budget, err := DecompileBudget(txn.Message)
	require.NoError(t, err)
	assert.EqualValues(t, 250_000, budget.ComputeUnitLimit)
	assert.EqualValues(t, 42, budget.ComputeUnitPrice)

	txn = solana.NewTransaction(payer)
	budget, err = DecompileBudget(txn.Message)
	require.NoError(t, err)
	assert.Equal(t, &DecompiledBudget{}, budget)
}

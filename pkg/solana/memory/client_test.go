package memory

import (
	"context"
	"crypto/ed25519"
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
)

func TestClient_Accounts(t *testing.T) {
	ctx := context.Background()
	c := NewClient()
	keys := generateKeys(t, 4)
	program := public(keys[0])

	_, err := c.GetAccountInfo(ctx, public(keys[1]), solana.CommitmentConfirmed)
	assert.Equal(t, solana.ErrNoAccountInfo, err)

	c.SetAccount(public(keys[1]), solana.AccountInfo{Owner: program, Data: []byte{1, 2, 3, 4}})
	c.SetAccount(public(keys[2]), solana.AccountInfo{Owner: program, Data: []byte{1, 9, 3}})
	c.SetAccount(public(keys[3]), solana.AccountInfo{Owner: public(keys[3]), Data: []byte{1, 2, 3, 4}})

	info, err := c.GetAccountInfo(ctx, public(keys[1]), solana.CommitmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, info.Data)

	// Returned data is a copy.
	info.Data[0] = 0xff
	info, err = c.GetAccountInfo(ctx, public(keys[1]), solana.CommitmentConfirmed)
	require.NoError(t, err)
	assert.EqualValues(t, 1, info.Data[0])

	accounts, err := c.GetProgramAccounts(ctx, program, solana.CommitmentConfirmed)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	accounts, err = c.GetProgramAccounts(ctx, program, solana.CommitmentConfirmed, solana.MemcmpFilter(1, []byte{2, 3}))
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, public(keys[1]), accounts[0].PublicKey)

	accounts, err = c.GetProgramAccounts(ctx, program, solana.CommitmentConfirmed, solana.DataSizeFilter(3))
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, public(keys[2]), accounts[0].PublicKey)

	c.DeleteAccount(public(keys[1]))
	_, err = c.GetAccountInfo(ctx, public(keys[1]), solana.CommitmentConfirmed)
	assert.Equal(t, solana.ErrNoAccountInfo, err)
}

func TestClient_TokenBalance(t *testing.T) {
	ctx := context.Background()
	c := NewClient()
	keys := generateKeys(t, 1)

	_, err := c.GetTokenAccountBalance(ctx, public(keys[0]))
	assert.Equal(t, solana.ErrNoBalance, err)

	data := make([]byte, 165)
	binary.LittleEndian.PutUint64(data[64:], 1234)
	c.SetAccount(public(keys[0]), solana.AccountInfo{Data: data, Lamports: 10})

	balance, err := c.GetTokenAccountBalance(ctx, public(keys[0]))
	require.NoError(t, err)
	assert.EqualValues(t, 1234, balance)

	lamports, err := c.GetBalance(ctx, public(keys[0]))
	require.NoError(t, err)
	assert.EqualValues(t, 10, lamports)
}

func TestClient_Submit(t *testing.T) {
	ctx := context.Background()
	c := NewClient()
	keys := generateKeys(t, 2)

	txn := solana.NewTransaction(public(keys[0]), solana.NewInstruction(public(keys[1]), []byte{1}))

	_, err := c.SubmitTransaction(ctx, txn, solana.CommitmentConfirmed)
	assert.Error(t, err)

	bh, err := c.GetLatestBlockhash(ctx)
	require.NoError(t, err)
	txn.SetBlockhash(bh)
	require.NoError(t, txn.Sign(keys[0]))

	sig, err := c.SubmitTransaction(ctx, txn, solana.CommitmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, txn.Signature(), sig)
	assert.Len(t, c.Submitted(), 1)

	status, err := c.GetSignatureStatus(ctx, sig, solana.CommitmentFinalized)
	require.NoError(t, err)
	assert.True(t, status.Finalized())
	assert.Nil(t, status.ErrorResult)

	c.SetLogs(sig, []string{"Program log: ok"})
	logs, err := c.GetTransactionLogs(ctx, sig, solana.CommitmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, []string{"Program log: ok"}, logs.Logs)

	_, err = c.GetSignatureStatus(ctx, solana.Signature{1}, solana.CommitmentFinalized)
	assert.Equal(t, solana.ErrSignatureNotFound, err)
}

func TestClient_Processor(t *testing.T) {
	ctx := context.Background()
	c := NewClient()
	keys := generateKeys(t, 2)

	landed, err := solana.ParseTransactionError(map[string]interface{}{
		"InstructionError": []interface{}{0.0, map[string]interface{}{"Custom": 6001.0}},
	})
	require.NoError(t, err)

	rejected := errors.New("rejected")
	var reject bool
	c.SetProcessor(func(solana.Transaction) (*solana.TransactionError, error) {
		if reject {
			return nil, rejected
		}
		return landed, nil
	})

	txn := solana.NewTransaction(public(keys[0]), solana.NewInstruction(public(keys[1]), nil))
	require.NoError(t, txn.Sign(keys[0]))

	sim, err := c.SimulateTransaction(ctx, txn, solana.CommitmentProcessed)
	require.NoError(t, err)
	assert.Equal(t, landed, sim.Err)

	sig, err := c.SubmitTransaction(ctx, txn, solana.CommitmentConfirmed)
	require.NoError(t, err)

	status, err := c.GetSignatureStatus(ctx, sig, solana.CommitmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, landed, status.ErrorResult)

	reject = true
	_, err = c.SubmitTransaction(ctx, txn, solana.CommitmentConfirmed)
	assert.Equal(t, rejected, err)
	assert.Len(t, c.Submitted(), 1)
}

func TestClient_Rent(t *testing.T) {
	lamports, err := NewClient().GetMinimumBalanceForRentExemption(context.Background(), 0)
	require.NoError(t, err)
	assert.EqualValues(t, 890880, lamports)
}

func generateKeys(t *testing.T, amount int) []ed25519.PrivateKey {
	keys := make([]ed25519.PrivateKey, amount)
	for i := range keys {
		_, priv, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = priv
	}
	return keys
}

func public(priv ed25519.PrivateKey) ed25519.PublicKey {
	return priv.Public().(ed25519.PublicKey)
}

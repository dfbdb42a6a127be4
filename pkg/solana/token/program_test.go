package token

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
	"github.com/x1-mining-arena/arena-go/pkg/testutil"
)

func TestGetCommand_Error(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 3)

	_, err := GetCommand(solana.NewTransaction(keys[0], SyncNative(keys[1])).Message, 1)
	assert.Error(t, err)

	instruction := SyncNative(keys[1])
	instruction.Data = nil
	_, err = GetCommand(solana.NewTransaction(keys[0], instruction).Message, 0)
	assert.Error(t, err)

	instruction.Program = keys[2]
	_, err = GetCommand(solana.NewTransaction(keys[0], instruction).Message, 0)
	assert.Equal(t, solana.ErrIncorrectProgram, err)
}

func TestCloseAccount(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 3)

	instruction := CloseAccount(keys[0], keys[1], keys[2])

	assert.Equal(t, ProgramKey, instruction.Program)
	assert.Equal(t, []byte{9}, instruction.Data)
	require.Len(t, instruction.Accounts, 3)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.False(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[1].IsWritable)
	assert.True(t, instruction.Accounts[2].IsSigner)
	assert.False(t, instruction.Accounts[2].IsWritable)

	decompiled, err := DecompileCloseAccount(solana.NewTransaction(keys[2], instruction).Message, 0)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Account)
	assert.Equal(t, keys[1], decompiled.Destination)
	assert.Equal(t, keys[2], decompiled.Owner)

	_, err = DecompileCloseAccount(solana.NewTransaction(keys[2], SyncNative(keys[0])).Message, 0)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)
}

func TestSyncNative(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)

	instruction := SyncNative(keys[0])

	assert.Equal(t, ProgramKey, instruction.Program)
	assert.Equal(t, []byte{17}, instruction.Data)
	require.Len(t, instruction.Accounts, 1)
	assert.Equal(t, keys[0], instruction.Accounts[0].PublicKey)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.False(t, instruction.Accounts[0].IsSigner)

	command, err := GetCommand(solana.NewTransaction(keys[1], instruction).Message, 0)
	require.NoError(t, err)
	assert.Equal(t, CommandSyncNative, command)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", base58.Encode(ProgramKey))
	assert.Equal(t, "So11111111111111111111111111111111111111112", base58.Encode(NativeMint))
	assert.Len(t, NativeMint, ed25519.PublicKeySize)
}

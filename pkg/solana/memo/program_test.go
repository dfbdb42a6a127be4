package memo

import (
	"crypto/ed25519"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
)

func TestInstruction(t *testing.T) {
	i, err := Instruction("stake round 3")
	require.NoError(t, err)
	assert.Equal(t, ProgramKey, i.Program)
	assert.Empty(t, i.Accounts)
	assert.Equal(t, "stake round 3", string(i.Data))

	for _, invalid := range []string{"", strings.Repeat("a", MaxLength+1), string([]byte{0xff, 0xfe})} {
		_, err = Instruction(invalid)
		assert.ErrorIs(t, err, ErrInvalidMemo)
	}
}

func TestDecompile(t *testing.T) {
	i, err := Instruction("hello, world")
	require.NoError(t, err)

	tx := solana.NewTransaction(
		make([]byte, 32),
		i,
	)

	decompiled, err := DecompileMemo(tx.Message, 0)
	assert.NoError(t, err)
	assert.Equal(t, "hello, world", string(decompiled.Data))

	_, err = DecompileMemo(tx.Message, 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "instruction doesn't exist")

	tx.Message.Accounts[1], _, err = ed25519.GenerateKey(nil)
	require.NoError(t, err)
	_, err = DecompileMemo(tx.Message, 0)
	assert.Error(t, err)
	assert.Equal(t, solana.ErrIncorrectProgram, err)
}

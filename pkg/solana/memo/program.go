package memo

import (
	"bytes"
	"crypto/ed25519"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
)

// ProgramKey is the address of the memo program that should be used.
//
// Current key: Memo1UhkJRfHyvLMcVucJwxXeuD728EqVDDwQDxFMNo
var ProgramKey = ed25519.PublicKey{5, 74, 83, 80, 248, 93, 200, 130, 214, 20, 165, 86, 114, 120, 138, 41, 109, 223, 30, 171, 171, 208, 166, 6, 120, 136, 73, 50, 244, 238, 246, 160}

// MaxLength bounds a memo so it fits alongside arena instructions in a
// single transaction.
const MaxLength = 256

var ErrInvalidMemo = errors.New("invalid memo")

// Instruction returns a memo instruction carrying text.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/master/memo/program/src/entrypoint.rs
func Instruction(text string) (solana.Instruction, error) {
	if len(text) == 0 || len(text) > MaxLength {
		return solana.Instruction{}, errors.Wrapf(ErrInvalidMemo, "length %d", len(text))
	}
	// The program rejects memos that aren't valid UTF-8.
	if !utf8.ValidString(text) {
		return solana.Instruction{}, errors.Wrap(ErrInvalidMemo, "not utf-8")
	}

	return solana.NewInstruction(
		ProgramKey,
		[]byte(text),
	), nil
}

type DecompiledMemo struct {
	Data []byte
}

func DecompileMemo(m solana.Message, index int) (*DecompiledMemo, error) {
	if index >= len(m.Instructions) {
		return nil, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]

	if !bytes.Equal(m.Accounts[i.ProgramIndex], ProgramKey) {
		return nil, solana.ErrIncorrectProgram
	}

	return &DecompiledMemo{Data: i.Data}, nil
}

package compute_budget

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
	"github.com/x1-mining-arena/arena-go/pkg/solana/binary"
)

// ComputeBudget111111111111111111111111111111
var ProgramKey = ed25519.PublicKey{3, 6, 70, 111, 229, 33, 23, 50, 255, 236, 173, 186, 114, 195, 155, 231, 188, 140, 229, 187, 197, 247, 18, 107, 44, 67, 155, 58, 64, 0, 0, 0}

const (
	commandRequestUnits uint8 = iota
	commandRequestHeapFrame
	commandSetComputeUnitLimit
	commandSetComputeUnitPrice
)

// MaxComputeUnitLimit is the most compute units a transaction can request.
const MaxComputeUnitLimit = 1_400_000

var ErrInvalidInstructionData = errors.New("invalid compute budget instruction data")

// SetComputeUnitLimit caps the compute units the transaction may consume.
func SetComputeUnitLimit(computeUnitLimit uint32) solana.Instruction {
	data := binary.NewEncoder(1+4).
		PutUint8(commandSetComputeUnitLimit).
		PutUint32(computeUnitLimit).
		Bytes()

	return solana.NewInstruction(ProgramKey, data)
}

// SetComputeUnitPrice sets the priority fee, in micro-lamports per compute
// unit.
func SetComputeUnitPrice(microLamports uint64) solana.Instruction {
	data := binary.NewEncoder(1+8).
		PutUint8(commandSetComputeUnitPrice).
		PutUint64(microLamports).
		Bytes()

	return solana.NewInstruction(ProgramKey, data)
}

// Budget returns the instructions setting the limit and price, omitting the
// ones that are zero. They belong at the start of a transaction.
func Budget(computeUnitLimit uint32, microLamports uint64) ([]solana.Instruction, error) {
	if computeUnitLimit > MaxComputeUnitLimit {
		return nil, errors.Errorf("compute unit limit %d exceeds %d", computeUnitLimit, MaxComputeUnitLimit)
	}

	var instructions []solana.Instruction
	if computeUnitLimit > 0 {
		instructions = append(instructions, SetComputeUnitLimit(computeUnitLimit))
	}
	if microLamports > 0 {
		instructions = append(instructions, SetComputeUnitPrice(microLamports))
	}
	return instructions, nil
}

func ParseSetComputeUnitLimitIxnData(data []byte) (uint32, error) {
	d, err := newCommandDecoder(data, commandSetComputeUnitLimit, 1+4)
	if err != nil {
		return 0, err
	}
	return d.Uint32()
}

func ParseSetComputeUnitPriceIxnData(data []byte) (uint64, error) {
	d, err := newCommandDecoder(data, commandSetComputeUnitPrice, 1+8)
	if err != nil {
		return 0, err
	}
	return d.Uint64()
}

// DecompiledBudget is the compute budget requested by a transaction.
type DecompiledBudget struct {
	ComputeUnitLimit uint32
	ComputeUnitPrice uint64
}

// DecompileBudget collects the compute budget instructions of a message.
func DecompileBudget(m solana.Message) (*DecompiledBudget, error) {
	var budget DecompiledBudget
	for i, ixn := range m.Instructions {
		if !bytes.Equal(m.Accounts[ixn.ProgramIndex], ProgramKey) {
			continue
		}

		if len(ixn.Data) == 0 {
			return nil, errors.Wrapf(ErrInvalidInstructionData, "instruction %d", i)
		}

		var err error
		switch ixn.Data[0] {
		case commandSetComputeUnitLimit:
			budget.ComputeUnitLimit, err = ParseSetComputeUnitLimitIxnData(ixn.Data)
		case commandSetComputeUnitPrice:
			budget.ComputeUnitPrice, err = ParseSetComputeUnitPriceIxnData(ixn.Data)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %d", i)
		}
	}
	return &budget, nil
}

func newCommandDecoder(data []byte, command uint8, size int) (*binary.Decoder, error) {
	if len(data) != size {
		return nil, errors.Wrapf(ErrInvalidInstructionData, "invalid length %d", len(data))
	}
	if data[0] != command {
		return nil, errors.Wrapf(ErrInvalidInstructionData, "unexpected command %d", data[0])
	}

	d := binary.NewDecoder(data)
	if err := d.Skip(1); err != nil {
		return nil, err
	}
	return d, nil
}

package mining_arena

import (
	"crypto/ed25519"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
	"github.com/x1-mining-arena/arena-go/pkg/solana/binary"
)

var upsertBoostConfigInstructionDiscriminator = InstructionDiscriminator(InstructionUpsertBoostConfig)

const maxUpsertBoostConfigInstructionArgsSize = (1 + // id
	1 + // kind
	8 + // cost_boost_points
	2 + // value_bps
	8 + // duration_seconds
	2) // rig_id

type UpsertBoostConfigInstructionArgs struct {
	ID              uint8
	Kind            BoostKind
	CostBoostPoints uint64
	ValueBps        uint16
	DurationSeconds int64
	RigID           *uint8
}

type UpsertBoostConfigInstructionAccounts struct {
	Admin ed25519.PublicKey
}

func (p Program) NewUpsertBoostConfigInstruction(
	accounts *UpsertBoostConfigInstructionAccounts,
	args *UpsertBoostConfigInstructionArgs,
) (solana.Instruction, error) {
	if !args.Kind.IsValid() {
		return solana.Instruction{}, invalidArgumentf("boost kind %d", args.Kind)
	}
	if args.DurationSeconds < 0 {
		return solana.Instruction{}, invalidArgumentf("negative boost duration %d", args.DurationSeconds)
	}
	if args.RigID != nil {
		if _, ok := GetRigConfig(*args.RigID); !ok {
			return solana.Instruction{}, invalidArgumentf("rig %d", *args.RigID)
		}
	}
	if err := requireKeys(map[string]ed25519.PublicKey{"admin": accounts.Admin}); err != nil {
		return solana.Instruction{}, err
	}

	globalConfig, _, err := p.GetGlobalConfigAddress()
	if err != nil {
		return solana.Instruction{}, err
	}
	boostConfig, _, err := p.GetBoostConfigAddress(args.ID)
	if err != nil {
		return solana.Instruction{}, err
	}

	data := binary.NewEncoder(discriminatorSize+maxUpsertBoostConfigInstructionArgsSize).
		PutBytes(upsertBoostConfigInstructionDiscriminator).
		PutUint8(args.ID).
		PutUint8(uint8(args.Kind)).
		PutUint64(args.CostBoostPoints).
		PutUint16(args.ValueBps).
		PutInt64(args.DurationSeconds).
		PutOptionalUint8(args.RigID).
		Bytes()

	return p.newInstruction(
		data,
		signerWritable(accounts.Admin),
		writable(globalConfig),
		writable(boostConfig),
		readonly(SYSTEM_PROGRAM_ID),
	), nil
}

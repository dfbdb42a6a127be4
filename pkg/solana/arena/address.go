package mining_arena

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
)

var (
	globalConfigPrefix = []byte("global-config")
	stakingPoolPrefix  = []byte("staking-pool")
	userAccountPrefix  = []byte("user-account")
	userStakePrefix    = []byte("user-stake")
	boostConfigPrefix  = []byte("boost-config")
)

func (p Program) GetGlobalConfigAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		p.id,
		globalConfigPrefix,
	)
}

func (p Program) GetStakingPoolAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		p.id,
		stakingPoolPrefix,
	)
}

func (p Program) GetUserAccountAddress(user ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		p.id,
		userAccountPrefix,
		user,
	)
}

// GetUserStakeAddress derives a staking position address. Legacy positions
// use ["user-stake", owner]; indexed positions append the little-endian u32
// position id.
func (p Program) GetUserStakeAddress(owner ed25519.PublicKey, position PositionRef) (ed25519.PublicKey, uint8, error) {
	if position.IsLegacy() {
		return solana.FindProgramAddressAndBump(
			p.id,
			userStakePrefix,
			owner,
		)
	}

	positionID := make([]byte, 4)
	binary.LittleEndian.PutUint32(positionID, position.ID())

	return solana.FindProgramAddressAndBump(
		p.id,
		userStakePrefix,
		owner,
		positionID,
	)
}

func (p Program) GetBoostConfigAddress(id uint8) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		p.id,
		boostConfigPrefix,
		[]byte{id},
	)
}

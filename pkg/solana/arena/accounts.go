package mining_arena

import (
	"crypto/sha256"

	"github.com/pkg/errors"

	"github.com/x1-mining-arena/arena-go/pkg/solana/binary"
)

// AccountKind names an arena record type.
type AccountKind string

const (
	AccountKindGlobalConfig      AccountKind = "globalConfig"
	AccountKindStakingPool       AccountKind = "stakingPool"
	AccountKindUserAccount       AccountKind = "userAccount"
	AccountKindUserStakePosition AccountKind = "userStakePosition"
	AccountKindBoostConfig       AccountKind = "boostConfig"
)

var AllAccountKinds = []AccountKind{
	AccountKindGlobalConfig,
	AccountKindStakingPool,
	AccountKindUserAccount,
	AccountKindUserStakePosition,
	AccountKindBoostConfig,
}

var (
	globalConfigAccountDiscriminator      = AccountKindGlobalConfig.Discriminator()
	stakingPoolAccountDiscriminator       = AccountKindStakingPool.Discriminator()
	userAccountDiscriminator              = AccountKindUserAccount.Discriminator()
	userStakePositionAccountDiscriminator = AccountKindUserStakePosition.Discriminator()
	boostConfigAccountDiscriminator       = AccountKindBoostConfig.Discriminator()
)

// TypeName is the on-chain struct name the discriminator is hashed over.
// Anchor hashes the PascalCase form of the record name.
func (k AccountKind) TypeName() string {
	if len(k) == 0 {
		return ""
	}

	name := []byte(k)
	if name[0] >= 'a' && name[0] <= 'z' {
		name[0] -= 'a' - 'A'
	}
	return string(name)
}

// Discriminator is sha256("account:" + TypeName)[:8].
func (k AccountKind) Discriminator() []byte {
	h := sha256.Sum256([]byte("account:" + k.TypeName()))
	return h[:discriminatorSize]
}

// AccountDiscriminator returns the 8 byte prefix identifying records of kind.
func AccountDiscriminator(kind AccountKind) []byte {
	return kind.Discriminator()
}

// DecodeAccount decodes raw account data into the record type for kind:
// *GlobalConfigAccount, *StakingPoolAccount, *UserAccount,
// *UserStakePositionAccount or *BoostConfigAccount.
func DecodeAccount(kind AccountKind, data []byte) (interface{}, error) {
	var record interface {
		Unmarshal([]byte) error
	}

	switch kind {
	case AccountKindGlobalConfig:
		record = &GlobalConfigAccount{}
	case AccountKindStakingPool:
		record = &StakingPoolAccount{}
	case AccountKindUserAccount:
		record = &UserAccount{}
	case AccountKindUserStakePosition:
		record = &UserStakePositionAccount{}
	case AccountKindBoostConfig:
		record = &BoostConfigAccount{}
	default:
		return nil, invalidArgumentf("unknown account kind %q", kind)
	}

	if err := record.Unmarshal(data); err != nil {
		return nil, err
	}
	return record, nil
}

// IdentifyAccount returns the kind whose discriminator prefixes data.
func IdentifyAccount(data []byte) (AccountKind, bool) {
	for _, kind := range AllAccountKinds {
		if hasDiscriminator(data, kind.Discriminator()) {
			return kind, true
		}
	}
	return "", false
}

func newAccountDecoder(kind AccountKind, discriminator, data []byte) (*binary.Decoder, error) {
	d := binary.NewDecoder(data)

	actual, err := d.Bytes(discriminatorSize)
	if err != nil {
		return nil, err
	}
	if !hasDiscriminator(actual, discriminator) {
		return nil, errors.Wrapf(ErrAccountKindMismatch, "data is not a %s account", kind)
	}
	return d, nil
}

func newAccountEncoder(discriminator []byte, size int) *binary.Encoder {
	return binary.NewEncoder(size).PutBytes(discriminator)
}

// padTo zero fills the record to its allocated account size.
func padTo(e *binary.Encoder, size int) []byte {
	if e.Len() < size {
		e.PutPadding(size - e.Len())
	}
	return e.Bytes()
}

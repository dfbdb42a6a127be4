package mining_arena

const (
	xntFactor  = 1_000_000_000 // 10^XntDecimals
	gameFactor = 100           // 10^GameDecimals
)

// RigConfig is the fixed cost and reward table for a mining rig. Costs are in
// XNT base units and rewards in GAME base units.
type RigConfig struct {
	RigID          uint8
	BaseCostXnt    uint64
	BaseRewardLow  uint64
	BaseRewardHigh uint64
	ProbHighBps    uint16
	Points         uint32
}

var rigConfigs = [NumRigs]RigConfig{
	{
		RigID:          0,
		BaseCostXnt:    xntFactor / 20,
		BaseRewardLow:  gameFactor * 50 / 100,
		BaseRewardHigh: gameFactor * 100 / 100,
		ProbHighBps:    5_000,
		Points:         1,
	},
	{
		RigID:          1,
		BaseCostXnt:    xntFactor / 4,
		BaseRewardLow:  gameFactor * 3,
		BaseRewardHigh: gameFactor * 4,
		ProbHighBps:    5_000,
		Points:         3,
	},
	{
		RigID:          2,
		BaseCostXnt:    xntFactor,
		BaseRewardLow:  gameFactor * 14,
		BaseRewardHigh: gameFactor * 16,
		ProbHighBps:    5_000,
		Points:         7,
	},
	{
		RigID:          3,
		BaseCostXnt:    xntFactor * 3,
		BaseRewardLow:  gameFactor * 42,
		BaseRewardHigh: gameFactor * 48,
		ProbHighBps:    5_000,
		Points:         12,
	},
}

func GetRigConfig(rigID uint8) (RigConfig, bool) {
	if int(rigID) >= len(rigConfigs) {
		return RigConfig{}, false
	}
	return rigConfigs[rigID], true
}

// Rewards returns the low and high rewards after halving.
func (r RigConfig) Rewards(halvingLevel uint8) (low, high uint64) {
	if halvingLevel >= 64 {
		return 0, 0
	}
	return r.BaseRewardLow >> halvingLevel, r.BaseRewardHigh >> halvingLevel
}

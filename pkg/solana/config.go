package solana

// Environment is an RPC endpoint for a known cluster.
type Environment string

const (
	EnvironmentX1Testnet Environment = "https://rpc.testnet.x1.xyz"
	EnvironmentX1Mainnet Environment = "https://rpc.mainnet.x1.xyz"
	EnvironmentLocal     Environment = "http://127.0.0.1:8899"
)

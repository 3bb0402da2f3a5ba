package constants

// Common string constants used throughout the codebase
const (
	// Log levels
	ErrorLevel = "error"

	// Environments
	ProdEnvironment = "prod"
	TestEnvironment = "test"

	// EIP-712 domain defaults, overridable through configuration.
	// These must byte-match the strings compiled into the executor contract.
	DefaultProtocolName    = "FanPay Checkout"
	DefaultProtocolVersion = "1"

	// Fan tokens are standard 18-decimal ERC-20s. All amounts inside the
	// core are expressed in base units; decimal strings are converted
	// exactly once, at the request boundary.
	FanTokenDecimals = 18

	// ZeroAddress is the canonical empty EVM address
	ZeroAddress = "0x0000000000000000000000000000000000000000"
)

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by FACTLOCK_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("FACTLOCK_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 3000
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// EvidenceProvider returns the configured evidence provider.
// Valid values: perplexity, newsapi, mock. Defaults to "perplexity".
func EvidenceProvider() string {
	p := os.Getenv("EVIDENCE_PROVIDER")
	if p == "" {
		return "perplexity"
	}
	return p
}

func PerplexityAPIKey() string {
	return os.Getenv("PERPLEXITY_API_KEY")
}

func NewsAPIKey() string {
	return os.Getenv("NEWS_API_KEY")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// EvidenceAPIKey returns the primary API key for the configured provider.
func EvidenceAPIKey() string {
	switch EvidenceProvider() {
	case "newsapi":
		return NewsAPIKey()
	case "mock":
		return ""
	default:
		return PerplexityAPIKey()
	}
}

// EvidencePolicy controls what an evaluation does when the provider
// returns nothing usable: "fail" propagates, "degrade" returns a false
// verdict with a placeholder source. Defaults to "fail".
func EvidencePolicy() string {
	p := os.Getenv("EVIDENCE_POLICY")
	if p == "" {
		return "fail"
	}
	return p
}

// RefutationMode selects how a refutation that misses the evidentiary bar
// surfaces: "strict" rejects it, "lenient" annotates it. Defaults to "strict".
func RefutationMode() string {
	m := os.Getenv("REFUTATION_MODE")
	if m == "" {
		return "strict"
	}
	return m
}

func EthRPCURL() string {
	u := os.Getenv("ETH_RPC_URL")
	if u == "" {
		return "https://sepolia.drpc.org"
	}
	return u
}

// EthPrivateKey returns the hex-encoded submission key. Ledger submission
// and the signing endpoints are disabled when it is empty.
func EthPrivateKey() string {
	return os.Getenv("ETH_PRIVATE_KEY")
}

// ExplorerTxURL returns the base URL transaction hashes are appended to
// when building explorer links.
func ExplorerTxURL() string {
	u := os.Getenv("EXPLORER_TX_URL")
	if u == "" {
		return "https://sepolia.etherscan.io/tx/"
	}
	return u
}

// DatabaseURL is optional; when empty the commitment journal is disabled
// and duplicate verdicts may be written to the ledger twice.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

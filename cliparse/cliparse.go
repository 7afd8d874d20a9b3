package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type Config struct {
	Port int

	// Chain backend: "ethereum" or "hedera"
	Backend string

	// Ethereum
	RPCURL          string
	ContractAddress string
	SignerKey       string

	// Hedera
	HederaNetwork    string
	HederaAccountID  string
	HederaPrivateKey string
	HederaContractID string

	// Chain call policy
	CallTimeout    time.Duration
	TxTimeout      time.Duration
	ReadRetries    int
	ReconnectAfter int
	VoterCacheSize int

	// Transaction journal
	DatabaseURL  string
	DatabaseType string

	AdminKey       string
	AllowedOrigins []string
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var origins string

	fs := flag.NewFlagSet("chainvote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.Backend, "backend", "", "Chain backend (ethereum or hedera)")
	fs.StringVar(&cfg.RPCURL, "rpc", "", "Ethereum JSON-RPC URL")
	fs.StringVar(&cfg.ContractAddress, "contract", "", "Election contract address (ethereum)")
	fs.StringVar(&cfg.HederaNetwork, "hedera-network", "", "Hedera network name")
	fs.StringVar(&cfg.HederaAccountID, "hedera-account", "", "Hedera operator account id")
	fs.StringVar(&cfg.HederaContractID, "contract-id", "", "Election contract id (hedera)")

	fs.DurationVar(&cfg.CallTimeout, "call-timeout", 0, "Timeout per chain call")
	fs.DurationVar(&cfg.TxTimeout, "tx-timeout", 0, "Timeout waiting for a transaction receipt")
	fs.IntVar(&cfg.ReadRetries, "read-retries", -1, "Retries for failed chain reads")
	fs.IntVar(&cfg.ReconnectAfter, "reconnect-after", 0, "Consecutive failures before redialing")
	fs.IntVar(&cfg.VoterCacheSize, "voter-cache", -1, "Voted addresses kept in memory (0 disables)")

	fs.StringVar(&cfg.DatabaseURL, "d", "", "Journal database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Journal database type (sqlite or postgres)")
	fs.StringVar(&origins, "cors", "", "Comma separated allowed origins")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SignerKey, "signer-key", "", "Server signing key (prefer env)")
	fs.StringVar(&cfg.HederaPrivateKey, "hedera-key", "", "Hedera operator key (prefer env)")
	fs.StringVar(&cfg.AdminKey, "admin-key", "", "Admin API key (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 5000 // default
		}
	}

	cfg.Backend = firstNonEmpty(cfg.Backend, os.Getenv("CHAIN_BACKEND"), "ethereum")

	switch cfg.Backend {
	case "ethereum":
		cfg.RPCURL = firstNonEmpty(cfg.RPCURL, os.Getenv("RPC_URL"))
		if cfg.RPCURL == "" {
			return Config{}, errors.New("RPC URL required (use -rpc or RPC_URL env)")
		}
		cfg.ContractAddress = firstNonEmpty(cfg.ContractAddress, os.Getenv("ELECTION_CONTRACT_ADDRESS"))
		if !common.IsHexAddress(cfg.ContractAddress) {
			return Config{}, errors.New("valid ELECTION_CONTRACT_ADDRESS required")
		}
		// Optional: without it the server can only build unsigned votes
		cfg.SignerKey = firstNonEmpty(cfg.SignerKey, os.Getenv("SIGNER_PRIVATE_KEY"))

	case "hedera":
		cfg.HederaNetwork = firstNonEmpty(cfg.HederaNetwork, os.Getenv("HEDERA_NETWORK"), "testnet")
		cfg.HederaAccountID = firstNonEmpty(cfg.HederaAccountID, os.Getenv("HEDERA_ACCOUNT_ID"))
		cfg.HederaPrivateKey = firstNonEmpty(cfg.HederaPrivateKey, os.Getenv("HEDERA_PRIVATE_KEY"))
		if cfg.HederaAccountID == "" || cfg.HederaPrivateKey == "" {
			return Config{}, errors.New("HEDERA_ACCOUNT_ID and HEDERA_PRIVATE_KEY required")
		}
		cfg.HederaContractID = firstNonEmpty(cfg.HederaContractID, os.Getenv("ELECTION_CONTRACT_ID"))
		if !strings.HasPrefix(cfg.HederaContractID, "0.0.") {
			return Config{}, errors.New("ELECTION_CONTRACT_ID must look like 0.0.N")
		}

	default:
		return Config{}, errors.New("backend must be ethereum or hedera")
	}

	var err error
	if cfg.CallTimeout, err = durationOr(cfg.CallTimeout, "CHAIN_CALL_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.TxTimeout, err = durationOr(cfg.TxTimeout, "CHAIN_TX_TIMEOUT", 2*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.ReadRetries < 0 {
		if cfg.ReadRetries, err = intOr("CHAIN_READ_RETRIES", 2); err != nil {
			return Config{}, err
		}
	}
	if cfg.ReconnectAfter <= 0 {
		if cfg.ReconnectAfter, err = intOr("CHAIN_RECONNECT_AFTER", 3); err != nil {
			return Config{}, err
		}
	}
	if cfg.VoterCacheSize < 0 {
		if cfg.VoterCacheSize, err = intOr("VOTER_CACHE_SIZE", 4096); err != nil {
			return Config{}, err
		}
	}

	cfg.DatabaseURL = firstNonEmpty(cfg.DatabaseURL, os.Getenv("DATABASE_URL"), "file:chainvote.db")
	cfg.DatabaseType = firstNonEmpty(cfg.DatabaseType, os.Getenv("DATABASE_TYPE"), "sqlite")
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("DATABASE_TYPE must be sqlite or postgres")
	}

	origins = firstNonEmpty(origins, os.Getenv("CORS_ORIGINS"), "*")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	// Secrets - MUST be provided
	if cfg.AdminKey == "" {
		cfg.AdminKey = os.Getenv("ADMIN_KEY")
	}
	if cfg.AdminKey == "" {
		return Config{}, errors.New("ADMIN_KEY required")
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func durationOr(current time.Duration, env string, def time.Duration) (time.Duration, error) {
	if current > 0 {
		return current, nil
	}
	s := os.Getenv(env)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + env + " env variable")
	}
	return d, nil
}

func intOr(env string, def int) (int, error) {
	s := os.Getenv(env)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + env + " env variable")
	}
	return n, nil
}

package config

const (
	defaultOutputRoot            = "NFTS"
	defaultLedgerPath            = "~/.local/share/chipgen/ledger.db"
	defaultLogDir                = ""
	defaultFormat                = "CHIP-0007"
	defaultCollectionName        = "Zuri NFT Tickets for Free Lunch"
	defaultCollectionDescription = "Rewards for accomplishments during HNGi9"
	defaultHashColumn            = "Sha256 hash"
	defaultOutputSuffix          = ".output.csv"
	defaultJSONStyle             = "compact"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputRoot: defaultOutputRoot,
			LedgerPath: defaultLedgerPath,
			LogDir:     defaultLogDir,
		},
		Collection: Collection{
			Format:      defaultFormat,
			Name:        defaultCollectionName,
			Description: defaultCollectionDescription,
		},
		Manifest: Manifest{
			HashColumn:   defaultHashColumn,
			OutputSuffix: defaultOutputSuffix,
			JSONStyle:    defaultJSONStyle,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package config

const (
	// Configuration file paths
	ConfigPathPacks       = "configs/packs.json"
	ConfigPathRarityTable = "configs/rarity_tables.json"
	ConfigPathCardCatalog = "configs/card_catalog.json"

	// Defaults
	DefaultPort                 = 8080
	DefaultExpiryWindowDays     = 14
	DefaultSweepIntervalMinutes = 60
	DefaultShippingFee          = 25
	DefaultDBMaxConns           = 10
)

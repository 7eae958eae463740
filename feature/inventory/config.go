package inventory

// Config holds configuration for the mirrored store.
type Config struct {
	// StoreUUID selects the store to mirror. When empty the seed's store is used.
	StoreUUID string `mapstructure:"store_uuid" default:""`
	// SeedPath is a local seed document applied at startup.
	SeedPath string `mapstructure:"seed_path" default:""`
	// SeedObject is a seed document in the storage bucket, used when SeedPath is empty.
	SeedObject string `mapstructure:"seed_object" default:""`
	// SnapshotPrefix is the bucket prefix for exported snapshots.
	SnapshotPrefix string `mapstructure:"snapshot_prefix" default:"snapshots"`
	// JournalLimit caps the number of retained notifications.
	JournalLimit int `mapstructure:"journal_limit" default:"1000"`
}

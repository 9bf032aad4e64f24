package db

const (
	// recordCacheSize bounds the number of decoded histograms kept in memory.
	recordCacheSize = 64

	// sqlTimeFormat is the layout used for updated_at values.
	sqlTimeFormat = "2006-01-02 15:04:05"
)

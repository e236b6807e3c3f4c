package flatten

//Name: conduit_processors_flatten

// Config configuration for the flatten processor
type Config struct {
	// <code>drop</code> lists columns removed from every record when present.
	// Default: [secondaryCategory]
	Drop []string `yaml:"drop"`
	// <code>expand</code> lists nested columns expanded into parent_child
	// columns, in order. A column produced by an earlier expansion may be
	// expanded again by a later entry.
	Expand []string `yaml:"expand"`
}

// DefaultDrop are the columns too sparse to be useful in a catalog export.
var DefaultDrop = []string{"secondaryCategory"}

// DefaultExpand are the nested columns of a Finding API search item.
var DefaultExpand = []string{
	"condition",
	"listingInfo",
	"primaryCategory",
	"sellingStatus",
	"sellingStatus_convertedCurrentPrice",
	"sellingStatus_currentPrice",
	"shippingInfo",
	"shippingInfo_shippingServiceCost",
}

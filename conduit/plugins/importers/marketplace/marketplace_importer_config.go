package marketplace

import "time"

//Name: conduit_importers_marketplace

// Config specific to the marketplace importer
type Config struct {
	// <code>app-id</code> is the application id sent as SECURITY-APPNAME.
	AppID string `yaml:"app-id"`
	// <code>call-type</code> is the Finding API operation, one of findItemsAdvanced,
	// findCompletedItems or findItemsByKeywords.
	CallType string `yaml:"call-type"`
	// <code>keywords</code> is the search term.
	Keywords string `yaml:"keywords"`
	// <code>page-budget</code> caps the number of pages fetched. Omitted or 0 selects the default of 100.
	PageBudget uint64 `yaml:"page-budget"`
	// <code>entries-per-page</code> is sent as paginationInput.entriesPerPage when set.
	EntriesPerPage uint64 `yaml:"entries-per-page"`
	// <code>endpoint</code> overrides the Finding API URL.
	Endpoint string `yaml:"endpoint"`
	// <code>timeout</code> bounds each request.
	Timeout time.Duration `yaml:"timeout"`
}

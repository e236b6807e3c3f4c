package marketplace

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fetchsync/fetchsync/conduit/plugins"
	"github.com/fetchsync/fetchsync/conduit/plugins/importers"
	"github.com/fetchsync/fetchsync/data"
)

var logger *logrus.Logger

func init() {
	logger, _ = test.NewNullLogger()
}

const testEndpoint = "http://finding.test/services/search/FindingService/v1"

func pluginConfig(t *testing.T, cfg Config) plugins.PluginConfig {
	pcfg, err := plugins.MarshalPluginConfig(cfg)
	require.NoError(t, err)
	return pcfg
}

func testConfig() Config {
	return Config{
		AppID:      "app-123",
		CallType:   "findItemsAdvanced",
		Keywords:   "film camera",
		PageBudget: 5,
		Endpoint:   testEndpoint,
	}
}

// pageResponse renders a Finding API JSON response with one item per page.
func pageResponse(callType string, page, total int) string {
	return fmt.Sprintf(`{"%sResponse":[{
  "ack":["Success"],
  "version":["1.13.0"],
  "searchResult":[{"@count":"1","item":[{
    "itemId":["%d"],
    "title":["item on page %d"],
    "sellingStatus":[{"currentPrice":[{"@currencyId":"USD","__value__":"10.5"}],"sellingState":["Active"]}]
  }]}],
  "paginationOutput":[{"pageNumber":["%d"],"entriesPerPage":["1"],"totalPages":["%d"],"totalEntries":["%d"]}]
}]}`, callType, 1000+page, page, page, total, total)
}

// registerPages serves total pages and records the requested page numbers.
func registerPages(total int, requested *[]int) {
	httpmock.RegisterResponder(http.MethodGet, testEndpoint,
		func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			page, err := strconv.Atoi(q.Get("paginationInput.pageNumber"))
			if err != nil {
				return httpmock.NewStringResponse(400, "bad page"), nil
			}
			*requested = append(*requested, page)
			return httpmock.NewStringResponse(200, pageResponse(q.Get("OPERATION-NAME"), page, total)), nil
		})
}

func drain(t *testing.T, imp importers.Importer) []data.Batch {
	var batches []data.Batch
	for seq := uint64(1); ; seq++ {
		b, err := imp.GetBatch(seq)
		if errors.Is(err, importers.ErrNoMoreBatches) {
			return batches
		}
		require.NoError(t, err)
		batches = append(batches, b)
	}
}

func TestImporterMetadata(t *testing.T) {
	imp := New()
	metadata := imp.Metadata()
	assert.Equal(t, metadata.Name, marketplaceImporterMetadata.Name)
	assert.Equal(t, metadata.Description, marketplaceImporterMetadata.Description)
	assert.Equal(t, metadata.Deprecated, marketplaceImporterMetadata.Deprecated)
}

func TestPageBudgetCapsPages(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	tests := []struct {
		name     string
		total    int
		budget   uint64
		expected int
	}{
		{"fewer pages than budget", 3, 5, 3},
		{"budget smaller than pages", 8, 2, 2},
		{"no results", 0, 5, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var requested []int
			registerPages(tc.total, &requested)

			cfg := testConfig()
			cfg.PageBudget = tc.budget
			imp := New()
			require.NoError(t, imp.Init(context.Background(), pluginConfig(t, cfg), logger))
			defer imp.Close()

			batches := drain(t, imp)
			require.Len(t, batches, tc.expected)
			for i, b := range batches {
				assert.Equal(t, uint64(i+1), b.Sequence())
				require.Len(t, b.Records, 1)
				assert.Equal(t, strconv.Itoa(1000+i+1), b.Records[0]["itemId"])
			}
			// page 1 is fetched once, during Init
			expectedRequests := []int{1}
			for p := 2; p <= tc.expected; p++ {
				expectedRequests = append(expectedRequests, p)
			}
			assert.Equal(t, expectedRequests, requested)
		})
	}
}

func TestRequestParameters(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	var got url.Values
	httpmock.RegisterResponder(http.MethodGet, testEndpoint,
		func(req *http.Request) (*http.Response, error) {
			got = req.URL.Query()
			return httpmock.NewStringResponse(200, pageResponse("findCompletedItems", 1, 1)), nil
		})

	cfg := testConfig()
	cfg.CallType = "findCompletedItems"
	cfg.EntriesPerPage = 50
	imp := New()
	require.NoError(t, imp.Init(context.Background(), pluginConfig(t, cfg), logger))

	assert.Equal(t, "findCompletedItems", got.Get("OPERATION-NAME"))
	assert.Equal(t, ServiceVersion, got.Get("SERVICE-VERSION"))
	assert.Equal(t, "app-123", got.Get("SECURITY-APPNAME"))
	assert.Equal(t, "JSON", got.Get("RESPONSE-DATA-FORMAT"))
	assert.Equal(t, "film camera", got.Get("keywords"))
	assert.Equal(t, "1", got.Get("paginationInput.pageNumber"))
	assert.Equal(t, "50", got.Get("paginationInput.entriesPerPage"))
}

func TestInitConnectionError(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder(http.MethodGet, testEndpoint, httpmock.NewErrorResponder(errors.New("no such host")))

	imp := New()
	err := imp.Init(context.Background(), pluginConfig(t, testConfig()), logger)
	var connErr *importers.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, testEndpoint, connErr.Source)
	assert.Contains(t, err.Error(), "no such host")
}

func TestInitFailures(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	tests := []struct {
		name      string
		responder httpmock.Responder
		errMsg    string
	}{
		{"bad status", httpmock.NewStringResponder(500, "oops"), "unexpected status 500"},
		{"failure ack", httpmock.NewStringResponder(200,
			`{"findItemsAdvancedResponse":[{"ack":["Failure"],"errorMessage":[{"error":[{"message":["Invalid app id"]}]}]}]}`),
			`ack was "Failure": Invalid app id`},
		{"wrong envelope", httpmock.NewStringResponder(200, `{"somethingElse":[]}`), "response has no findItemsAdvancedResponse"},
		{"not json", httpmock.NewStringResponder(200, `<xml/>`), "malformed response"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			httpmock.RegisterResponder(http.MethodGet, testEndpoint, tc.responder)
			imp := New()
			err := imp.Init(context.Background(), pluginConfig(t, testConfig()), logger)
			require.Error(t, err)
			var connErr *importers.ConnectionError
			assert.False(t, errors.As(err, &connErr))
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestInitConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"no app id", func(c *Config) { c.AppID = "" }, "requires an app-id"},
		{"bad call type", func(c *Config) { c.CallType = "findEverything" }, "call-type (findEverything) is not one of"},
		{"no keywords", func(c *Config) { c.Keywords = "" }, "requires keywords"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			err := New().Init(context.Background(), pluginConfig(t, cfg), logger)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}

	err := New().Init(context.Background(), plugins.MakePluginConfig("`"), logger)
	assert.ErrorContains(t, err, "connect failure in unmarshalConfig")
}

func TestLaterPageFailureIsNotConnectionError(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, testEndpoint,
		func(req *http.Request) (*http.Response, error) {
			if req.URL.Query().Get("paginationInput.pageNumber") == "2" {
				return nil, errors.New("connection reset")
			}
			return httpmock.NewStringResponse(200, pageResponse("findItemsAdvanced", 1, 3)), nil
		})

	imp := New()
	require.NoError(t, imp.Init(context.Background(), pluginConfig(t, testConfig()), logger))
	_, err := imp.GetBatch(1)
	require.NoError(t, err)
	_, err = imp.GetBatch(2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GetBatch(): page 2")
	var connErr *importers.ConnectionError
	assert.False(t, errors.As(err, &connErr))
}

func TestConfigDefaults(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder(http.MethodGet, DefaultEndpoint,
		httpmock.NewStringResponder(200, pageResponse("findItemsAdvanced", 1, 1)))

	cfg := testConfig()
	cfg.Endpoint = ""
	cfg.PageBudget = 0
	imp := New()
	require.NoError(t, imp.Init(context.Background(), pluginConfig(t, cfg), logger))

	var actual Config
	require.NoError(t, yaml.Unmarshal([]byte(imp.Config()), &actual))
	assert.Equal(t, uint64(DefaultPageBudget), actual.PageBudget)
	assert.Equal(t, DefaultEndpoint, actual.Endpoint)
}

func TestProvideMetrics(t *testing.T) {
	imp := &marketplaceImporter{}
	assert.Len(t, imp.ProvideMetrics("fetchsync"), 1)
}

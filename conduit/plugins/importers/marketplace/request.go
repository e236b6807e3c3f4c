package marketplace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/fetchsync/fetchsync/data"
)

const (
	// DefaultEndpoint is the production Finding API.
	DefaultEndpoint = "https://svcs.ebay.com/services/search/FindingService/v1"
	// ServiceVersion is sent as SERVICE-VERSION.
	ServiceVersion = "1.13.0"
)

// SupportedCallTypes are the Finding API operations the importer can page through.
var SupportedCallTypes = []string{"findItemsAdvanced", "findCompletedItems", "findItemsByKeywords"}

func supported(callType string) bool {
	for _, c := range SupportedCallTypes {
		if c == callType {
			return true
		}
	}
	return false
}

// searchRequest is the mutable part of a request, the page number moves forward
// as pages are fetched.
type searchRequest struct {
	Keywords   string
	PageNumber uint64
}

func buildURL(cfg Config, req searchRequest) (string, error) {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", cfg.Endpoint, err)
	}
	q := u.Query()
	q.Set("OPERATION-NAME", cfg.CallType)
	q.Set("SERVICE-VERSION", ServiceVersion)
	q.Set("SECURITY-APPNAME", cfg.AppID)
	q.Set("RESPONSE-DATA-FORMAT", "JSON")
	q.Set("REST-PAYLOAD", "")
	q.Set("keywords", req.Keywords)
	q.Set("paginationInput.pageNumber", strconv.FormatUint(req.PageNumber, 10))
	if cfg.EntriesPerPage > 0 {
		q.Set("paginationInput.entriesPerPage", strconv.FormatUint(cfg.EntriesPerPage, 10))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// resultPage is one decoded Finding API response.
type resultPage struct {
	Ack        string
	PageNumber uint64
	TotalPages uint64
	Items      []data.Record
}

// decodePage decodes a JSON Finding API response. Every value in the JSON
// rendition is wrapped in an array; single element arrays are unwrapped,
// "@attr" keys become "_attr" and "__value__" becomes "value".
func decodePage(callType string, body []byte) (resultPage, error) {
	var page resultPage

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var envelope map[string]interface{}
	if err := dec.Decode(&envelope); err != nil {
		return page, fmt.Errorf("decodePage(): malformed response: %w", err)
	}

	key := callType + "Response"
	wrapped, ok := envelope[key].([]interface{})
	if !ok || len(wrapped) == 0 {
		if msg := errorMessage(unwrap(envelope["errorMessage"])); msg != "" {
			return page, fmt.Errorf("decodePage(): %s", msg)
		}
		return page, fmt.Errorf("decodePage(): response has no %s", key)
	}
	resp, ok := wrapped[0].(map[string]interface{})
	if !ok {
		return page, fmt.Errorf("decodePage(): %s is not an object", key)
	}

	page.Ack = scalar(unwrap(resp["ack"]))
	if page.Ack != "Success" && page.Ack != "Warning" {
		msg := errorMessage(unwrap(resp["errorMessage"]))
		if msg == "" {
			msg = "no error message"
		}
		return page, fmt.Errorf("decodePage(): ack was %q: %s", page.Ack, msg)
	}

	if pagination, ok := unwrap(resp["paginationOutput"]).(map[string]interface{}); ok {
		var err error
		if page.TotalPages, err = parseCount(pagination["totalPages"]); err != nil {
			return page, fmt.Errorf("decodePage(): totalPages: %w", err)
		}
		if page.PageNumber, err = parseCount(pagination["pageNumber"]); err != nil {
			return page, fmt.Errorf("decodePage(): pageNumber: %w", err)
		}
	}

	// item stays a list even with a single entry
	if results, ok := resp["searchResult"].([]interface{}); ok && len(results) > 0 {
		if result, ok := results[0].(map[string]interface{}); ok {
			items, _ := result["item"].([]interface{})
			for _, item := range items {
				rec, ok := unwrap(item).(map[string]interface{})
				if !ok {
					return page, fmt.Errorf("decodePage(): search result item is not an object")
				}
				page.Items = append(page.Items, rec)
			}
		}
	}
	return page, nil
}

// unwrap removes the single element array wrapping recursively.
func unwrap(v interface{}) interface{} {
	switch t := v.(type) {
	case []interface{}:
		if len(t) == 1 {
			return unwrap(t[0])
		}
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = unwrap(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			switch {
			case k == "__value__":
				k = "value"
			case strings.HasPrefix(k, "@"):
				k = "_" + k[1:]
			}
			out[k] = unwrap(e)
		}
		return out
	default:
		return v
	}
}

func scalar(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func parseCount(v interface{}) (uint64, error) {
	s := scalar(unwrap(v))
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 64)
}

// errorMessage collects the messages of an unwrapped errorMessage block.
func errorMessage(v interface{}) string {
	block, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	var errs []interface{}
	switch e := block["error"].(type) {
	case []interface{}:
		errs = e
	case map[string]interface{}:
		errs = []interface{}{e}
	}
	var msgs []string
	for _, e := range errs {
		if m, ok := e.(map[string]interface{}); ok {
			if msg := scalar(m["message"]); msg != "" {
				msgs = append(msgs, msg)
			}
		}
	}
	return strings.Join(msgs, "; ")
}

package jira

import (
	"context"
	"net/http"
	"sync"

	"github.com/tidwall/gjson"
)

// fieldCatalog memoizes the field list of a Jira instance for one adapter.
type fieldCatalog struct {
	adapter *Adapter

	once       sync.Once
	searchable map[string]bool
	err        error
}

func (c *fieldCatalog) load(ctx context.Context) error {
	c.once.Do(func() {
		c.searchable = map[string]bool{}
		resp, ok, err := c.adapter.call(ctx, http.MethodGet, "/rest/api/2/field", nil)
		if err != nil {
			c.err = err
			return
		}
		if !ok {
			c.adapter.Logger().Info("JIRA field lookup failed, assuming labels are not searchable",
				"status", resp.StatusCode,
			)
			return
		}
		parsed := gjson.ParseBytes(resp.Body)
		if !parsed.IsArray() {
			return
		}
		for _, field := range parsed.Array() {
			id := field.Get("id").String()
			if id == "" {
				continue
			}
			c.searchable[id] = field.Get("searchable").Bool()
		}
	})
	return c.err
}

// LabelsSearchable reports whether JQL can filter on labels.
func (c *fieldCatalog) LabelsSearchable(ctx context.Context) (bool, error) {
	if err := c.load(ctx); err != nil {
		return false, err
	}
	return c.searchable["labels"], nil
}

func isFatalSearchStatus(code int) bool {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden, code == http.StatusNotFound:
		return true
	case code >= http.StatusInternalServerError:
		return true
	default:
		return false
	}
}

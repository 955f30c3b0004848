package crm

import (
	"sort"
	"strings"

	"github.com/spec-kit/travel-crm/internal/domain"
)

// DefaultSearchLimit caps a global search when the caller gives no limit.
const DefaultSearchLimit = 20

// ResultType tells which collection a search hit came from.
type ResultType string

const (
	ResultCustomer ResultType = "customer"
	ResultLog      ResultType = "log"
)

// SearchResult is one hit of a global search. Exactly one of Customer or Log
// is set, matching Type.
type SearchResult struct {
	Type          ResultType       `json:"type"`
	Customer      *domain.Customer `json:"customer,omitempty"`
	Log           *domain.DailyLog `json:"log,omitempty"`
	MatchedFields []string         `json:"matchedFields"`
}

// Search looks for term across customers and logs, case-insensitively. Hits
// matching more fields rank first; ties keep customers before logs and input
// order otherwise. A blank term yields no results.
func Search(customers []domain.Customer, logs []domain.DailyLog, term string, limit int) []SearchResult {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []SearchResult{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	results := make([]SearchResult, 0)
	for i := range customers {
		c := customers[i]
		fields := matchedFields(term,
			"name", c.Name,
			"email", c.Email,
			"company", c.Company,
			"phone", c.Phone,
		)
		if len(fields) > 0 {
			results = append(results, SearchResult{Type: ResultCustomer, Customer: &c, MatchedFields: fields})
		}
	}
	for i := range logs {
		l := logs[i]
		fields := matchedFields(term,
			"customer", l.CustomerName,
			"subject", l.Subject,
			"description", l.Description,
			"type", string(l.Type),
		)
		if len(fields) > 0 {
			results = append(results, SearchResult{Type: ResultLog, Log: &l, MatchedFields: fields})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return len(results[i].MatchedFields) > len(results[j].MatchedFields)
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// matchedFields takes name/value pairs and returns the names whose value
// contains term.
func matchedFields(term string, pairs ...string) []string {
	var out []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.Contains(strings.ToLower(pairs[i+1]), term) {
			out = append(out, pairs[i])
		}
	}
	return out
}

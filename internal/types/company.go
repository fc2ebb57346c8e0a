package types

import "time"

// DefaultCompanyInfoTTL is how long cached company research stays fresh.
const DefaultCompanyInfoTTL = 30 * 24 * time.Hour

// CompanyInfo is the researched profile of a hiring company. Fields other
// than Name may be empty; consumers must tolerate partial records.
type CompanyInfo struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Industry    string    `json:"industry"`
	Products    []string  `json:"products"`
	Values      []string  `json:"values"`
	TechStack   []string  `json:"tech_stack"`
	Trends      []string  `json:"trends"`
	CachedAt    time.Time `json:"cached_at,omitempty"`
}

// HasContent reports whether the research produced anything usable beyond
// the bare company name.
func (c *CompanyInfo) HasContent() bool {
	if c == nil {
		return false
	}
	return c.Description != "" || c.Industry != "" ||
		len(c.Products) > 0 || len(c.Values) > 0 ||
		len(c.TechStack) > 0 || len(c.Trends) > 0
}

// Stale reports whether the cached record is older than ttl. A zero
// CachedAt is always stale.
func (c *CompanyInfo) Stale(ttl time.Duration, now time.Time) bool {
	if c == nil || c.CachedAt.IsZero() {
		return true
	}
	return now.Sub(c.CachedAt) > ttl
}

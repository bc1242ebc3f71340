package models

import (
	"fmt"
	"strings"
)

// SubdomainSuffix is the shared domain under which subdomain-hosted blogs are
// exposed when no custom domain is configured.
const SubdomainSuffix = "blog.ai"

// DomainSettings describes the external address under which a user's published
// blogs are exposed. A single record exists per deployment; OwnerID is carried
// for a future multi-tenant split but is not used as a storage key.
type DomainSettings struct {
	OwnerID      string `json:"userId,omitempty"`
	CustomDomain string `json:"customDomain,omitempty"`
	Subdomain    string `json:"subdomain,omitempty"`
	IsActive     bool   `json:"isActive"`
}

// Normalize derives IsActive from the domain fields: the settings are active
// when either field is non-empty.
func (s *DomainSettings) Normalize() {
	s.CustomDomain = strings.TrimSpace(s.CustomDomain)
	s.Subdomain = strings.TrimSpace(s.Subdomain)
	s.IsActive = s.CustomDomain != "" || s.Subdomain != ""
}

// PublicURL returns the externally reachable address of a published blog.
// A custom domain takes precedence over the subdomain; an empty string means
// the settings expose nothing.
func (s DomainSettings) PublicURL(blogID string) string {
	switch {
	case s.CustomDomain != "":
		return fmt.Sprintf("https://%s/%s", s.CustomDomain, blogID)
	case s.Subdomain != "":
		return fmt.Sprintf("https://%s.%s/%s", s.Subdomain, SubdomainSuffix, blogID)
	default:
		return ""
	}
}

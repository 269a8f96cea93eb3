package tenants

import "time"

// Tenant represents an organisation hosted by the server, identified by its domain.
// Tenants may be nested under a parent tenant; DepthOfHierarchy records how far
// down the tree the tenant sits.
type Tenant struct {
	ID               string    `json:"id" yaml:"id"`
	Domain           string    `json:"domain" yaml:"domain"` // Unique key used by the stores
	Name             string    `json:"name" yaml:"name"`
	Description      string    `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedDate      time.Time `json:"created_date" yaml:"created_date"`
	AdminUsername    string    `json:"admin_username" yaml:"admin_username"`
	AdminEmail       string    `json:"admin_email" yaml:"admin_email"`
	Parent           *Tenant   `json:"-" yaml:"-"` // Optional, nil for tenants directly under the server
	DepthOfHierarchy int       `json:"depth_of_hierarchy" yaml:"depth_of_hierarchy"`
}

// HasParent reports whether the tenant is nested under another tenant.
func (t *Tenant) HasParent() bool {
	return t != nil && t.Parent != nil
}

package xmlstore

import "time"

const (
	rootElement = "TenantStore"

	// RootParentID is written as the parent of tenants that sit directly under the server.
	RootParentID = "Server"

	xmlHeader = `<?xml version="1.0" encoding="ISO-8859-1" standalone="yes"?>` + "\n"
	indent    = "    "
)

// TenantRecordCollection is the root of the store file. Record order is kept on
// write but carries no meaning.
type TenantRecordCollection struct {
	Tenants []TenantRecord `xml:"Tenant"`
}

// TenantRecord is the persisted form of a tenant.
type TenantRecord struct {
	ID          string          `xml:"ID"`
	Domain      string          `xml:"Domain"`
	Name        string          `xml:"Name"`
	Description string          `xml:"Description"`
	CreatedDate time.Time       `xml:"CreatedDate"`
	AdminUser   AdminUserRecord `xml:"AdminUser"`
	Hierarchy   HierarchyRecord `xml:"Hierarchy"`
}

type AdminUserRecord struct {
	Name         string `xml:"Name"`
	EmailAddress string `xml:"EmailAddress"`
}

type HierarchyRecord struct {
	ParentID         string `xml:"ParentID"`
	DepthOfHierarchy int    `xml:"DepthOfHierarchy"`
}

func (r *TenantRecord) text() []string {
	return []string{
		r.ID,
		r.Domain,
		r.Name,
		r.Description,
		r.AdminUser.Name,
		r.AdminUser.EmailAddress,
		r.Hierarchy.ParentID,
	}
}

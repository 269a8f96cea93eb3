package xmlstore

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/jrsteele09/go-tenant-store/internal/errors"
	"github.com/jrsteele09/go-tenant-store/tenants"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// DecodeAll parses a complete store file. Empty or whitespace-only content is an
// empty collection.
func DecodeAll(data []byte) (*TenantRecordCollection, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &TenantRecordCollection{}, nil
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	start, err := rootStart(dec)
	if err != nil {
		return nil, err
	}

	var c TenantRecordCollection
	if err := dec.DecodeElement(&c, &start); err != nil {
		return nil, errors.Mark(fmt.Errorf("[xmlstore DecodeAll] decoding <%s>: %w", rootElement, err), tenants.ErrFormat)
	}

	if err := expectEnd(dec); err != nil {
		return nil, err
	}

	// Offsets in the file are kept as instants; records always carry UTC.
	for i := range c.Tenants {
		c.Tenants[i].CreatedDate = c.Tenants[i].CreatedDate.UTC()
	}
	return &c, nil
}

// EncodeAll serialises the collection as indented ISO-8859-1 XML. Characters
// outside Latin-1 are written as numeric character references.
func EncodeAll(c *TenantRecordCollection) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("[xmlstore EncodeAll] nil collection: %w", tenants.ErrFormat)
	}
	for i := range c.Tenants {
		if err := validateRecord(&c.Tenants[i]); err != nil {
			return nil, fmt.Errorf("[xmlstore EncodeAll] tenant %d: %w", i, err)
		}
	}

	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", indent)
	if err := enc.EncodeElement(c, xml.StartElement{Name: xml.Name{Local: rootElement}}); err != nil {
		return nil, errors.Mark(fmt.Errorf("[xmlstore EncodeAll] encoding <%s>: %w", rootElement, err), tenants.ErrFormat)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Mark(fmt.Errorf("[xmlstore EncodeAll] flushing encoder: %w", err), tenants.ErrFormat)
	}
	buf.WriteByte('\n')

	out, err := encoding.HTMLEscapeUnsupported(charmap.ISO8859_1.NewEncoder()).Bytes(buf.Bytes())
	if err != nil {
		return nil, errors.Mark(fmt.Errorf("[xmlstore EncodeAll] transcoding to ISO-8859-1: %w", err), tenants.ErrFormat)
	}
	return out, nil
}

// ToRecord maps a tenant onto its persisted form.
//
// CreatedDate is normalised to UTC, which is what DecodeAll returns.
//
// A tenant with a parent is stored one level above the parent's depth
// (parent depth - 1), while a tenant without a parent keeps its own depth.
// The two branches are not symmetric; existing files depend on this.
func ToRecord(t *tenants.Tenant) TenantRecord {
	r := TenantRecord{
		ID:          t.ID,
		Domain:      t.Domain,
		Name:        t.Name,
		Description: t.Description,
		CreatedDate: t.CreatedDate.UTC(),
		AdminUser: AdminUserRecord{
			Name:         t.AdminUsername,
			EmailAddress: t.AdminEmail,
		},
	}

	if t.HasParent() {
		r.Hierarchy = HierarchyRecord{
			ParentID:         t.Parent.ID,
			DepthOfHierarchy: t.Parent.DepthOfHierarchy - 1,
		}
	} else {
		r.Hierarchy = HierarchyRecord{
			ParentID:         RootParentID,
			DepthOfHierarchy: t.DepthOfHierarchy,
		}
	}
	return r
}

// ToEntity maps a record back to a tenant. Hierarchy information is not
// restored: Parent is nil and DepthOfHierarchy is zero.
func ToEntity(r *TenantRecord) *tenants.Tenant {
	return &tenants.Tenant{
		ID:            r.ID,
		Domain:        r.Domain,
		Name:          r.Name,
		Description:   r.Description,
		CreatedDate:   r.CreatedDate,
		AdminUsername: r.AdminUser.Name,
		AdminEmail:    r.AdminUser.EmailAddress,
	}
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

func rootStart(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return xml.StartElement{}, fmt.Errorf("[xmlstore DecodeAll] missing <%s> root element: %w", rootElement, tenants.ErrFormat)
		}
		if err != nil {
			return xml.StartElement{}, errors.Mark(fmt.Errorf("[xmlstore DecodeAll] reading prolog: %w", err), tenants.ErrFormat)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != rootElement {
				return xml.StartElement{}, fmt.Errorf("[xmlstore DecodeAll] unexpected root element <%s>: %w", t.Name.Local, tenants.ErrFormat)
			}
			return t, nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return xml.StartElement{}, fmt.Errorf("[xmlstore DecodeAll] text before root element: %w", tenants.ErrFormat)
			}
		}
	}
}

func expectEnd(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Mark(fmt.Errorf("[xmlstore DecodeAll] reading trailer: %w", err), tenants.ErrFormat)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("[xmlstore DecodeAll] unexpected element <%s> after root: %w", t.Name.Local, tenants.ErrFormat)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return fmt.Errorf("[xmlstore DecodeAll] text after root element: %w", tenants.ErrFormat)
			}
		}
	}
}

func validateRecord(r *TenantRecord) error {
	if _, err := r.CreatedDate.MarshalText(); err != nil {
		return fmt.Errorf("created date: %v: %w", err, tenants.ErrFormat)
	}
	for _, s := range r.text() {
		if !utf8.ValidString(s) {
			return fmt.Errorf("invalid UTF-8 in %q: %w", s, tenants.ErrFormat)
		}
		for _, c := range s {
			if !isXMLChar(c) {
				return fmt.Errorf("character %U cannot be stored in XML: %w", c, tenants.ErrFormat)
			}
		}
	}
	return nil
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	return r == 0x09 ||
		r == 0x0A ||
		r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

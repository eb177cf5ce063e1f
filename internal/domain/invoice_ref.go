package domain

import "fmt"

// InvoiceLocation says which table set currently holds an invoice.
type InvoiceLocation int

const (
	LocationLive InvoiceLocation = iota
	LocationArchived
)

func (l InvoiceLocation) String() string {
	if l == LocationArchived {
		return "archived"
	}
	return "live"
}

// InvoiceRef points at an invoice either in the live table set or in the
// archived one. Repositories resolve the table from Location.
type InvoiceRef struct {
	ID       int64
	Location InvoiceLocation
}

// LiveRef references a live invoice.
func LiveRef(id int64) InvoiceRef {
	return InvoiceRef{ID: id, Location: LocationLive}
}

// ArchivedRef references an archived invoice.
func ArchivedRef(id int64) InvoiceRef {
	return InvoiceRef{ID: id, Location: LocationArchived}
}

// IsArchived reports whether the invoice lives in the archived table set.
func (r InvoiceRef) IsArchived() bool {
	return r.Location == LocationArchived
}

func (r InvoiceRef) String() string {
	return fmt.Sprintf("%s:%d", r.Location, r.ID)
}

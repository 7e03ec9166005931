// Package models defines the wedding site's data types shared by the
// services, the mirror and the admin CLI.
package models

import "io"

// PhotoItem is a gallery photo. Order is optional; photos without one sort
// as equal to each other.
type PhotoItem struct {
	ID    string `json:"id"`
	Src   string `json:"src"`
	Alt   string `json:"alt"`
	Order *int   `json:"order,omitempty"`
}

// OrderValue returns the display order, 0 when unset.
func (p PhotoItem) OrderValue() int {
	if p.Order == nil {
		return 0
	}
	return *p.Order
}

// NewPhoto is the input of a gallery upload.
type NewPhoto struct {
	Alt         string
	FileName    string
	ContentType string
	Body        io.Reader
}

// IntPtr is a small helper for optional orders.
func IntPtr(v int) *int {
	return &v
}

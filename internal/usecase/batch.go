package usecase

import (
	"gitlab.com/timkado/api/lead-importer/internal/model"
)

// Batch buffers accepted leads in row order until they are flushed.
type Batch struct {
	leads []model.Lead
	size  int
}

// NewBatch creates a batch that reports full at size leads.
func NewBatch(size int) *Batch {
	if size < 1 {
		size = 1
	}
	return &Batch{leads: make([]model.Lead, 0, size), size: size}
}

// Add appends a lead and reports whether the batch is now full.
func (b *Batch) Add(lead model.Lead) bool {
	b.leads = append(b.leads, lead)
	return len(b.leads) >= b.size
}

// Leads returns the buffered leads. The slice is reused after Reset.
func (b *Batch) Leads() []model.Lead {
	return b.leads
}

// Len returns the number of buffered leads.
func (b *Batch) Len() int {
	return len(b.leads)
}

// PhoneRows counts the leads that will get a phone queue row.
func (b *Batch) PhoneRows() int {
	n := 0
	for _, l := range b.leads {
		if l.HasPhones() {
			n++
		}
	}
	return n
}

// Reset empties the batch, keeping its capacity.
func (b *Batch) Reset() {
	b.leads = b.leads[:0]
}

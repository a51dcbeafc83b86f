package project

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is a stored project: the document plus bookkeeping
type Record struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Document  *Document `json:"document"`
}

// Summary is the listing view of a Record
type Summary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	UpdatedAt   time.Time `json:"updated_at"`
	States      int       `json:"states"`
	Transitions int       `json:"transitions"`
}

// NewRecord wraps p under a fresh id
func NewRecord(name string, p *Project) *Record {
	now := time.Now()
	return &Record{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Document:  Encode(p),
	}
}

// Project decodes the stored document
func (r *Record) Project() (*Project, error) {
	return Decode(r.Document)
}

// Replace stores p as the record's document
func (r *Record) Replace(p *Project) {
	r.Document = Encode(p)
}

func (r *Record) Summary() Summary {
	s := Summary{ID: r.ID, Name: r.Name, UpdatedAt: r.UpdatedAt}
	if r.Document != nil {
		s.States = len(r.Document.States)
		s.Transitions = len(r.Document.Transitions)
	}
	return s
}

// SortSummaries orders by most recently updated, then by id
func SortSummaries(s []Summary) {
	slices.SortFunc(s, func(a, b Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
}

package store

import (
	"context"
	"sync"
	"time"

	"courtside/models"
)

// Document is the full persisted state
type Document struct {
	Users        map[string]*models.User `json:"users"`
	Transactions []*models.Transaction   `json:"transactions"`
}

// NewDocument returns an empty document
func NewDocument() *Document {
	return &Document{
		Users:        make(map[string]*models.User),
		Transactions: []*models.Transaction{},
	}
}

// Clone returns a deep copy of the document
func (d *Document) Clone() *Document {
	c := &Document{
		Users:        make(map[string]*models.User, len(d.Users)),
		Transactions: make([]*models.Transaction, len(d.Transactions)),
	}
	for id, u := range d.Users {
		c.Users[id] = u.Clone()
	}
	for i, tx := range d.Transactions {
		c.Transactions[i] = tx.Clone()
	}
	return c
}

// normalize fills in nil collections left by decoding
func (d *Document) normalize() {
	if d.Users == nil {
		d.Users = make(map[string]*models.User)
	}
	if d.Transactions == nil {
		d.Transactions = []*models.Transaction{}
	}
	for id, u := range d.Users {
		if u == nil {
			delete(d.Users, id)
			continue
		}
		if u.ID == "" {
			u.ID = id
		}
		if u.Cooldowns == nil {
			u.Cooldowns = make(map[models.CooldownName]time.Time)
		}
	}
}

// Change describes what a single commit altered. Full-document persisters may ignore it;
// row-oriented persisters write only the changed user and the appended records.
type Change struct {
	User         *models.User
	Transactions []*models.Transaction
}

// Persister durably stores the document. Commit is called with the store mutex held and
// must not return before the change is durable.
type Persister interface {
	Load(ctx context.Context) (*Document, error)
	Commit(ctx context.Context, doc *Document, change Change) error
}

// MemoryPersister keeps the committed document in memory. Used by tests and dry runs.
type MemoryPersister struct {
	mu      sync.Mutex
	doc     *Document
	commits int
}

// NewMemoryPersister creates an empty in-memory persister
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{doc: NewDocument()}
}

func (p *MemoryPersister) Load(ctx context.Context) (*Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Clone(), nil
}

func (p *MemoryPersister) Commit(ctx context.Context, doc *Document, change Change) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.doc = doc.Clone()
	p.commits++
	return nil
}

// Commits returns the number of successful commits
func (p *MemoryPersister) Commits() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.commits
}

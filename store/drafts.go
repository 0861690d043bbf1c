package store

import (
	"time"

	"canal-denuncies/models"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Drafts holds at most one autosaved form per client id. Drafts stay local to this
// process and are never written to the remote store.
type Drafts struct {
	cache *expirable.LRU[string, models.Draft]
}

func NewDrafts(size int, ttl time.Duration) *Drafts {
	return &Drafts{cache: expirable.NewLRU[string, models.Draft](size, nil, ttl)}
}

// Save overwrites the client's draft.
func (d *Drafts) Save(clientID string, draft models.Draft) {
	d.cache.Add(clientID, draft)
}

func (d *Drafts) Load(clientID string) (models.Draft, bool) {
	return d.cache.Get(clientID)
}

func (d *Drafts) Clear(clientID string) {
	d.cache.Remove(clientID)
}

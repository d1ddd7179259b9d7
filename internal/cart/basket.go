package cart

import (
	"sync"

	"github.com/Skotchmaster/food_storefront/internal/models"
)

// Basket collects products added from the listing so the cart page can seed
// from them. It lives for the whole process.
type Basket struct {
	mu      sync.Mutex
	entries []models.CartEntry
}

func (b *Basket) Add(p models.Product) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = Add(b.entries, p)
}

func (b *Basket) Snapshot() []models.CartEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.CartEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

func (b *Basket) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

package domain

// SyncState tracks whether a cart line has been written through to its
// backing store. Mutations are optimistic: the in-memory line changes first,
// then persistence runs and flips the state.
type SyncState string

const (
	SyncClean   SyncState = "synced"
	SyncPending SyncState = "pending"
	SyncFailed  SyncState = "failed"
)

// CartLine is one product/quantity pair. Sync is local bookkeeping and never
// goes over the wire.
type CartLine struct {
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	Sync      SyncState `json:"-"`
}

// Cart is an ordered list of lines, at most one per product ID.
type Cart struct {
	Lines []CartLine
}

// Add merges qty into an existing line or appends a new one. A qty <= 0 is
// treated as an add of 1, matching the storefront's default.
func (c *Cart) Add(productID string, qty int) {
	if qty <= 0 {
		qty = 1
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity += qty
			c.Lines[i].Sync = SyncPending
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{ProductID: productID, Quantity: qty, Sync: SyncPending})
}

// SetQuantity replaces a line's quantity. Zero or negative removes the line.
// Returns false when the product is not in the cart (and qty > 0).
func (c *Cart) SetQuantity(productID string, qty int) bool {
	if qty <= 0 {
		return c.Remove(productID)
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = qty
			c.Lines[i].Sync = SyncPending
			return true
		}
	}
	return false
}

// Remove filters out the line for productID. Returns false if absent.
func (c *Cart) Remove(productID string) bool {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Count is the sum of all line quantities.
func (c *Cart) Count() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// MarkAll sets every line to the given sync state.
func (c *Cart) MarkAll(s SyncState) {
	for i := range c.Lines {
		c.Lines[i].Sync = s
	}
}

// Dirty reports whether any line still needs persisting.
func (c *Cart) Dirty() bool {
	for _, l := range c.Lines {
		if l.Sync == SyncPending || l.Sync == SyncFailed {
			return true
		}
	}
	return false
}

package cart

import "github.com/Zombie-01/tire/internal/domain"

// Pure transitions over CartState. Every transition returns a fresh state
// with Total recomputed from the resulting items; callers never mutate a
// state in place.

func addItem(s domain.CartState, item domain.LineItem) domain.CartState {
	items := cloneItems(s.Items)

	for i := range items {
		if items[i].ProductID == item.ProductID {
			// Existing line: bump quantity, keep the add-time snapshot.
			items[i].Quantity++
			return withTotal(items)
		}
	}

	item.Quantity = 1
	items = append(items, item)
	return withTotal(items)
}

func removeItem(s domain.CartState, productID string) domain.CartState {
	items := make([]domain.LineItem, 0, len(s.Items))
	for _, item := range s.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	return withTotal(items)
}

func updateQuantity(s domain.CartState, productID string, quantity int) domain.CartState {
	if quantity < 0 {
		quantity = 0
	}
	if quantity == 0 {
		return removeItem(s, productID)
	}

	items := cloneItems(s.Items)
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			break
		}
	}
	return withTotal(items)
}

func emptyState() domain.CartState {
	return domain.CartState{Items: []domain.LineItem{}, Total: 0}
}

func withTotal(items []domain.LineItem) domain.CartState {
	s := domain.CartState{Items: items}
	s.Total = s.Subtotal()
	return s
}

func cloneItems(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	return out
}

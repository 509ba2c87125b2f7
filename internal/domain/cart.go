package domain

// LineItem is one product entry in a cart. Display attributes and price are
// an immutable snapshot taken at add time and are never refreshed from the
// live catalog afterwards.
type LineItem struct {
	ProductID string `json:"id" bson:"product_id"`
	Name      string `json:"name" bson:"name"`
	Image     string `json:"image" bson:"image"`
	Size      string `json:"size" bson:"size"`
	Price     int64  `json:"price" bson:"price"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// CartState holds the ordered line items and the derived total.
// Total must always equal the sum of Price*Quantity over Items.
type CartState struct {
	Items []LineItem `json:"items"`
	Total int64      `json:"total"`
}

func (s CartState) IsEmpty() bool {
	return len(s.Items) == 0
}

// Subtotal returns the recomputed sum over items, independent of Total.
func (s CartState) Subtotal() int64 {
	var sum int64
	for _, item := range s.Items {
		sum += item.Price * int64(item.Quantity)
	}
	return sum
}

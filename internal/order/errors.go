package order

// FailureKind identifies the root cause of a workflow failure. Every failure
// the caller can see carries one, so no outcome surfaces as an opaque error.
type FailureKind string

const (
	KindAddressMismatch    FailureKind = "address_mismatch"
	KindNoAddressOnFile    FailureKind = "no_address_on_file"
	KindCartNotFound       FailureKind = "cart_not_found"
	KindEmptyCart          FailureKind = "empty_cart"
	KindProductNotFound    FailureKind = "product_not_found"
	KindOutOfStock         FailureKind = "out_of_stock"
	KindPersistenceFailure FailureKind = "persistence_failure"
	KindInvalidTransition  FailureKind = "invalid_transition"
	KindOrderNotFound      FailureKind = "order_not_found"
)

// Failure is the typed, terminal outcome of a workflow invocation.
type Failure struct {
	Kind      FailureKind `json:"kind"`
	Reason    string      `json:"error"`
	ProductID string      `json:"product_id,omitempty"`
	Available int         `json:"available,omitempty"`
}

func (f *Failure) Error() string { return f.Reason }

package enums

// CartOperation labels cart mutations for metrics and logs.
type CartOperation string

const (
	CartOperationAdd            CartOperation = "add"
	CartOperationRemove         CartOperation = "remove"
	CartOperationUpdateQuantity CartOperation = "update_quantity"
	CartOperationUpdateSize     CartOperation = "update_size"
	CartOperationUpdateColor    CartOperation = "update_color"
	CartOperationRefresh        CartOperation = "refresh"
	CartOperationClear          CartOperation = "clear"
	CartOperationCheckout       CartOperation = "checkout"
)

// String implements fmt.Stringer.
func (o CartOperation) String() string {
	return string(o)
}

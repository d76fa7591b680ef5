package payment

import "errors"

var (
	// -- Workflow state --
	ErrAlreadyOpen = errors.New("payment already open")
	ErrNotOpen     = errors.New("payment not open")
	ErrCartEmpty   = errors.New("cart is empty")

	// -- Validation --
	ErrPaymentMethodRequired = errors.New("payment method required")
	ErrNameRequired          = errors.New("name required")
	ErrPhoneRequired         = errors.New("phone required")
	ErrAddressRequired       = errors.New("address required")
	ErrSenderBankRequired    = errors.New("sender bank required")
	ErrSenderAccountRequired = errors.New("sender account required")

	// -- Handoff --
	ErrHandoffFailed = errors.New("order handoff failed")
)

// ValidationError names the field that failed and the message shown to the
// customer. It unwraps to one of the Err*Required sentinels.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

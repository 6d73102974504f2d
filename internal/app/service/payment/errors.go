package payment

import "errors"

var (
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrMethodRequired    = errors.New("payment method is required")
	ErrInvalidCardNumber = errors.New("card number must be 16 digits")
	ErrInvalidCardHolder = errors.New("card holder name is required")
	ErrInvalidExpiry     = errors.New("expiry must be in MM/YY format")
	ErrInvalidCvv        = errors.New("cvv must be 3 or 4 digits")
	ErrInvalidUpiID      = errors.New("enter a valid UPI ID")

	ErrSessionIDRequired = errors.New("session id is required")
	ErrSessionNotFound   = errors.New("payment session not found or expired")
	ErrOtpRequired       = errors.New("otp is required")
	ErrInvalidOtp        = errors.New("invalid otp code")
)

// IsClientError reports whether err is caused by caller input rather than a
// missing session or an internal failure.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrInvalidAmount, ErrMethodRequired, ErrInvalidCardNumber, ErrInvalidCardHolder,
		ErrInvalidExpiry, ErrInvalidCvv, ErrInvalidUpiID, ErrSessionIDRequired, ErrOtpRequired, ErrInvalidOtp,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

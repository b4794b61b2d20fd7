package service

import "errors"

var (
	ErrCartNotFound       = errors.New("cart not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrArticleNotFound    = errors.New("article not found")
	ErrShippingNotFound   = errors.New("shipping option not found")
	ErrAddressNotFound    = errors.New("billing address not found")
	ErrInvalidCart        = errors.New("cart key does not reference a valid root cart")
	ErrBillingAddressType = errors.New("address is not of type billing")
	ErrShippingAddrType   = errors.New("address is not of type shipping")
	ErrQuantityInvalid    = errors.New("quantity must be > 0")
	ErrNoSession          = errors.New("no session in context")
	ErrNoActor            = errors.New("no authenticated actor in context")
	ErrProviderUnknown    = errors.New("unknown payment provider")
	ErrConflict           = errors.New("concurrent modification, retry")
)

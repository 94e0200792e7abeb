package game

import "errors"

// ErrNotPurchasable is wrapped by every reason BuyUpgrade rejects a purchase.
var ErrNotPurchasable = errors.New("upgrade not purchasable")

var (
	ErrUnknownUpgrade     = &purchaseError{"unknown upgrade"}
	ErrUpgradeLocked      = &purchaseError{"upgrade locked"}
	ErrInsufficientPoints = &purchaseError{"insufficient points"}

	ErrUnknownAchievement = errors.New("unknown achievement")
	ErrInvalidCatalog     = errors.New("invalid catalog")
)

// purchaseError is a rejection reason that also matches ErrNotPurchasable.
type purchaseError struct {
	reason string
}

func (e *purchaseError) Error() string { return e.reason }

func (e *purchaseError) Is(target error) bool { return target == ErrNotPurchasable }

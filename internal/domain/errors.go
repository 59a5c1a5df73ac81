package domain

import "errors"

// ErrorKind classifies a domain failure so adapters can map it without string matching
type ErrorKind string

const (
	ErrorKindValidation    ErrorKind = "VALIDATION"
	ErrorKindState         ErrorKind = "STATE"
	ErrorKindAuthorization ErrorKind = "AUTHORIZATION"
	ErrorKindArithmetic    ErrorKind = "ARITHMETIC"
)

// Error is a typed domain failure. Sentinels below are compared by identity,
// so wrap them with fmt.Errorf("...: %w", err) to add context.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Validation errors
var (
	ErrInvalidPrice       = newError(ErrorKindValidation, "InvalidPrice", "price must be a positive integer amount")
	ErrInvalidRoyaltyRate = newError(ErrorKindValidation, "InvalidRoyaltyRate", "royalty rate must be between 0 and 10000 basis points")
	ErrInvalidFeeRate     = newError(ErrorKindValidation, "InvalidFeeRate", "fee rate must be between 0 and 10000 basis points")
	ErrIncorrectPayment   = newError(ErrorKindValidation, "IncorrectPayment", "payment must equal the listing price exactly")
	ErrInvalidAmount      = newError(ErrorKindValidation, "InvalidAmount", "amount must be a non-negative integer")
	ErrInvalidAddress     = newError(ErrorKindValidation, "InvalidAddress", "address must not be the zero address")
	ErrInsufficientFunds  = newError(ErrorKindValidation, "InsufficientFunds", "insufficient funds")
)

// State errors
var (
	ErrNoSuchAsset             = newError(ErrorKindState, "NoSuchAsset", "asset not found")
	ErrNoSuchListing           = newError(ErrorKindState, "NoSuchListing", "listing not found")
	ErrListingAlreadySold      = newError(ErrorKindState, "ListingAlreadySold", "listing already sold")
	ErrAssetNoLongerAvailable  = newError(ErrorKindState, "AssetNoLongerAvailable", "asset no longer available from seller")
	ErrAlreadyInitialized      = newError(ErrorKindState, "AlreadyInitialized", "marketplace already initialized")
	ErrNotInitialized          = newError(ErrorKindState, "NotInitialized", "marketplace not initialized")
	ErrUnknownCollection       = newError(ErrorKindState, "UnknownCollection", "collection not found")
	ErrMarketNotFound          = newError(ErrorKindState, "MarketNotFound", "market not found")
	ErrCollectionAlreadyExists = newError(ErrorKindState, "CollectionAlreadyExists", "collection already exists")
)

// Authorization errors
var (
	ErrRegistryPaused = newError(ErrorKindAuthorization, "RegistryPaused", "registry is paused")
	ErrNotOwner       = newError(ErrorKindAuthorization, "NotOwner", "caller is not the asset owner")
	ErrNotAssetOwner  = newError(ErrorKindAuthorization, "NotAssetOwner", "seller does not own the asset")
	ErrNotApproved    = newError(ErrorKindAuthorization, "NotApproved", "operator is not approved for the asset")
	ErrUnauthorized   = newError(ErrorKindAuthorization, "Unauthorized", "caller is not authorized")
)

// Arithmetic errors
var (
	ErrSplitUnderflow = newError(ErrorKindArithmetic, "SplitUnderflow", "royalty plus platform fee exceeds the sale price")
)

// KindOf returns the kind of the first domain error in err's chain, or "" if there is none
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// CodeOf returns the code of the first domain error in err's chain, or "" if there is none
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

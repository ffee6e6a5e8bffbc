package apperrors

import "errors"

var (
	ErrNotFound                = errors.New("not found")
	ErrUnsupportedLanguage     = errors.New("no normalizer registered for language")
	ErrUnknownStrategy         = errors.New("unknown matching strategy")
	ErrUnknownAdapter          = errors.New("unknown inventory adapter type")
	ErrUnknownBackend          = errors.New("unknown backend")
	ErrInventoryUnavailable    = errors.New("inventory source unavailable")
	ErrInvalidResolutionAction = errors.New("invalid resolution action")
	ErrAlreadyResolved         = errors.New("pending query already resolved")
	ErrAliasWriteBack          = errors.New("alias write-back failed")
)

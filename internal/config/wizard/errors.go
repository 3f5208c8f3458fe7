package wizard

import "errors"

// ErrOverwriteDeclined is returned when the user keeps an existing file.
var ErrOverwriteDeclined = errors.New("existing file kept")

// Validation errors for the interactive wizard.
var (
	errHostRequired     = errors.New("host is required")
	errHostnameRequired = errors.New("server hostname is required")
	errHostnameInvalid  = errors.New("server hostname must be a fully qualified domain name such as app.example.com")
	errUserRequired     = errors.New("user name is required")
	errUserInvalid      = errors.New("user name must start with a lowercase letter and contain only lowercase letters, digits, - or _")
	errPasswordShort    = errors.New("password must be at least 8 characters")
	errPortInvalid      = errors.New("port must be a number between 1 and 65535")
	errEmailInvalid     = errors.New("email address is invalid")
)

package imports

import "errors"

var (
	ErrEmptyFile        = errors.New("file contains no data rows")
	ErrMissingHeaders   = errors.New("file has no usable header row")
	ErrNoKeyColumn      = errors.New("no email column found to match employees by")
	ErrSessionNotFound  = errors.New("import session not found")
	ErrFileTooLarge     = errors.New("file exceeds the upload size limit")
	ErrUnsupportedModel = errors.New("unsupported import target")
)

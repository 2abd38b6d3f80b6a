package markup

import "errors"

// Sentinel errors for parse and assembly failures.
var (
	ErrParse        = errors.New("markup: parse error")
	ErrUnknownChunk = errors.New("markup: unrecognized chunk")
	ErrHeaderLine   = errors.New("markup: invalid header line")
	ErrHeadingLine  = errors.New("markup: invalid heading line")
	ErrNoSection    = errors.New("markup: body block before first heading")
	ErrInclusion    = errors.New("markup: inclusion failed")
)

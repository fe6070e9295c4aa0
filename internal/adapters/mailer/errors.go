package mailer

import "errors"

// Sentinel kinds for mail errors.
var (
	ErrSend        = errors.New("send letter failed")
	ErrNoTransport = errors.New("no mail transport configured")
)

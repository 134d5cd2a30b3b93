package domain

import "errors"

var (
	ErrSendingReplyFailed = errors.New("failed to send reply")
	ErrMissingImage       = errors.New("attach a photo or reply to one")

	ErrImageDecode = errors.New("could not decode image")
	ErrImageResize = errors.New("could not resize image")
	ErrImageEncode = errors.New("could not encode image")
)

package util

import "errors"

var (
	ErrUnreadableFile      = errors.New("file unreadable")
	ErrInsufficientPool    = errors.New("question pool too small for requested draw")
	ErrPoolNotFound        = errors.New("question pool not found")
	ErrSessionNotFound     = errors.New("quiz session not found")
	ErrNoAttempt           = errors.New("session has no graded attempt yet")
	ErrAnswerCountMismatch = errors.New("answer count does not match session size")
	ErrUnsupportedFormat   = errors.New("unsupported question file format")
	ErrHistoryCorrupt      = errors.New("history log unreadable")
)

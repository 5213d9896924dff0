package handlers

import "errors"

var (
	errBatchTooLarge = errors.New("at most 100 requests per batch")
	errNoRequestIDs  = errors.New("request_ids is required")
)

package constants

import "errors"

// Configuration errors.
var (
	ErrNoSubscription       = errors.New("no subscription configured, set subscription_id or AZRM_SUBSCRIPTION_ID")
	ErrInvalidOutputFormat  = errors.New("invalid output format, expected table, json or yaml")
	ErrIncompleteCredential = errors.New("client credentials need tenant_id, client_id and client_secret")
)

// Query errors.
var (
	ErrUnknownResource = errors.New("unknown resource type")
	ErrNameRequired    = errors.New("argument is required")
)

package database

import "errors"

// ErrNotReady indicates the database cannot be reached.
var ErrNotReady = errors.New("database not ready")

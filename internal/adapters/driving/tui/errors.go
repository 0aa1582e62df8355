package tui

import "errors"

// ErrMissingQuerySession is returned when no query session is provided.
var ErrMissingQuerySession = errors.New("tui: query session is required")

// ErrSessionNotReady is returned when the session cannot serve queries.
var ErrSessionNotReady = errors.New("tui: query session is not ready")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")

package model

// AppStatus is the process-wide service availability flag, read from
// the status sheet at startup and on manual retry.
type AppStatus string

const (
	StatusOpen   AppStatus = "ABIERTO"
	StatusClosed AppStatus = "CERRADO"
)

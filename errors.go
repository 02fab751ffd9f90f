package airports

import (
	"fmt"

	"github.com/paulmach/osm"
)

// InputError is returned when input file is missing, unreadable or can't be decoded
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("Can't read input '%s': %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// ArgumentError is returned when required arguments are absent or malformed
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string {
	return "Bad argument: " + e.Msg
}

// UnresolvedNodeError is returned when way references node which has not been met
type UnresolvedNodeError struct {
	WayID  osm.WayID
	NodeID osm.NodeID
}

func (e *UnresolvedNodeError) Error() string {
	return fmt.Sprintf("No such node '%d'. Way ID: '%d'", e.NodeID, e.WayID)
}

// IOError is returned when output can't be written
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("Can't write output '%s': %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

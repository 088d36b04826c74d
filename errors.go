package h5sample

import "errors"

var (
	// ErrFixtureGeneration wraps every failure returned by Build.
	ErrFixtureGeneration = errors.New("fixture generation failed")

	// ErrUnsupportedType is returned for a datatype, value or shape the
	// encoder cannot represent.
	ErrUnsupportedType = errors.New("unsupported type")
)

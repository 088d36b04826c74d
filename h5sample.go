// Package h5sample writes the sample HDF5 fixture used by reader test
// suites: two groups, "scalar" and "simple", holding scalar values,
// small numeric arrays and enumerated datasets.
//
// The output is deterministic. Building twice to the same path yields
// byte-identical files, which Digest can confirm.
//
// Example:
//
//	if err := h5sample.Build(h5sample.DefaultPath); err != nil {
//	    log.Fatal(err)
//	}
package h5sample

// DefaultPath is where cmd/make_sample writes the fixture.
const DefaultPath = "sample.h5"

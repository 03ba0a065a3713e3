// Package address defines the country address schema model and the field
// descriptors derived from it. Each supported country ships a JSON schema
// (an ordered array of entries with a closed set of field types) that the
// transformer turns into UI-agnostic descriptors: a stable identifier used as
// the form key, a label resource key, keyboard capitalization and input type,
// and whether the field should be marked optional. Loaders and parsers live
// under internal/address and satisfy the contracts declared here.
package address

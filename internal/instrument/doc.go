// Package instrument models bowed string instruments.
//
// An Instrument is a named, ordered set of Strings. Each String has an open
// tuning, the open frequency that tuning has against the instrument's A4
// reference, and a physical scale length in millimetres.
//
// Four presets are built in (violin, viola, cello, double bass). Further
// instruments can be defined in CUE and loaded with LoadCUE. A Catalog
// gathers presets and custom instruments for lookup by exact name.
//
// Everything in this package is immutable once constructed.
package instrument

// Package utils provides loose value conversion for decoding hand-written
// documents such as seed files, where a count may be written as a number or a
// string.
package utils

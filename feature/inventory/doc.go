// Package inventory mirrors the items of one grocery store, sectioned by item
// type and ordered by name, into a reconcile.Results.
//
// FetchedResults is the change source. After every write it reloads the store,
// diffs the result against the previously delivered layout and sends the
// difference to the mirror as one batch. Service serializes writes and batch
// delivery, Journal records what observers of the mirror saw, and Handler
// exposes both over HTTP.
package inventory

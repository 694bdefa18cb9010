// Package services contains the application services behind each screen of
// the school client.
//
// Every screen service keeps its own loaded list and filter state. Reads go
// through a Fetcher: network first, and when the API is unreachable the last
// cached payload is served and the list is marked stale. Writes go through a
// mutation.Guard so a record has at most one change in flight; after a write
// the service re-fetches once and replaces its list.
//
// A session.Session is passed explicitly to every call.
package services

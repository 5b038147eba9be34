// Package docviews reads the customer, shop and partner registration documents
// the placement and duty flows depend on. Every reader works on top of a
// ports.DocumentStore, so the same code serves Firestore and the in-memory
// store.
package docviews

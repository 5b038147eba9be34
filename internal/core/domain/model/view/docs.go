// Package view describes the denormalized documents an order is copied into:
// where each copy lives (Ref, CollectionRef) and the loosely typed payload
// stored there (Document).
//
// Paths alternate collection and document segments, for example
// Users/{uid}/placedOrderData/{oid}/orderData/info.
package view

// Package ports declares the contracts between the dispatch core and its
// infrastructure: the document store holding the denormalized order views, the
// partner duty directory, relational repositories, push delivery and the small
// collaborators (clock, cipher, locks) the commands depend on.
package ports

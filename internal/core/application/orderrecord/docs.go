// Package orderrecord keeps the denormalized views of an order consistent.
//
// An order is written to several documents: the customer's placed order, the
// partner's pending and current order, the customer's active order and the
// realtime status the customer app listens to. Writer groups those writes into
// a saga with compensation, promotes an accepted order into the current views
// and purges every view once the order is delivered.
package orderrecord

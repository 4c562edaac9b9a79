// Package deadletter keeps a durable side log of commit batches the
// extraction pipeline had to drop. The log lives in its own BadgerDB store,
// away from the results database, so recording a loss never competes with
// the failing commit that caused it.
package deadletter

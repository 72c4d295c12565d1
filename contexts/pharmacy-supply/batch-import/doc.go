// Package batchimport implements CSV batch import for the drug ledger.
//
// The validator is a pure pre-filter: it partitions raw rows into well-formed
// and malformed with per-row reasons and never touches the ledger. The import
// service then submits well-formed rows one at a time through the
// LedgerGateway port; the registry's own role gate and input rules still
// apply to every row.
package batchimport

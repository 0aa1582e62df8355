// Package services holds the ingestion core: record normalisation,
// identifier assignment, index sessions per lifecycle mode and the
// orchestrator that ties them to loaders, crawlers and the run ledger.
package services

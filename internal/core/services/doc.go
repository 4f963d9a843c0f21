// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The package carries the whole ingestion and retrieval pipeline:
// IngestService turns files into embedded chunks, SearchService ranks
// chunks against a query and assembles token-budgeted context blocks,
// DocumentService manages the stored inventory, and SettingsService
// bridges domain settings to the config store.
package services

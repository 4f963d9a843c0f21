// Package file implements driven ports backed by the local filesystem.
// Its single adapter, ConfigStore, persists configuration as TOML under
// the user's retriva directory.
package file

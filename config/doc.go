// Package config reads and writes the susops YAML config document.
//
// The document at ~/.susops/config.yaml is owned by the susops CLI, which
// manipulates it with yq. The tray follows the same contract: every read
// and write goes through yq so the two never disagree about formatting or
// semantics. When yq is not installed, reads of simple scalar settings
// fall back to parsing the YAML directly; writes require yq.
package config

// Package schema validates agentsync's on-disk documents (registry, projects,
// and lock files) against JSON schemas embedded in the binary. YAML documents
// are converted to their JSON form before validation so both encodings share
// one schema per document kind.
package schema

// Package fingerprint computes the short content fingerprints used to detect
// change everywhere in agentsync. A fingerprint is the first 16 hex characters
// of the BLAKE3-256 digest of the raw file bytes. Bytes are hashed exactly as
// stored: no line-ending or encoding normalization is applied, so identical
// bytes always produce identical fingerprints on every platform.
package fingerprint

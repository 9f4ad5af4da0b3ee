// Package report turns a finished run into its serializable form:
// configuration, aggregate status, per-worker results and phase
// ladders.
//
// Serialization is canonical (RFC 8785 subset): sorted keys by UTF-16
// code units, NFC-normalized strings, integers only, no nulls, no HTML
// escaping. The same logical report always yields byte-identical
// output, which is what golden comparison and content digests rely on.
//
// The content digest deliberately excludes the run ID, so two runs of
// the same scenario with the same per-worker outcomes carry equal
// digests while keeping distinct identities in stored history.
package report

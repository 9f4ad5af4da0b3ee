package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// digestDomain separates report digests from any other sha256 use in
// this codebase. Bump the version if the canonical body shape changes.
const digestDomain = "mtt/report/v1"

// hashWithDomain computes sha256 over domain || 0x00 || data. The zero
// byte separator prevents ambiguity between domain and payload.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ReportDigest computes the content digest of a report: sha256 over the
// canonical body, which excludes the run ID and the digest itself.
// Equal outcomes therefore produce equal digests across runs.
func ReportDigest(r RunReport) (string, error) {
	body, err := MarshalCanonical(r.canonicalBody())
	if err != nil {
		return "", fmt.Errorf("canonicalize report body: %w", err)
	}
	return hashWithDomain(digestDomain, body), nil
}

// MustReportDigest is ReportDigest for construction paths where the
// body is known to be canonicalizable. Panics on error.
func MustReportDigest(r RunReport) string {
	digest, err := ReportDigest(r)
	if err != nil {
		panic(fmt.Sprintf("report digest: %v", err))
	}
	return digest
}

package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashWithDomain_Properties(t *testing.T) {
	h1 := hashWithDomain("mtt/report/v1", []byte("payload"))

	assert.Len(t, h1, 64, "sha256 hex digest length")
	assert.Equal(t, h1, hashWithDomain("mtt/report/v1", []byte("payload")), "must be deterministic")
	assert.NotEqual(t, h1, hashWithDomain("mtt/report/v2", []byte("payload")), "domain must matter")
	assert.NotEqual(t, h1, hashWithDomain("mtt/report/v1", []byte("other")), "payload must matter")
}

func TestHashWithDomain_SeparatorPreventsAmbiguity(t *testing.T) {
	// Without the zero byte, "ab"+"c" and "a"+"bc" would collide.
	assert.NotEqual(t,
		hashWithDomain("ab", []byte("c")),
		hashWithDomain("a", []byte("bc")))
}

func TestReportDigest_IgnoresRunIdentity(t *testing.T) {
	base := RunReport{
		Scenario: "noop",
		Addr:     "192.0.2.7:7204",
		Workers:  2,
		Status:   0,
		Results: []WorkerReport{
			{Worker: 0, Phases: []string{"created"}},
			{Worker: 1, Phases: []string{"created"}},
		},
	}

	a := base
	a.RunID = "run-a"
	b := base
	b.RunID = "run-b"
	b.Digest = "someone already stamped this"

	da, err := ReportDigest(a)
	require.NoError(t, err)
	db, err := ReportDigest(b)
	require.NoError(t, err)

	assert.Equal(t, da, db, "digest must depend on the body only")
}

func TestReportDigest_SensitiveToOutcome(t *testing.T) {
	base := RunReport{
		Scenario: "noop",
		Addr:     "addr",
		Workers:  1,
		Status:   0,
		Results:  []WorkerReport{{Worker: 0, Phases: []string{"created"}}},
	}

	failed := base
	failed.Status = 5
	failed.Results = []WorkerReport{{Worker: 0, Status: 5, Errmsg: "down", Phases: []string{"created"}}}

	da := MustReportDigest(base)
	db := MustReportDigest(failed)

	assert.NotEqual(t, da, db)
}

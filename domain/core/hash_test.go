package core

import "testing"

func TestComputeFingerprint_OrderIndependent(t *testing.T) {
	a := ComputeFingerprint(map[string]interface{}{"target": "partY", "seed": int64(8), "rows": 40})
	b := ComputeFingerprint(map[string]interface{}{"rows": 40, "seed": int64(8), "target": "partY"})
	if a != b {
		t.Fatalf("fingerprints differ: %s vs %s", a, b)
	}

	c := ComputeFingerprint(map[string]interface{}{"rows": 40, "seed": int64(9), "target": "partY"})
	if a == c {
		t.Error("different seed should change fingerprint")
	}
}

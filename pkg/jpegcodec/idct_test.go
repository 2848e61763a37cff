package jpegcodec

import "testing"

// TestBaselineDCOnlyScenario is the literal §8 scenario: single component,
// DC coefficient 64, quant[0]=1, all AC zero decodes to uniform 192.
func TestBaselineDCOnlyScenario(t *testing.T) {
	var coeffs [64]int32
	coeffs[0] = 64
	var q quantTable
	q[0] = 1
	for i := 1; i < 64; i++ {
		q[i] = 64
	}

	var out [64]uint8
	idctBlock(&coeffs, &q, &out)

	for i, v := range out {
		if v != 192 {
			t.Fatalf("sample %d = %d, want 192", i, v)
		}
	}
}

// TestDCFastPathAgreesWithSlowPath checks the invariant that the DC-only
// shortcut and the general two-pass IDCT produce the same result.
func TestDCFastPathAgreesWithSlowPath(t *testing.T) {
	for _, dc := range []int32{-100, -1, 0, 1, 17, 127} {
		for _, q0 := range []uint16{1, 2, 16, 255} {
			var coeffs [64]int32
			coeffs[0] = dc
			var qt quantTable
			qt[0] = q0

			var fast, slow [64]uint8
			dcFastPath(dc, q0, &fast)
			idctSlow(&coeffs, &qt, &slow)

			for i := range fast {
				df := int(fast[i]) - int(slow[i])
				if df < -1 || df > 1 {
					t.Fatalf("dc=%d q0=%d sample %d: fast=%d slow=%d (diff %d)", dc, q0, i, fast[i], slow[i], df)
				}
			}
		}
	}
}

// TestIDCTClampsToByteRange checks extreme coefficients never overflow uint8.
func TestIDCTClampsToByteRange(t *testing.T) {
	var coeffs [64]int32
	for i := range coeffs {
		coeffs[i] = 1000
	}
	var q quantTable
	for i := range q {
		q[i] = 255
	}
	var out [64]uint8
	idctBlock(&coeffs, &q, &out)
	for _, v := range out {
		if v > 255 {
			t.Fatalf("sample overflowed: %d", v)
		}
	}
}

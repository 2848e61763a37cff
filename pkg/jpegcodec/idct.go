package jpegcodec

// Integer IDCT, ported from the IJG "islow" (slow-but-accurate) algorithm:
// fixed-point arithmetic with CONST_BITS fractional bits for the cosine
// constants and an extra PASS1_BITS of headroom carried between the row and
// column passes so intermediate values never overflow a 32-bit int.
const (
	constBits = 13
	pass1Bits = 2

	fix0298631336 = 2446
	fix0390180644 = 3196
	fix0541196100 = 4433
	fix0765366865 = 6270
	fix0899976223 = 7373
	fix1175875602 = 9633
	fix1501321110 = 12299
	fix1847759065 = 15137
	fix1961570560 = 16069
	fix2053119869 = 16819
	fix2562915447 = 20995
	fix3072711026 = 25172
)

func descale(x int32, n uint) int32 {
	return (x + (1 << (n - 1))) >> n
}

// idctBlock performs a fused dequantization + 2-D IDCT on coeffs (64 values
// in natural row-major order, as the entropy decoder stores them) against
// quant, writing 64 level-shifted (0..255 after +128) samples in natural
// row-major order.
func idctBlock(coeffs *[64]int32, quant *quantTable, out *[64]uint8) {
	if dcOnly(coeffs) {
		dcFastPath(coeffs[0], quant[0], out)
		return
	}
	idctSlow(coeffs, quant, out)
}

// idctSlow runs the full two-pass fixed-point IDCT regardless of whether the
// block happens to be DC-only; exported within the package so tests can
// check it agrees with the dc-only shortcut.
func idctSlow(coeffs *[64]int32, quant *quantTable, out *[64]uint8) {
	var ws [64]int32
	var natural [64]int32
	for i := range natural {
		natural[i] = coeffs[i] * int32(quant[i])
	}

	// Pass 1: process columns, store results with PASS1_BITS of scaling.
	for col := 0; col < 8; col++ {
		idct1D(natural[col:], 8, ws[col:], 8, pass1Bits+2, true)
	}
	// Pass 2: process rows, descale to final 8-bit range.
	for row := 0; row < 8; row++ {
		idct1D(ws[row*8:row*8+8], 1, natural[row*8:row*8+8], 1, 0, false)
	}

	for i, v := range natural {
		s := v + 128
		if s < 0 {
			s = 0
		}
		if s > 255 {
			s = 255
		}
		out[i] = uint8(s)
	}
}

func dcOnly(coeffs *[64]int32) bool {
	for i := 1; i < 64; i++ {
		if coeffs[i] != 0 {
			return false
		}
	}
	return true
}

// dcFastPath implements the invariant that an all-AC-zero block decodes to
// a uniform value of clamp(128 + dequantized DC).
func dcFastPath(dc int32, q uint16, out *[64]uint8) {
	v := dc*int32(q) + 128
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	b := uint8(v)
	for i := range out {
		out[i] = b
	}
}

// idct1D runs one 1-D AAN/IJG butterfly pass over 8 samples with the given
// input/output strides. firstPass selects between the pass-1 descale by
// constBits-pass1Bits (keeping pass1Bits of headroom) and the pass-2 final
// descale by constBits+pass1Bits; extraShift is not used.
func idct1D(in []int32, inStride int, out []int32, outStride int, extraShift uint, firstPass bool) {
	x := func(i int) int32 { return in[i*inStride] }

	// Even part.
	z2 := x(2)
	z3 := x(6)
	z1 := (z2 + z3) * fix0541196100
	tmp2 := z1 + z3*(-fix1847759065)
	tmp3 := z1 + z2*fix0765366865

	tmp0 := (x(0) + x(4)) << constBits
	tmp1 := (x(0) - x(4)) << constBits

	tmp10 := tmp0 + tmp3
	tmp13 := tmp0 - tmp3
	tmp11 := tmp1 + tmp2
	tmp12 := tmp1 - tmp2

	// Odd part.
	t0 := x(7)
	t1 := x(5)
	t2 := x(3)
	t3 := x(1)

	z1o := t0 + t3
	z2o := t1 + t2
	z3o := t0 + t2
	z4o := t1 + t3
	z5 := (z3o + z4o) * fix1175875602

	tt0 := t0 * fix0298631336
	tt1 := t1 * fix2053119869
	tt2 := t2 * fix3072711026
	tt3 := t3 * fix1501321110
	z1o *= -fix0899976223
	z2o *= -fix2562915447
	z3o = z3o*(-fix1961570560) + z5
	z4o = z4o*(-fix0390180644) + z5

	tt0 += z1o + z3o
	tt1 += z2o + z4o
	tt2 += z2o + z3o
	tt3 += z1o + z4o

	// The final pass omits the conventional extra 3-bit (/8) scale-down: this
	// decoder's dequantization step is defined to produce the final sample
	// delta directly, so a DC-only block decodes to exactly dc*quant[0]+128
	// (see the dc-only fast path above, which this pass must agree with).
	var shift uint
	if firstPass {
		shift = constBits - pass1Bits
	} else {
		shift = constBits + pass1Bits
	}
	_ = extraShift

	out[0*outStride] = descale(tmp10+tt3, shift)
	out[7*outStride] = descale(tmp10-tt3, shift)
	out[1*outStride] = descale(tmp11+tt2, shift)
	out[6*outStride] = descale(tmp11-tt2, shift)
	out[2*outStride] = descale(tmp12+tt1, shift)
	out[5*outStride] = descale(tmp12-tt1, shift)
	out[3*outStride] = descale(tmp13+tt0, shift)
	out[4*outStride] = descale(tmp13-tt0, shift)
}

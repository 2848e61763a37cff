package colorspace

// labXYZToSRGB converts a D50 PCS XYZ tristimulus value to sRGB, duplicating
// the small constant matrices in pkg/icc's transform.go rather than
// exporting them: this is the one extra conversion Lab needs that ICCBased
// gets for free from the profile's own matrix/CLUT chain.
var bradfordD50ToD65 = [3][3]float32{
	{0.9555766, -0.0230393, 0.0631636},
	{-0.0282895, 1.0099416, 0.0210077},
	{0.0122982, -0.0204830, 1.3299098},
}

var srgbXYZToLinear = [3][3]float32{
	{3.2406, -1.5372, -0.4986},
	{-0.9689, 1.8758, 0.0415},
	{0.0557, -0.2040, 1.0570},
}

func mulVec(m [3][3]float32, v [3]float32) [3]float32 {
	return [3]float32{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

func labXYZToSRGB(x, y, z float32) [3]float32 {
	d65 := mulVec(bradfordD50ToD65, [3]float32{x, y, z})
	linear := mulVec(srgbXYZToLinear, d65)
	return [3]float32{encodeSRGBChannel(linear[0]), encodeSRGBChannel(linear[1]), encodeSRGBChannel(linear[2])}
}

func encodeSRGBChannel(linear float32) float32 {
	if linear <= 0 {
		return 0
	}
	const threshold = 0.0031308
	if linear <= threshold {
		return clamp01(12.92 * linear)
	}
	return clamp01(1.055*powf(linear, 1/2.4) - 0.055)
}

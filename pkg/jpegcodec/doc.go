// Package jpegcodec decodes baseline and progressive JPEG image data
// embedded in PDF DCTDecode streams: marker parsing, Huffman entropy
// decoding into natural coefficient order, fused dequantization, the IJG "islow" integer
// IDCT, MCU assembly, chroma upsampling, and YCbCr/YCCK/CMYK color
// conversion to the pipeline's row format.
package jpegcodec

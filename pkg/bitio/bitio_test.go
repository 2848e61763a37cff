package bitio

import "testing"

func TestBigEndianReaderBounds(t *testing.T) {
	r := NewBigEndianReader([]byte{0x12, 0x34, 0x56, 0x78})

	if v, ok := r.ReadU16(0); !ok || v != 0x1234 {
		t.Fatalf("ReadU16(0) = %#x, %v", v, ok)
	}
	if v, ok := r.ReadU32(0); !ok || v != 0x12345678 {
		t.Fatalf("ReadU32(0) = %#x, %v", v, ok)
	}
	if _, ok := r.ReadU16(3); ok {
		t.Fatalf("ReadU16(3) should fail, only 1 byte left")
	}
	if _, ok := r.ReadBytes(-1, 2); ok {
		t.Fatalf("negative offset must fail")
	}
}

func TestFixedPointConversions(t *testing.T) {
	// 1.5 as s15Fixed16: 0x00018000
	b := []byte{0x00, 0x01, 0x80, 0x00}
	r := NewBigEndianReader(b)
	if v, ok := r.ReadS15Fixed16(0); !ok || v != 1.5 {
		t.Fatalf("ReadS15Fixed16 = %v, %v, want 1.5", v, ok)
	}

	// 2.5 as u8Fixed8: 0x0280
	b2 := []byte{0x02, 0x80}
	r2 := NewBigEndianReader(b2)
	if v, ok := r2.ReadU8Fixed8(0); !ok || v != 2.5 {
		t.Fatalf("ReadU8Fixed8 = %v, %v, want 2.5", v, ok)
	}
}

func TestCcittBitReaderPeekDrop(t *testing.T) {
	r := NewCcittBitReader([]byte{0xF0, 0x0F})
	if got := r.Peek(4); got != 0xF {
		t.Fatalf("Peek(4) = %#x, want 0xF", got)
	}
	r.Drop(4)
	if got := r.Peek(4); got != 0 {
		t.Fatalf("Peek(4) after drop = %#x, want 0", got)
	}
	r.Align()
	if got := r.Peek(8); got != 0x0F {
		t.Fatalf("Peek(8) after align = %#x, want 0x0F", got)
	}
}

func TestCcittEOLExact(t *testing.T) {
	// Eleven 0 bits followed by a 1 = 0x00,0x10 when left-aligned:
	// bits: 00000000000 1 000 -> byte0=0x00 byte1=0b00010000=0x10
	r := NewCcittBitReader([]byte{0x00, 0x10})
	if !r.TryConsumeEOL() {
		t.Fatalf("expected EOL to be consumed")
	}
	if r.BitPos() != 12 {
		t.Fatalf("BitPos = %d, want 12", r.BitPos())
	}
}

func TestUintBitReaderWriterRoundTrip(t *testing.T) {
	w := NewUintBitWriter()
	w.WriteBits(3, 0x5)
	w.WriteBits(13, 0x1234&0x1FFF)
	w.AlignToByte()

	r := NewUintBitReader(w.Bytes())
	v, ok := r.ReadBits(3)
	if !ok || v != 0x5 {
		t.Fatalf("ReadBits(3) = %d, %v", v, ok)
	}
	v, ok = r.ReadBits(13)
	if !ok || v != 0x1234&0x1FFF {
		t.Fatalf("ReadBits(13) = %d, %v", v, ok)
	}
}

func TestUintBitReaderExhaustion(t *testing.T) {
	r := NewUintBitReader([]byte{0xFF})
	if _, ok := r.ReadBits(9); ok {
		t.Fatalf("expected exhaustion signal reading 9 bits from 1 byte")
	}
}

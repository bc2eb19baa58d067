package format

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestParseHeaderSuccess(t *testing.T) {
	buf := make([]byte, HeaderSize)
	copy(buf, PoolSignature)
	binary.LittleEndian.PutUint32(buf[HeaderVersionOffset:], Version)
	binary.LittleEndian.PutUint32(buf[HeaderFirstOffset:], 0x30)
	binary.LittleEndian.PutUint32(buf[HeaderUpperLimitOffset:], 0x1000)
	binary.LittleEndian.PutUint32(buf[HeaderTotalSizeOffset:], 0x1000)
	binary.LittleEndian.PutUint32(buf[HeaderUsedOffset:], 0x40)
	binary.LittleEndian.PutUint32(buf[HeaderCountOffset:], 2)
	copy(buf[HeaderLabelOffset:], []byte{'c', 0, 'h', 0})

	hdr, err := ParseHeader(buf)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if hdr.First != 0x30 {
		t.Fatalf("first mismatch: %+v", hdr)
	}
	if hdr.UpperLimit != 0x1000 || hdr.TotalSize != 0x1000 {
		t.Fatalf("size mismatch: %+v", hdr)
	}
	if hdr.Used != 0x40 || hdr.Count != 2 {
		t.Fatalf("accounting mismatch: %+v", hdr)
	}
	if hdr.LabelRaw[0] != 'c' || hdr.LabelRaw[2] != 'h' {
		t.Fatalf("label mismatch: %+v", hdr)
	}
}

func TestParseHeaderErrors(t *testing.T) {
	buf := make([]byte, HeaderSize)
	if _, err := ParseHeader(buf[:10]); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncation error, got %v", err)
	}
	copy(buf, []byte{'B', 'A', 'D', '!'})
	if _, err := ParseHeader(buf); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected signature error, got %v", err)
	}
	copy(buf, PoolSignature)
	binary.LittleEndian.PutUint32(buf[HeaderVersionOffset:], 99)
	if _, err := ParseHeader(buf); !errors.Is(err, ErrVersion) {
		t.Fatalf("expected version error, got %v", err)
	}
}

func TestWriteHeaderRoundTrip(t *testing.T) {
	block := make([]byte, 256)
	label, err := EncodeLabel("scratch")
	if err != nil {
		t.Fatalf("EncodeLabel: %v", err)
	}
	if err := WriteHeader(block, label); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	hdr, err := ParseHeader(block)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if hdr.First != InvalidOffset {
		t.Fatalf("fresh header should have an empty chain: %+v", hdr)
	}
	if hdr.UpperLimit != 256 || hdr.TotalSize != 256 {
		t.Fatalf("size fields should echo the block length: %+v", hdr)
	}
	if hdr.Used != 0 || hdr.Count != 0 {
		t.Fatalf("fresh header should carry zero accounting: %+v", hdr)
	}
	if err := hdr.ValidateSanity(len(block)); err != nil {
		t.Fatalf("ValidateSanity: %v", err)
	}
	got, err := DecodeLabel(hdr.LabelRaw[:])
	if err != nil {
		t.Fatalf("DecodeLabel: %v", err)
	}
	if got != "scratch" {
		t.Fatalf("label mismatch: %q", got)
	}
}

func TestWriteHeaderTooSmall(t *testing.T) {
	block := make([]byte, MinPoolSize-1)
	var label [HeaderLabelSize]byte
	if err := WriteHeader(block, label); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncation error, got %v", err)
	}
}

func TestValidateSanityMismatch(t *testing.T) {
	h := Header{Version: Version, TotalSize: 256, UpperLimit: 256}
	if err := h.ValidateSanity(128); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected size mismatch for short block, got %v", err)
	}
	h.UpperLimit = 128
	if err := h.ValidateSanity(256); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected size mismatch for bad upper limit, got %v", err)
	}
	h = Header{Version: Version, TotalSize: 16, UpperLimit: 16}
	if err := h.ValidateSanity(16); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected size mismatch below minimum, got %v", err)
	}
}

/*
 * asm1802 - Writer tests
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Mark-Clegg/asm1802-sub000/internal/codemap"
)

func sampleMap() *codemap.Map {
	m := codemap.New()
	m.Append(0x0000, []byte{0xF8, 0x00, 0x7A})
	m.Break()
	m.Append(0x0010, []byte{0x01, 0x02})
	return m
}

func TestWriteIntelHex(t *testing.T) {
	var buf bytes.Buffer
	entry := uint16(0)
	if err := WriteIntelHex(sampleMap(), &entry, &buf); err != nil {
		t.Fatalf("WriteIntelHex: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, ":03000000F8007A8B") {
		t.Errorf("missing expected data record, got:\n%s", out)
	}
	if !strings.HasSuffix(strings.TrimRight(out, "\n"), ":00000001FF") {
		t.Errorf("missing end record, got:\n%s", out)
	}
	if !strings.Contains(out, ":0400000300000000F9") {
		t.Errorf("missing start-segment-address record, got:\n%s", out)
	}
}

func TestWriteIntelHexNoEntry(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteIntelHex(sampleMap(), nil, &buf); err != nil {
		t.Fatalf("WriteIntelHex: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "03\r") || strings.Count(out, ":04") != 0 {
		t.Errorf("unexpected start-address record with nil entry:\n%s", out)
	}
}

func TestWriteIdiot4(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteIdiot4(sampleMap(), nil, &buf); err != nil {
		t.Fatalf("WriteIdiot4: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "!M0000 F8 00 7A") {
		t.Errorf("missing first segment line, got:\n%s", out)
	}
	if !strings.Contains(out, "!M0010 01 02") {
		t.Errorf("missing second segment line, got:\n%s", out)
	}
}

func TestWriteElfOS(t *testing.T) {
	var buf bytes.Buffer
	entry := uint16(0x0010)
	if err := WriteElfOS(sampleMap(), &entry, &buf); err != nil {
		t.Fatalf("WriteElfOS: %v", err)
	}
	out := buf.Bytes()
	if len(out) < 6 {
		t.Fatalf("output too short: %d bytes", len(out))
	}
	header := out[:6]
	load := uint16(header[0])<<8 | uint16(header[1])
	size := uint16(header[2])<<8 | uint16(header[3])
	exec := uint16(header[4])<<8 | uint16(header[5])
	if load != 0 {
		t.Errorf("load = %04X, want 0000", load)
	}
	if size != 0x12 {
		t.Errorf("size = %04X, want 0012", size)
	}
	if exec != 0x0010 {
		t.Errorf("exec = %04X, want 0010", exec)
	}
	payload := out[6:]
	if len(payload) != int(size) {
		t.Errorf("payload length = %d, want %d", len(payload), size)
	}
	if payload[0] != 0xF8 || payload[len(payload)-1] != 0x02 {
		t.Errorf("unexpected payload content: % X", payload)
	}
}

func TestWriteBinary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBinary(sampleMap(), nil, &buf); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
	out := buf.Bytes()
	want := []byte{0xF8, 0x00, 0x7A, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x01, 0x02}
	if !bytes.Equal(out, want) {
		t.Errorf("got % X, want % X", out, want)
	}
}

func TestWriteDispatch(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(Binary, sampleMap(), nil, &buf); err != nil {
		t.Fatalf("Write(Binary): %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected non-empty output")
	}
}

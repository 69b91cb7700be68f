package settings

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"sort"
)

var magic = [4]byte{'F', 'L', 'P', '1'}

// ErrNoData is returned when decoding bytes that do not hold an encoded store, such as erased flash
var ErrNoData = errors.New("no stored settings")

// ErrCorrupt is returned when an encoded store fails its checksum or is truncated
var ErrCorrupt = errors.New("stored settings are corrupt")

// NewPersistedMemoryStore loads a store previously encoded by MarshalBinary and calls save with the new
// encoding after every change. Data without a stored store, or a corrupt one, starts empty.
func NewPersistedMemoryStore(data []byte, save func([]byte) error) *MemoryStore {
	s := NewMemoryStore()
	if err := s.UnmarshalBinary(data); err != nil {
		s.ints = map[string]int32{}
		s.strings = map[string]string{}
	}
	s.save = save
	return s
}

// MarshalBinary encodes all values with a trailing CRC32
func (s *MemoryStore) MarshalBinary() ([]byte, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.encode(), nil
}

// encode layout, little endian:
//
//	magic[4] nInts:u16 {keyLen:u8 key value:i32}... nStrings:u16 {keyLen:u8 key valLen:u16 val}... crc:u32
func (s *MemoryStore) encode() []byte {
	buf := append([]byte(nil), magic[:]...)

	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(s.ints)))
	for _, k := range sortedKeys(s.ints) {
		buf = appendKey(buf, k)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(s.ints[k]))
	}

	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(s.strings)))
	for _, k := range sortedKeys(s.strings) {
		buf = appendKey(buf, k)
		v := s.strings[k]
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(v)))
		buf = append(buf, v...)
	}

	return binary.LittleEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf))
}

// UnmarshalBinary replaces the contents of the store. Bytes after the checksum are ignored.
func (s *MemoryStore) UnmarshalBinary(data []byte) error {
	if len(data) < len(magic) || [4]byte(data[:4]) != magic {
		return ErrNoData
	}

	d := decoder{data: data, off: len(magic)}
	ints := map[string]int32{}
	strs := map[string]string{}

	for n := d.uint16(); n > 0 && d.err == nil; n-- {
		k := d.key()
		ints[k] = int32(d.uint32())
	}
	for n := d.uint16(); n > 0 && d.err == nil; n-- {
		k := d.key()
		strs[k] = string(d.bytes(int(d.uint16())))
	}

	end := d.off
	sum := d.uint32()
	if d.err != nil || crc32.ChecksumIEEE(data[:end]) != sum {
		return ErrCorrupt
	}

	s.mtx.Lock()
	s.ints, s.strings = ints, strs
	s.mtx.Unlock()
	return nil
}

type decoder struct {
	data []byte
	off  int
	err  error
}

func (d *decoder) bytes(n int) []byte {
	if d.err != nil || d.off+n > len(d.data) {
		d.err = ErrCorrupt
		return nil
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) uint16() uint16 {
	b := d.bytes(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (d *decoder) uint32() uint32 {
	b := d.bytes(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) key() string {
	b := d.bytes(1)
	if b == nil {
		return ""
	}
	return string(d.bytes(int(b[0])))
}

func appendKey(buf []byte, k string) []byte {
	buf = append(buf, byte(len(k)))
	return append(buf, k...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

//go:build tinygo

package hardware

import (
	"errors"
	"machine"

	"github.com/calvinmclean/splitflap/settings"
)

// OpenFlashStore loads settings from the last erase block of the data flash and rewrites that block on
// every change.
func OpenFlashStore() (*settings.MemoryStore, error) {
	blockSize := machine.Flash.EraseBlockSize()
	if machine.Flash.Size() < blockSize {
		return nil, errors.New("no data flash available")
	}
	offset := machine.Flash.Size() - blockSize

	data := make([]byte, blockSize)
	_, err := machine.Flash.ReadAt(data, offset)
	if err != nil {
		return nil, errors.New("error reading flash: " + err.Error())
	}

	save := func(encoded []byte) error {
		if int64(len(encoded)) > blockSize {
			return errors.New("settings do not fit in one flash block")
		}

		// erased flash reads 0xFF so padding keeps the block clean
		writeSize := machine.Flash.WriteBlockSize()
		padded := int64(len(encoded))
		if rem := padded % writeSize; rem != 0 {
			padded += writeSize - rem
		}
		buf := make([]byte, padded)
		for i := range buf {
			buf[i] = 0xFF
		}
		copy(buf, encoded)

		err := machine.Flash.EraseBlocks(offset/blockSize, 1)
		if err != nil {
			return errors.New("error erasing flash: " + err.Error())
		}
		_, err = machine.Flash.WriteAt(buf, offset)
		if err != nil {
			return errors.New("error writing flash: " + err.Error())
		}
		return nil
	}

	return settings.NewPersistedMemoryStore(data, save), nil
}

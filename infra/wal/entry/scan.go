package entry

import (
	"encoding/binary"
	"io"
	"os"
)

// maxSeqInSegment scans one segment for its highest seq. Used only by
// snapshot-driven truncation, so a torn tail just ends the scan.
func maxSeqInSegment(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var max uint64
	header := make([]byte, headerSize)
	for {
		if _, err := io.ReadFull(f, header); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return max, nil
			}
			return max, err
		}

		if seq := binary.BigEndian.Uint64(header[1:9]); seq > max {
			max = seq
		}

		lineLen := binary.BigEndian.Uint32(header[17:21])
		if _, err := f.Seek(int64(lineLen+4), io.SeekCurrent); err != nil {
			return max, err
		}
	}
}

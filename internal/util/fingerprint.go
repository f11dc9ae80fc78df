package util

import (
	"hash/crc32"
	"io"
	"os"
)

// FileFingerprint identifies one version of a file's content.
type FileFingerprint struct {
	Size    int64
	ModTime int64 // unix nanoseconds
	CRC     uint32
}

// CalculateFileFingerprint hashes the whole file with CRC32 and records its
// size and modification time.
func CalculateFileFingerprint(path string) (FileFingerprint, error) {
	file, err := os.Open(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return FileFingerprint{}, err
	}

	hash := crc32.NewIEEE()
	if _, err := io.Copy(hash, file); err != nil {
		return FileFingerprint{}, err
	}

	return FileFingerprint{
		Size:    stat.Size(),
		ModTime: stat.ModTime().UnixNano(),
		CRC:     hash.Sum32(),
	}, nil
}

// SameContent reports whether two fingerprints describe identical bytes,
// ignoring the modification time.
func (f FileFingerprint) SameContent(other FileFingerprint) bool {
	return f.Size == other.Size && f.CRC == other.CRC
}

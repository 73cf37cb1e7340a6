// Copyright 2023 Intel Corporation. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mem

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// FileReader serves reads from an mmapped window of a file. Address
// 0 of the reader is the byte at file offset given to NewFileReader,
// which need not be page aligned: the mapping starts at the
// preceding page boundary and the sub-page remainder is hidden.
type FileReader struct {
	// mapped is the page-aligned region handed out by mmap; data
	// is the window starting at the requested file offset.
	mapped []byte
	data   []byte
}

// NewFileReader maps up to size bytes of the file at path, starting
// at byte offset. The file descriptor is closed before returning;
// the mapping keeps the pages alive.
func NewFileReader(path string, offset, size uint64) (*FileReader, error) {
	fd, err := openRetry(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %q", path)
	}
	defer unix.Close(fd)

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, errors.Wrapf(err, "cannot stat %q", path)
	}
	fileSize := uint64(st.Size)
	if offset >= fileSize {
		return nil, errors.Errorf("offset 0x%x is past the end of %q (%d bytes)", offset, path, fileSize)
	}

	aligned := offset &^ (constUPagesize - 1)
	sub := offset - aligned
	mapLen := fileSize - aligned
	if size <= math.MaxUint64-sub && size+sub < mapLen {
		mapLen = size + sub
	}
	if mapLen > uint64(math.MaxInt) {
		return nil, errors.Errorf("window of %q is too large to map (%d bytes)", path, mapLen)
	}

	mapped, err := unix.Mmap(fd, int64(aligned), int(mapLen), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot mmap %q", path)
	}
	return &FileReader{mapped: mapped, data: mapped[sub:]}, nil
}

// Size returns the number of addressable bytes in the window.
func (f *FileReader) Size() uint64 {
	return uint64(len(f.data))
}

// Close unmaps the window. The reader must not be used afterwards.
func (f *FileReader) Close() error {
	if f.mapped == nil {
		return nil
	}
	err := unix.Munmap(f.mapped)
	f.mapped = nil
	f.data = nil
	return errors.Wrap(err, "cannot munmap file window")
}

func (f *FileReader) Read(addr uint64, buf []byte) int {
	if addr >= uint64(len(f.data)) {
		return 0
	}
	return copy(buf, f.data[addr:])
}

func openRetry(path string) (int, error) {
	for {
		fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
		if err != unix.EINTR {
			return fd, err
		}
	}
}

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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filereader-test.bin")
	require.Nil(t, os.WriteFile(path, data, 0644))
	return path
}

func TestFileReaderWholeFile(t *testing.T) {
	data := ramp(256)
	path := writeTestFile(t, data)

	f, err := NewFileReader(path, 0, ^uint64(0))
	require.Nil(t, err)
	defer f.Close()

	require.Equal(t, uint64(256), f.Size())

	buf := make([]byte, 16)
	require.Equal(t, 16, f.Read(0x10, buf))
	require.Equal(t, data[0x10:0x20], buf)

	require.Equal(t, 0, f.Read(256, buf))
	require.Equal(t, 6, f.Read(250, buf))
}

func TestFileReaderUnalignedOffset(t *testing.T) {
	// Address 0 must be the byte at the requested file offset even
	// though the mapping itself starts at a page boundary.
	data := ramp(int(4 * constUPagesize))
	path := writeTestFile(t, data)

	tcases := []struct {
		name   string
		offset uint64
		size   uint64
	}{
		{name: "offset inside first page", offset: 13, size: 100},
		{name: "offset on page boundary", offset: constUPagesize, size: 100},
		{name: "offset past page boundary", offset: constUPagesize + 7, size: 100},
		{name: "window clamped by file end", offset: 4*constUPagesize - 192, size: 10000},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewFileReader(path, tc.offset, tc.size)
			require.Nil(t, err)
			defer f.Close()

			expectedSize := tc.size
			if left := uint64(len(data)) - tc.offset; expectedSize > left {
				expectedSize = left
			}
			require.Equal(t, expectedSize, f.Size())

			buf := make([]byte, 4)
			require.Equal(t, 4, f.Read(0, buf))
			require.Equal(t, data[tc.offset:tc.offset+4], buf)
		})
	}
}

func TestFileReaderErrors(t *testing.T) {
	path := writeTestFile(t, ramp(64))

	_, err := NewFileReader(path, 64, 1)
	require.NotNil(t, err, "offset at file end must fail")

	_, err = NewFileReader(path, 1000, 1)
	require.NotNil(t, err, "offset past file end must fail")

	_, err = NewFileReader(filepath.Join(t.TempDir(), "does-not-exist"), 0, 1)
	require.NotNil(t, err, "missing file must fail")
}

func TestFileReaderClose(t *testing.T) {
	f, err := NewFileReader(writeTestFile(t, ramp(64)), 0, 64)
	require.Nil(t, err)
	require.Nil(t, f.Close())
	require.Nil(t, f.Close(), "closing twice must be harmless")
	require.Equal(t, 0, f.Read(0, make([]byte, 1)), "closed reader must serve nothing")
}

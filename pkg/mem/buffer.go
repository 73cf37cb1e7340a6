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

// BufferReader serves reads from a byte slice. Address 0 is the
// first byte of the slice.
type BufferReader struct {
	data []byte
}

// NewBufferReader returns a reader over data. The slice is borrowed,
// not copied.
func NewBufferReader(data []byte) *BufferReader {
	return &BufferReader{data: data}
}

// Size returns the number of addressable bytes.
func (b *BufferReader) Size() uint64 {
	return uint64(len(b.data))
}

func (b *BufferReader) Read(addr uint64, buf []byte) int {
	if addr >= uint64(len(b.data)) {
		return 0
	}
	return copy(buf, b.data[addr:])
}

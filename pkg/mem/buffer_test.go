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
	"bytes"
	"testing"
)

func TestBufferReaderRead(t *testing.T) {
	backing := []byte{0x41, 0x42, 0x43, 0x44}
	tcases := []struct {
		name          string
		addr          uint64
		size          int
		expectedCount int
		expectedData  []byte
	}{
		{
			name:          "full read",
			addr:          0,
			size:          4,
			expectedCount: 4,
			expectedData:  []byte{0x41, 0x42, 0x43, 0x44},
		}, {
			name:          "clamped read",
			addr:          1,
			size:          10,
			expectedCount: 3,
			expectedData:  []byte{0x42, 0x43, 0x44},
		}, {
			name:          "read at end",
			addr:          4,
			size:          1,
			expectedCount: 0,
		}, {
			name:          "read past end",
			addr:          100,
			size:          1,
			expectedCount: 0,
		}, {
			name:          "empty read",
			addr:          0,
			size:          0,
			expectedCount: 0,
		},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewBufferReader(backing)
			buf := make([]byte, tc.size+8)
			for i := range buf {
				buf[i] = 0xee
			}
			n := r.Read(tc.addr, buf[:tc.size])
			if n != tc.expectedCount {
				t.Errorf("Read(%#x, %d): expected %d bytes, got %d", tc.addr, tc.size, tc.expectedCount, n)
			}
			if tc.expectedData != nil && !bytes.Equal(buf[:n], tc.expectedData) {
				t.Errorf("Read(%#x, %d): expected data %v, got %v", tc.addr, tc.size, tc.expectedData, buf[:n])
			}
			// Bytes past the returned prefix must be untouched.
			for i := n; i < len(buf); i++ {
				if buf[i] != 0xee {
					t.Errorf("Read(%#x, %d): byte %d modified past the returned prefix", tc.addr, tc.size, i)
					break
				}
			}
		})
	}
}

func TestBufferReaderSize(t *testing.T) {
	if size := NewBufferReader(make([]byte, 42)).Size(); size != 42 {
		t.Errorf("expected size 42, got %d", size)
	}
}

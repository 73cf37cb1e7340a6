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
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Snapshot file format: an 8 byte base address followed by the raw
// bytes captured from that address on.
const snapshotHeaderSize = 8

// WriteSnapshot writes data captured at address start to w in the
// format OfflineReader reads back.
func WriteSnapshot(w io.Writer, start uint64, data []byte) error {
	var hdr [snapshotHeaderSize]byte
	binary.LittleEndian.PutUint64(hdr[:], start)
	if _, err := w.Write(hdr[:]); err != nil {
		return errors.Wrap(err, "cannot write snapshot header")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "cannot write snapshot data")
	}
	return nil
}

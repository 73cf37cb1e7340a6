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

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// OfflineReader serves reads from a memory snapshot file. The first
// 8 bytes of the file hold the base address the snapshot was taken
// at; the remaining bytes appear at consecutive addresses from that
// base.
type OfflineReader struct {
	file *FileReader
	rng  *RangeReader
}

// NewOfflineReader opens the snapshot file at path, starting at byte
// offset within the file.
func NewOfflineReader(path string, offset uint64) (*OfflineReader, error) {
	f, err := NewFileReader(path, offset, ^uint64(0))
	if err != nil {
		return nil, err
	}
	if f.Size() < snapshotHeaderSize {
		f.Close()
		return nil, errors.Errorf("snapshot %q is truncated: no room for the base address header", path)
	}
	var hdr [snapshotHeaderSize]byte
	if !ReadFully(f, 0, hdr[:]) {
		f.Close()
		return nil, errors.Errorf("cannot read the base address header of snapshot %q", path)
	}
	start := binary.LittleEndian.Uint64(hdr[:])
	return &OfflineReader{
		file: f,
		rng:  NewRangeReader(f, snapshotHeaderSize, f.Size()-snapshotHeaderSize, start),
	}, nil
}

// Start returns the base address recorded in the snapshot header.
func (o *OfflineReader) Start() uint64 {
	return o.rng.Offset()
}

func (o *OfflineReader) Read(addr uint64, buf []byte) int {
	return o.rng.Read(addr, buf)
}

// Close releases the underlying file mapping.
func (o *OfflineReader) Close() error {
	return o.file.Close()
}

// OfflinePartsReader reads from an ordered list of snapshots. A read
// probes the parts in order and the first one returning bytes wins.
// A read straddling two parts returns only the first part's
// contribution; the caller reissues at the boundary.
type OfflinePartsReader struct {
	parts []*OfflineReader
}

// NewOfflinePartsReader opens every named snapshot file. On any
// failure the already opened parts are closed again.
func NewOfflinePartsReader(paths ...string) (*OfflinePartsReader, error) {
	r := &OfflinePartsReader{}
	for _, path := range paths {
		part, err := NewOfflineReader(path, 0)
		if err != nil {
			r.Close()
			return nil, errors.Wrapf(err, "cannot open snapshot part %q", path)
		}
		r.parts = append(r.parts, part)
	}
	return r, nil
}

func (r *OfflinePartsReader) Read(addr uint64, buf []byte) int {
	for _, part := range r.parts {
		if n := part.Read(addr, buf); n > 0 {
			return n
		}
	}
	return 0
}

// Close releases all parts, reporting every failure.
func (r *OfflinePartsReader) Close() error {
	var errs *multierror.Error
	for _, part := range r.parts {
		errs = multierror.Append(errs, part.Close())
	}
	r.parts = nil
	return errs.ErrorOrNil()
}

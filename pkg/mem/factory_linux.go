//go:build linux
// +build linux

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
	"golang.org/x/sys/unix"
)

// NewFileMemory maps a window of the file at path and returns it as
// a Reader.
func NewFileMemory(path string, offset, size uint64) (Reader, error) {
	f, err := NewFileReader(path, offset, size)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// NewProcessMemory returns a reader for the address space of pid: a
// LocalReader for the current process, a RemoteReader otherwise.
func NewProcessMemory(pid int) Reader {
	if pid == unix.Getpid() {
		return NewLocalReader()
	}
	return NewRemoteReader(pid)
}

// NewProcessMemoryCached is NewProcessMemory wrapped in a cache
// shared by all callers.
func NewProcessMemoryCached(pid int) Reader {
	return NewSharedPageCache(NewProcessMemory(pid))
}

// NewProcessMemoryThreadCached is NewProcessMemory wrapped in
// per-thread caches.
func NewProcessMemoryThreadCached(pid int) Reader {
	return NewThreadPageCache(NewProcessMemory(pid))
}

// NewOfflineMemory returns a reader exposing data at addresses
// [start, end). The window is clamped to the data actually
// available.
func NewOfflineMemory(data []byte, start, end uint64) Reader {
	length := uint64(0)
	if end > start {
		length = end - start
	}
	if length > uint64(len(data)) {
		length = uint64(len(data))
	}
	return NewRangeReader(NewBufferReader(data), 0, length, start)
}

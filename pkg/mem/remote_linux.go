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
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// Syscall entry points, replaceable in tests.
var processVMReadv = unix.ProcessVMReadv
var ptracePeekText = unix.PtracePeekText

// maxVMReadIovecs bounds remote iovecs per process_vm_readv call.
const maxVMReadIovecs = 64

// Read strategies of RemoteReader.
const (
	strategyUnset int32 = iota
	strategyVMRead
	strategyPtrace
)

// RemoteReader reads the address space of another process. It first
// tries process_vm_readv; where that is unavailable, for example
// filtered by a seccomp policy, it falls back to ptrace word reads.
// Whichever mechanism transfers bytes first is used for all
// subsequent reads. For the ptrace path the caller must have the
// target ptrace-stopped.
type RemoteReader struct {
	pid      int
	strategy int32
	counters remoteCounters
}

type remoteCounters struct {
	vmCalls     uint64
	vmBytes     uint64
	ptraceCalls uint64
}

// NewRemoteReader returns a reader for the address space of pid.
func NewRemoteReader(pid int) *RemoteReader {
	return &RemoteReader{pid: pid}
}

func (r *RemoteReader) Read(addr uint64, buf []byte) int {
	if len(buf) == 0 || addr > maxUintptr {
		return 0
	}
	switch atomic.LoadInt32(&r.strategy) {
	case strategyVMRead:
		return vmRead(r.pid, addr, buf, &r.counters)
	case strategyPtrace:
		return r.ptraceRead(addr, buf)
	}
	if n := vmRead(r.pid, addr, buf, &r.counters); n > 0 {
		atomic.StoreInt32(&r.strategy, strategyVMRead)
		return n
	}
	if n := r.ptraceRead(addr, buf); n > 0 {
		log.Debugf("pid %d: process_vm_readv yielded nothing, using ptrace from now on", r.pid)
		atomic.StoreInt32(&r.strategy, strategyPtrace)
		return n
	}
	return 0
}

// Stats returns syscall counters accumulated so far.
func (r *RemoteReader) Stats() Stats {
	return Stats{
		VMReadCalls: atomic.LoadUint64(&r.counters.vmCalls),
		VMReadBytes: atomic.LoadUint64(&r.counters.vmBytes),
		PtraceCalls: atomic.LoadUint64(&r.counters.ptraceCalls),
	}
}

func (r *RemoteReader) ptraceRead(addr uint64, buf []byte) int {
	// Clamp so that addr+len does not wrap around the top of the
	// address space.
	if avail := maxUintptr - addr; avail < uint64(len(buf))-1 {
		buf = buf[:avail+1]
	}
	atomic.AddUint64(&r.counters.ptraceCalls, 1)
	n, _ := ptracePeekText(r.pid, uintptr(addr), buf)
	if n < 0 {
		return 0
	}
	return n
}

// vmRead reads remote bytes with process_vm_readv. The remote side
// is split into iovecs that never cross an OS page boundary: the
// kernel stops a transfer only at iovec granularity, so a per-page
// iovec confines the effect of an unreadable page to that page.
func vmRead(pid int, addr uint64, buf []byte, counters *remoteCounters) int {
	total := 0
	remote := make([]unix.RemoteIovec, 0, maxVMReadIovecs)
	local := make([]unix.Iovec, 1)
	for total < len(buf) {
		cursor := addr + uint64(total)
		if cursor < addr {
			break
		}
		remote = remote[:0]
		batch := 0
		for len(remote) < maxVMReadIovecs && total+batch < len(buf) {
			if cursor >= maxUintptr {
				break
			}
			l := constUPagesize - (cursor & (constUPagesize - 1))
			if left := uint64(len(buf) - total - batch); l > left {
				l = left
			}
			if cursor+l < cursor {
				break
			}
			remote = append(remote, unix.RemoteIovec{Base: uintptr(cursor), Len: int(l)})
			cursor += l
			batch += int(l)
		}
		if len(remote) == 0 {
			break
		}
		local[0].Base = &buf[total]
		local[0].SetLen(batch)
		if counters != nil {
			atomic.AddUint64(&counters.vmCalls, 1)
		}
		n, err := processVMReadv(pid, local, remote, 0)
		if err != nil || n <= 0 {
			break
		}
		if counters != nil {
			atomic.AddUint64(&counters.vmBytes, uint64(n))
		}
		total += n
		if n < batch {
			// The transfer stopped at an unreadable page;
			// retrying from there cannot advance.
			break
		}
	}
	return total
}

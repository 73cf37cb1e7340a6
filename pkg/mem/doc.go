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

/*

	Package mem implements the memory access layer used by stack
	unwinding. All sources of bytes - a traced remote process, the
	current process, a memory mapped file, an in-RAM buffer, or an
	offline snapshot - are exposed through the single Reader
	interface, so that register unwinders, call frame evaluators
	and symbol readers never need to know where the bytes come
	from.

	Reader variants

	1. BufferReader (buffer.go) and FileReader (file.go) serve
	bytes from a byte slice and from an mmapped window of a file.

	2. RangeReader and RangesReader (range.go) expose a rebased
	window of another reader, and dispatch between many such
	windows by address.

	3. RemoteReader (remote_linux.go) reads another process's
	address space with process_vm_readv, falling back to ptrace
	word reads where the vectored read is unavailable. The choice
	sticks after the first successful read. LocalReader
	(local_linux.go) reads the current process.

	4. OfflineReader and OfflinePartsReader (offline.go) serve
	bytes from snapshot files captured earlier, for example by the
	memsnap tool.

	5. SharedPageCache (cache.go) and ThreadPageCache
	(threadcache_linux.go) wrap any other reader with a paged read
	cache that amortizes syscalls for address-clustered reads.

	Factory functions in factory_linux.go tie the variants
	together and hand out plain Readers.

*/
package mem

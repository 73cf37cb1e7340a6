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

// memsnap captures memory snapshots of a running process into files
// that the offline readers of pkg/mem consume: 8 bytes of base
// address followed by the raw bytes.
package main

import (
	"bytes"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"gopkg.in/yaml.v3"

	"github.com/intel/unwind-memory/pkg/mem"
	_ "github.com/intel/unwind-memory/pkg/version"
)

type Config struct {
	Pid    int      `yaml:"pid"`
	Output string   `yaml:"output"`
	Ranges []string `yaml:"ranges"`
}

func exit(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, fmt.Sprintf("memsnap: "+format+"\n", a...))
	os.Exit(1)
}

func loadConfigFile(filename string) Config {
	configBytes, err := os.ReadFile(filename)
	if err != nil {
		exit("%s", err)
	}
	var config Config
	if err := yaml.Unmarshal(configBytes, &config); err != nil {
		exit("error in %q: %s", filename, err)
	}
	return config
}

func capture(reader mem.Reader, r mem.AddrRange) []byte {
	data := make([]byte, r.Length())
	total := 0
	for total < len(data) {
		n := reader.Read(r.Addr()+uint64(total), data[total:])
		if n == 0 {
			break
		}
		total += n
	}
	return data[:total]
}

func writeSnapshotFile(output string, start uint64, data []byte) string {
	filename := fmt.Sprintf("%s-%x.mem", output, start)
	f, err := os.Create(filename)
	if err != nil {
		exit("%s", err)
	}
	defer f.Close()
	if err := mem.WriteSnapshot(f, start, data); err != nil {
		exit("cannot write %q: %s", filename, err)
	}
	return filename
}

func printStats(sources map[string]mem.StatsSource) {
	reg := prometheus.NewPedanticRegistry()
	for name, source := range sources {
		if err := reg.Register(mem.NewStatsCollector(name, source)); err != nil {
			exit("cannot register %q statistics: %s", name, err)
		}
	}
	mfs, err := reg.Gather()
	if err != nil {
		exit("cannot gather statistics: %s", err)
	}
	for _, mf := range mfs {
		out := &bytes.Buffer{}
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			exit("cannot format statistics: %s", err)
		}
		fmt.Print(out)
	}
}

func main() {
	optConfig := flag.String("config", "", "read pid, output and ranges from a YAML file")
	optPid := flag.Int("pid", 0, "pid of the process to snapshot")
	optRanges := flag.String("ranges", "", "comma separated address ranges: start-end, start+size or start (hex addresses)")
	optOutput := flag.String("output", "", "output file prefix (default \"memsnap\" unless set in the configuration)")
	optStats := flag.Bool("stats", false, "print read statistics on exit")
	optDebug := flag.Bool("debug", false, "print debug messages")
	flag.Parse()

	if *optDebug {
		mem.SetLogger(stdlog.New(os.Stderr, "", 0))
		mem.SetLogDebug(true)
	}

	var config Config
	if *optConfig != "" {
		config = loadConfigFile(*optConfig)
	}
	if *optPid != 0 {
		config.Pid = *optPid
	}
	if *optRanges != "" {
		config.Ranges = nil
		for _, s := range strings.Split(*optRanges, ",") {
			if s = strings.TrimSpace(s); s != "" {
				config.Ranges = append(config.Ranges, s)
			}
		}
	}
	if *optOutput != "" {
		config.Output = *optOutput
	}
	if config.Output == "" {
		config.Output = "memsnap"
	}
	if config.Pid <= 0 {
		exit("missing -pid or pid in the configuration")
	}
	if len(config.Ranges) == 0 {
		exit("missing -ranges or ranges in the configuration")
	}

	ranges := make([]mem.AddrRange, 0, len(config.Ranges))
	for _, s := range config.Ranges {
		r, err := mem.ParseAddrRange(s)
		if err != nil {
			exit("%s", err)
		}
		ranges = append(ranges, r)
	}

	process := mem.NewProcessMemory(config.Pid)
	reader := mem.NewSharedPageCache(process)

	for _, r := range ranges {
		data := capture(reader, r)
		if len(data) == 0 {
			fmt.Fprintf(os.Stderr, "memsnap: warning: range %s of pid %d is not readable, skipping\n", r, config.Pid)
			continue
		}
		filename := writeSnapshotFile(config.Output, r.Addr(), data)
		fmt.Printf("%s: %d/%d bytes of %s\n", filename, len(data), r.Length(), r)
	}

	if *optStats {
		sources := map[string]mem.StatsSource{"cache": reader}
		if remote, ok := process.(mem.StatsSource); ok {
			sources["process"] = remote
		}
		printStats(sources)
	}
}

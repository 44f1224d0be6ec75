// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"io/ioutil"
	"os"

	"github.com/base/benchreport/benchunit"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// A Definition describes one chart of a grid.
type Definition struct {
	Key         string         `yaml:"key"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Unit        benchunit.Unit `yaml:"unit"`
}

func latency(key, title, what string) Definition {
	return Definition{key, title, "Shows the median time taken for " + what, benchunit.Nanoseconds}
}

// DefaultDefinitions are the charts shown on a comparison page, in
// order.
var DefaultDefinitions = []Definition{
	latency("latency/send_txs", "Send Txs", "send txs"),
	latency("latency/update_fork_choice", "Update Fork Choice", "update fork choice"),
	latency("latency/get_payload", "Get Payload", "get payload"),
	latency("latency/new_payload", "New Payload", "new payload"),
	latency("chain/inserts.50-percentile", "Inserts", "block processing and insertion (end-to-end)"),
	latency("chain/account/reads.50-percentile", "Account Reads", "account reads during block processing"),
	latency("chain/storage/reads.50-percentile", "Storage Reads", "storage reads during block processing"),
	latency("chain/execution.50-percentile", "Execution (EVM)", "EVM execution during block processing"),
	latency("chain/account/updates.50-percentile", "Account Updates", "updating accounts during state validation"),
	latency("chain/account/hashes.50-percentile", "Account Hashes", "hashing accounts during state validation"),
	latency("chain/storage/updates.50-percentile", "Storage Updates", "updating storage during state validation"),
	latency("chain/validation.50-percentile", "Validation (Misc)", "miscellaneous block validation steps"),
	latency("chain/crossvalidation.50-percentile", "Cross Validation", "stateless cross-validation (if enabled)"),
	latency("chain/write.50-percentile", "Write (Misc)", "miscellaneous block write operations (excluding commits)"),
	latency("chain/account/commits.50-percentile", "Account Commits", "committing account changes to the DB"),
	latency("chain/storage/commits.50-percentile", "Storage Commits", "committing storage changes to the DB"),
	latency("chain/snapshot/commits.50-percentile", "Snapshot Commits", "committing snapshot changes to the DB"),
	latency("chain/triedb/commits.50-percentile", "TrieDB Commits", "committing TrieDB changes"),
	{"transactions/per_block", "Transactions per Block", "Shows the number of transactions per block", benchunit.Count},
	{"gas/per_block", "Gas Per Block", "Shows the median gas per block", benchunit.Gas},
}

// Lookup returns the definition of metric key in defs.
func Lookup(defs []Definition, key string) (Definition, bool) {
	for _, d := range defs {
		if d.Key == key {
			return d, true
		}
	}
	return Definition{}, false
}

// ParseDefinitions parses a YAML list of chart definitions.
func ParseDefinitions(data []byte) ([]Definition, error) {
	var defs []Definition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, errors.Wrap(err, "problem parsing chart definitions")
	}
	for i, d := range defs {
		if d.Key == "" {
			return nil, errors.Errorf("chart definition %d has no key", i)
		}
		if d.Title == "" {
			defs[i].Title = benchunit.TitleCase(d.Key)
		}
		if _, ok := benchunit.ParseUnit(string(d.Unit)); d.Unit != "" && !ok {
			return nil, errors.Errorf("chart definition %s: unknown unit %q", d.Key, d.Unit)
		}
	}
	return defs, nil
}

// LoadDefinitions reads chart definitions from the YAML file at path.
func LoadDefinitions(path string) ([]Definition, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.Errorf("file %s does not exist", path)
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid file: %s", path)
	}
	defs, err := ParseDefinitions(data)
	return defs, errors.Wrapf(err, "loading %s", path)
}

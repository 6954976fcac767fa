// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

import "sort"

// Meta is a key→string mapping, valid at any position.
type Meta struct {
	baseNode
	Entries map[string]string
}

func NewMeta(line int, entries map[string]string) *Meta {
	return &Meta{baseNode: baseNode{line: line}, Entries: entries}
}

func (m *Meta) String() string {
	keys := make([]string, 0, len(m.Entries))
	for k := range m.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := "meta:"
	for _, k := range keys {
		out += " " + k + "=" + m.Entries[k]
	}
	return out
}

func (m *Meta) statementNode() {}

var _ Statement = &Meta{}

// Config is a key→scalar mapping, valid at any position. Scalars are kept
// as strings; evaluator.Config provides typed accessors over them.
type Config struct {
	baseNode
	Entries map[string]string
}

func NewConfig(line int, entries map[string]string) *Config {
	return &Config{baseNode: baseNode{line: line}, Entries: entries}
}

func (c *Config) String() string {
	keys := make([]string, 0, len(c.Entries))
	for k := range c.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := "config:"
	for _, k := range keys {
		out += " " + k + "=" + c.Entries[k]
	}
	return out
}

func (c *Config) statementNode() {}

var _ Statement = &Config{}

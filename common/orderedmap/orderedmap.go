/*
 * Cadence - The resource-oriented smart contract programming language
 *
 * Copyright Flow Foundation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 * Based on https://github.com/wk8/go-ordered-map, Copyright Jean Rougé
 *
 */

package orderedmap

import (
	"iter"
)

// OrderedMap is a map which remembers the insertion order of its keys.
// The zero value is an empty map ready to use.
type OrderedMap[K comparable, V any] struct {
	entries map[K]*entry[K, V]
	// first and last are the ends of the insertion-ordered entry chain
	first *entry[K, V]
	last  *entry[K, V]
}

type entry[K comparable, V any] struct {
	key   K
	value V
	prev  *entry[K, V]
	next  *entry[K, V]
}

// New returns a new OrderedMap with room for the given number of entries
func New[T OrderedMap[K, V], K comparable, V any](size int) *T {
	return &T{
		entries: make(map[K]*entry[K, V], size),
	}
}

// Get returns the value associated with the given key.
// The second return value indicates if the key is present in the map.
func (om OrderedMap[K, V]) Get(key K) (result V, present bool) {
	e, present := om.entries[key]
	if !present {
		return
	}
	return e.value, true
}

// Contains returns true if the key is present in the map.
func (om OrderedMap[K, V]) Contains(key K) bool {
	_, present := om.entries[key]
	return present
}

// Set associates the value with the key.
// A new key is appended, an existing key keeps its position.
// The previous value is returned, if any.
func (om *OrderedMap[K, V]) Set(key K, value V) (oldValue V, present bool) {
	if e, ok := om.entries[key]; ok {
		oldValue = e.value
		e.value = value
		return oldValue, true
	}

	if om.entries == nil {
		om.entries = map[K]*entry[K, V]{}
	}

	e := &entry[K, V]{
		key:   key,
		value: value,
		prev:  om.last,
	}
	if om.last == nil {
		om.first = e
	} else {
		om.last.next = e
	}
	om.last = e
	om.entries[key] = e

	return
}

// Delete removes the key, and returns its value, if any.
func (om *OrderedMap[K, V]) Delete(key K) (oldValue V, present bool) {
	e, present := om.entries[key]
	if !present {
		return
	}

	if e.prev == nil {
		om.first = e.next
	} else {
		e.prev.next = e.next
	}
	if e.next == nil {
		om.last = e.prev
	} else {
		e.next.prev = e.prev
	}
	delete(om.entries, key)

	return e.value, true
}

func (om OrderedMap[K, V]) Len() int {
	return len(om.entries)
}

// Foreach invokes the function for each entry, in insertion order.
func (om OrderedMap[K, V]) Foreach(f func(key K, value V)) {
	for e := om.first; e != nil; e = e.next {
		f(e.key, e.value)
	}
}

// All returns an iterator over the entries, in insertion order.
func (om OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for e := om.first; e != nil; e = e.next {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Keys returns the keys, in insertion order.
func (om OrderedMap[K, V]) Keys() []K {
	keys := make([]K, 0, len(om.entries))
	for e := om.first; e != nil; e = e.next {
		keys = append(keys, e.key)
	}
	return keys
}

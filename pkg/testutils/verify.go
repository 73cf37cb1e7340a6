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

// Package testutils collects small helpers shared by the tests of
// this repository.
package testutils

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
)

// VerifyDeepEqual checks that two values (including structures) are equal, or else it fails the test.
func VerifyDeepEqual(t *testing.T, valueName string, expectedValue interface{}, seenValue interface{}) bool {
	if reflect.DeepEqual(expectedValue, seenValue) {
		return true
	}
	t.Errorf("expected %s value %+v, got %+v", valueName, expectedValue, seenValue)
	return false
}

// VerifyError checks that an error carries the expected number of
// failures and the expected message substrings, or else it fails the
// test. A plain error counts as one failure; a multierror counts as
// many as it aggregates.
func VerifyError(t *testing.T, err error, expectedCount int, expectedSubstrings []string) bool {
	if expectedCount == 0 {
		if err != nil {
			t.Errorf("expected no error, but got %v", err)
			return false
		}
		return true
	}
	if err == nil {
		t.Errorf("error expected, got nil")
		return false
	}
	count := 1
	if merr, ok := err.(*multierror.Error); ok {
		count = len(merr.Errors)
	}
	if count != expectedCount {
		t.Errorf("expected %d errors, but got %d: %v", expectedCount, count, err)
		return false
	}
	for _, substring := range expectedSubstrings {
		if !strings.Contains(err.Error(), substring) {
			t.Errorf("expected error with substring %#v, got \"%v\"", substring, err)
		}
	}
	return true
}

// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"errors"
	"strings"
	"testing"
)

func TestPanicHandlerNil(t *testing.T) {
	if err := PanicHandler("test", nil); err != nil {
		t.Fatalf("expected nil for no panic, got %v", err)
	}
}

func TestPanicHandlerWrapsError(t *testing.T) {
	sentinel := errors.New("boom")
	err := func() (err error) {
		defer func() {
			if panicErr := PanicHandler("test", recover()); panicErr != nil {
				err = panicErr
			}
		}()
		panic(sentinel)
	}()
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
}

func TestPanicHandlerString(t *testing.T) {
	err := func() (err error) {
		defer func() {
			if panicErr := PanicHandler("widget", recover()); panicErr != nil {
				err = panicErr
			}
		}()
		panic("boom")
	}()
	if err == nil || !strings.Contains(err.Error(), "widget") || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("unexpected error: %v", err)
	}
}

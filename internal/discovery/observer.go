// SPDX-License-Identifier: MPL-2.0

package discovery

import "github.com/hashlog/hashlog/pkg/hashlog"

type (
	// Observer receives progress from a Discover pass. Calls are made from
	// the goroutine running Discover, in scan order.
	Observer interface {
		// Scanning is called before a file is read.
		Scanning(path string)
		// Discovered is called once per message newly added to the table.
		Discovered(entry hashlog.Entry, at Location)
	}

	// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
	ObserverFuncs struct {
		OnScanning   func(path string)
		OnDiscovered func(entry hashlog.Entry, at Location)
	}

	nopObserver struct{}
)

func (o ObserverFuncs) Scanning(path string) {
	if o.OnScanning != nil {
		o.OnScanning(path)
	}
}

func (o ObserverFuncs) Discovered(entry hashlog.Entry, at Location) {
	if o.OnDiscovered != nil {
		o.OnDiscovered(entry, at)
	}
}

func (nopObserver) Scanning(string)                    {}
func (nopObserver) Discovered(hashlog.Entry, Location) {}

// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// shutdownRequestChannel lets an in-process subsystem trigger the same
// shutdown path an OS signal would.
var shutdownRequestChannel = make(chan struct{})

// interruptSignals are the signals that trigger a graceful shutdown.
var interruptSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// interruptListener returns a channel that is closed the first time a
// shutdown signal or request arrives, and keeps draining repeats so a
// user mashing Ctrl+C sees acknowledgement instead of silence.
func interruptListener(log *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		interruptChannel := make(chan os.Signal, 1)
		signal.Notify(interruptChannel, interruptSignals...)

		select {
		case sig := <-interruptChannel:
			log.Info("received signal, shutting down", zap.String("signal", sig.String()))
		case <-shutdownRequestChannel:
			log.Info("shutdown requested, shutting down")
		}
		close(done)

		for {
			select {
			case sig := <-interruptChannel:
				log.Info("received signal, already shutting down", zap.String("signal", sig.String()))
			case <-shutdownRequestChannel:
				log.Info("shutdown requested, already shutting down")
			}
		}
	}()

	return done
}

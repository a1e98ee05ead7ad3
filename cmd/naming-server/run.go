// Copyright 2018 The Kura Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package namingserver is the 'naming-server' CLI command: it starts a
// naming.Server and blocks until interrupted.
package namingserver

import (
	"io/ioutil"
	"os"
	"os/signal"
	"syscall"

	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/cli"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/log"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/naming"
)

var NamingServerCmd = &cli.Command{
	Run:       namingServerCmdRun,
	UsageLine: "naming-server",
	Short:     "naming-server command overview",
	Long: `
Naming server detailed overview.

Starts the naming server's Service (client-facing) and Registration
(storage-server-facing) interfaces on their well-known ports, and serves
until interrupted.
    `,
}

func namingServerCmdRun(cmd *cli.Command, args []string) error {
	var debug bool
	cmd.FlagSet.BoolVar(&debug, "debug", false, "Log file creation and deletion at debug level")
	if err := cmd.FlagSet.Parse(args); err != nil {
		return cli.CmdParseError(err)
	}
	if debug {
		log.SetGlobalLogMode(log.DefaultMode | log.DebugMode)
	}

	writer := log.MultiWriter(ioutil.Discard, os.Stderr)
	writer = log.SynchronizedWriter(writer)
	logf := log.Ldate | log.Ltime | log.Lmicroseconds | log.Llongfile | log.LUTC | log.Lmode
	logger := log.New(log.Writer(writer), log.Flags(logf), log.SkipBasePath())

	server := naming.NewServer(logger)
	stopped := make(chan struct{})
	server.Stopped = func(cause error) {
		if cause != nil {
			logger.Errorf("naming server stopped: %v", cause)
		}
		close(stopped)
	}

	if err := server.Start(); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
		server.Stop()
	case <-stopped:
	}

	return nil
}

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

package storageserver

import (
	"fmt"
	"io/ioutil"
	"os"
	"sync"

	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/cli"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/log"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/naming"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/path"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/rpc"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/storage"
)

var StorageServerCmd = &cli.Command{
	Run:       storageServerCmdRun,
	UsageLine: "storage-server [-port port] [-naming-host host] [-advertise-host host] [-backend bolt|gdrive]",
	Short:     "storage-server command overview",
	Long: `
Storage server detailed overview.
    `,
}

func storageServerCmdRun(cmd *cli.Command, args []string) error {
	var (
		port          int
		storePath     string
		ip            string
		advertiseHost string
		namingHost    string
		backend       string
		debug         bool
	)
	cmd.FlagSet.IntVar(&port, "port", 0, "Port which the server will run on (0 picks any free port)")
	cmd.FlagSet.StringVar(&storePath, "store-path", "kura-store.db", "The filepath of the storage server's bolt database")
	cmd.FlagSet.StringVar(&ip, "ip", "127.0.0.1", "IP (ipv4 addresses only) on which the server will run on")
	cmd.FlagSet.StringVar(&advertiseHost, "advertise-host", "", "Host this server is externally reachable at, handed to the naming server on registration (defaults to -ip)")
	cmd.FlagSet.StringVar(&namingHost, "naming-host", "127.0.0.1", "Host the naming server's Registration interface listens on")
	cmd.FlagSet.StringVar(&backend, "backend", "bolt", "Storage backend: \"bolt\" (local disk) or \"gdrive\" (Google Drive)")
	cmd.FlagSet.BoolVar(&debug, "debug", false, "Log store reads/writes at debug level")
	if err := cmd.FlagSet.Parse(args); err != nil {
		return cli.CmdParseError(err)
	}
	if advertiseHost == "" {
		advertiseHost = ip
	}
	if debug {
		log.SetGlobalLogMode(log.DefaultMode | log.DebugMode)
	}

	writer := log.MultiWriter(ioutil.Discard, os.Stderr)
	writer = log.SynchronizedWriter(writer)
	logf := log.Ldate | log.Ltime | log.Lmicroseconds | log.Llongfile | log.LUTC | log.Lmode
	logger := log.New(log.Writer(writer), log.Flags(logf), log.SkipBasePath())

	wait, shutdown, err := Start(logger, port, ip, advertiseHost, storePath, backend, namingHost)
	if err != nil {
		return err
	}

	wait()
	shutdown()

	return nil
}

// Start opens a Store (chosen by backend), binds Command and Storage
// skeletons to ip, and registers with the naming server's Registration
// interface at namingHost, handing out advertiseHost as the host those
// skeletons are reachable at (ip itself unless the server sits behind a
// different externally-visible address) and reporting every local key this
// store already holds. It returns once both skeletons are listening; wait
// blocks until the returned shutdown func has stopped both. A skeleton's
// own failure does not end wait.
func Start(logger *log.Logger, port int, ip, advertiseHost, storePath, backend, namingHost string) (wait func(), shutdown func(), err error) {
	store, closeStore, err := openStore(logger, backend, storePath)
	if err != nil {
		return nil, nil, err
	}

	server := newStorageServer(logger, store)

	commandSkeleton, err := storage.NewCommandSkeleton(server, rpc.Endpoint{Host: ip, Port: port})
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	if err := commandSkeleton.Start(); err != nil {
		closeStore()
		return nil, nil, err
	}

	storageSkeleton, err := storage.NewStorageSkeleton(server, rpc.Endpoint{Host: ip})
	if err != nil {
		commandSkeleton.Stop()
		closeStore()
		return nil, nil, err
	}
	if err := storageSkeleton.Start(); err != nil {
		commandSkeleton.Stop()
		closeStore()
		return nil, nil, err
	}

	if err := registerWithNamingServer(logger, store, advertiseHost, namingHost, commandSkeleton, storageSkeleton); err != nil {
		logger.Errorf("registering with naming server: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	done := make(chan struct{})
	go func() {
		defer wg.Done()
		<-done
	}()

	shutdown = func() {
		commandSkeleton.Stop()
		storageSkeleton.Stop()
		closeStore()
		close(done)
	}

	logger.Infof("serving command=%s storage=%s", commandSkeleton.Endpoint(), storageSkeleton.Endpoint())
	return wg.Wait, shutdown, nil
}

func openStore(logger *log.Logger, backend, storePath string) (store Store, closeFn func(), err error) {
	switch backend {
	case "gdrive":
		g := &gdriveServer{}
		if err := g.Setup(logger); err != nil {
			return nil, nil, fmt.Errorf("setting up google drive backend: %w", err)
		}
		return g, func() {}, nil
	case "bolt", "":
		b, err := newBoltStore(storePath)
		if err != nil {
			return nil, nil, err
		}
		return b, func() { b.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

func registerWithNamingServer(logger *log.Logger, store Store, advertiseHost, namingHost string, commandSkeleton, storageSkeleton *rpc.Skeleton) error {
	commandStub, err := storage.NewCommandStubFromSkeletonHost(commandSkeleton, advertiseHost)
	if err != nil {
		return err
	}
	storageStub, err := storage.NewStorageStubFromSkeletonHost(storageSkeleton, advertiseHost)
	if err != nil {
		return err
	}

	keys, err := store.Keys()
	if err != nil {
		return fmt.Errorf("listing local keys: %w", err)
	}
	files := make([]path.Path, 0, len(keys))
	for _, key := range keys {
		p, err := path.New(key)
		if err != nil {
			logger.Warnf("skipping malformed local key %q: %v", key, err)
			continue
		}
		files = append(files, p)
	}

	registration, err := naming.NewRegistrationStub(rpc.Endpoint{Host: namingHost, Port: naming.RegistrationPort})
	if err != nil {
		return err
	}
	duplicates, err := registration.Register(storageStub, commandStub, files)
	if err != nil {
		return err
	}
	for _, p := range duplicates {
		if err := store.Erase(p.String()); err != nil {
			logger.Warnf("erasing duplicate local copy of %s: %v", p, err)
		}
	}
	logger.Infof("registered with naming server; %d local files, %d duplicates removed", len(files), len(duplicates))
	return nil
}

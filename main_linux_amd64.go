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

package main

import (
	"os"

	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/cli"

	client "github.com/ashraghunath/DSD-Assignment3-DFS-RMI/cmd/client"
	namingserver "github.com/ashraghunath/DSD-Assignment3-DFS-RMI/cmd/naming-server"
	storageserver "github.com/ashraghunath/DSD-Assignment3-DFS-RMI/cmd/storage-server"
)

func main() {
	// We aggregate all the top-level commands (i.e. 'dfs <command> ...') as
	// needed.
	var commands cli.Commands

	// We include top level commands for the naming server, the storage
	// server, and the client.
	commands = append(commands, namingserver.NamingServerCmd)
	commands = append(commands, storageserver.StorageServerCmd)
	commands = append(commands, client.ClientCmd)

	// We define the top level CLI abstract here.
	abstract := "dfs is a distributed filesystem: one naming server, many storage servers, addressed over a self-describing object-oriented RPC transport."
	if err := cli.Process(abstract, commands); err != nil {
		os.Exit(1)
	}
}

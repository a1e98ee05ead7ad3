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

// Package cli allows the construction of structured command-line interfaces with sub-commands and
// help topics. This is very similar to the interface in git where the top-level program name (git)
// is preceded by a qualifier that determines what sub-command to execute
// (git {reflog,commit,cherry-pick}).
//
// Package cli explicitly avoid init time global hooks and has a minimal binary size footprint.
//
// Example:
//
//      // We aggregate all the top-level commands, accessible via 'dfs <command> ...', as needed.
//	    var commands cli.Commands
//
//	    // We include top level commands for the naming server, storage server, and client.
//	    commands = append(commands, namingserver.NamingServerCmd)
//	    commands = append(commands, storageserver.StorageServerCmd)
//	    commands = append(commands, client.ClientCmd)
//
//      // We define the top level CLI blurb here.
//      abstract := "dfs is a distributed filesystem."
//      if err := cli.Process(abstract, commands); err != nil {
//      	os.Exit(1)
//      }
//
// This generates the following top-level behaviour:
//
//      $ dfs {,-h,help}
//      dfs is a distributed filesystem.
//
//      Usage:
//
//          dfs command [arguments]
//
//      The commands are:
//
//              naming-server          naming-server command overview
//              storage-server         storage-server command overview
//              client                 client command overview
//
//      Use 'dfs help [command]' for more information about a command.
//
//      Additional help topics:
//
//
//      Use "dfs help [topic]" for more information about that topic.
//
// Individual commands also have their own '-h' switches for additional command details.
//
//      $ dfs storage-server -h
//      Usage:
//
//          dfs storage-server [-port port] [-naming-host host] [-advertise-host host] [-backend bolt|gdrive]
//
package cli

// TODO(irfansharif): What about top level root command flags? Applicable across sub-commands?

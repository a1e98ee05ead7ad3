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

// Package client is the 'client' CLI command: a thin wrapper over a
// naming.ServiceStub for exercising the filesystem from a shell
// (ls/mkdir/touch/rm/cat-by-size, roughly).
package client

import (
	"fmt"
	"strings"

	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/cli"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/naming"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/path"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/rpc"
)

var ClientCmd = &cli.Command{
	Run:       clientCmdRun,
	UsageLine: "client [-naming-host host] <op> <path> [path]",
	Short:     "client command overview",
	Long: `
Client detailed overview.

op is one of:
    ls <dir>               list a directory's entries
    isdir <path>            report whether path is a directory
    mkdir <dir>              create a directory (parent must already exist)
    touch <file>             create an empty file on some registered storage server
    rm <path>               delete a file or directory, cascading to its replicas
    read <file> <off> <len>  read len bytes at off from file and print them
    write <file> <off> <data> write data at off into file
    `,
}

func clientCmdRun(cmd *cli.Command, args []string) error {
	var namingHost string
	cmd.FlagSet.StringVar(&namingHost, "naming-host", "127.0.0.1", "Host the naming server's Service interface listens on")
	if err := cmd.FlagSet.Parse(args); err != nil {
		return cli.CmdParseError(err)
	}

	rest := cmd.FlagSet.Args()
	if len(rest) < 2 {
		return fmt.Errorf("usage: %s", cmd.UsageLine)
	}
	op, rest := rest[0], rest[1:]

	service, err := naming.NewServiceStub(rpc.Endpoint{Host: namingHost, Port: naming.ServicePort})
	if err != nil {
		return err
	}

	p, err := path.New(rest[0])
	if err != nil {
		return err
	}

	switch op {
	case "ls":
		entries, err := service.List(p)
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(entries, "\n"))

	case "isdir":
		isDir, err := service.IsDirectory(p)
		if err != nil {
			return err
		}
		fmt.Println(isDir)

	case "mkdir":
		if _, err := service.CreateDirectory(p); err != nil {
			return err
		}

	case "touch":
		if _, err := service.CreateFile(p); err != nil {
			return err
		}

	case "rm":
		if _, err := service.Delete(p); err != nil {
			return err
		}

	case "read":
		if len(rest) < 3 {
			return fmt.Errorf("usage: client read <file> <off> <len>")
		}
		storage, err := service.GetStorage(p)
		if err != nil {
			return err
		}
		var off, length int64
		if _, err := fmt.Sscan(rest[1], &off); err != nil {
			return err
		}
		if _, err := fmt.Sscan(rest[2], &length); err != nil {
			return err
		}
		data, err := storage.Read(p, off, length)
		if err != nil {
			return err
		}
		fmt.Println(string(data))

	case "write":
		if len(rest) < 3 {
			return fmt.Errorf("usage: client write <file> <off> <data>")
		}
		storage, err := service.GetStorage(p)
		if err != nil {
			return err
		}
		var off int64
		if _, err := fmt.Sscan(rest[1], &off); err != nil {
			return err
		}
		if _, err := storage.Write(p, off, []byte(rest[2])); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown op %q", op)
	}

	return nil
}

// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file implements ctxdiff, a command line tool that computes and
// applies context-anchored change-sets between pairs of text files.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/aleximok/ctxdiff/changeset"
	"github.com/aleximok/ctxdiff/ctxerr"
	"github.com/aleximok/ctxdiff/line"
	"github.com/aleximok/ctxdiff/protocol"
)

var (
	helpFlag   = flag.Bool("h", false, "Prints this help information")
	applyFlag  = flag.Bool("apply", false, "Apply a change-set instead of diffing")
	serveFlag  = flag.Bool("serve", false, "Run the JSON command loop over stdin/stdout")
	formatFlag = flag.String("format", "plain", "Status output format: plain or json")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  %s <reference> <destination> <changeset>           diff mode\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s <reference> <out> <changeset> -apply            apply mode\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s -serve                                          JSON command loop\n", os.Args[0])
}

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	if *helpFlag {
		usage()
		return 0
	}
	if *serveFlag {
		if err := protocol.Serve(os.Stdin, os.Stdout); err != nil {
			report(err)
			return 1
		}
		return 0
	}

	args := flag.Args()
	if len(args) == 4 && args[3] == "-apply" {
		*applyFlag = true
		args = args[:3]
	}
	if len(args) != 3 {
		usage()
		report(ctxerr.New(ctxerr.IllegalUsage, "expected exactly 3 positional arguments"))
		return 1
	}
	refPath, secondPath, csPath := args[0], args[1], args[2]

	if *applyFlag {
		return runApply(refPath, secondPath, csPath)
	}
	return runDiff(refPath, secondPath, csPath)
}

func runDiff(refPath, dstPath, csPath string) int {
	source, err := openStore(refPath)
	if err != nil {
		report(err)
		return 1
	}
	dest, err := openStore(dstPath)
	if err != nil {
		report(err)
		return 1
	}

	out, err := os.Create(csPath)
	if err != nil {
		report(ctxerr.Wrap(ctxerr.CantOpen, err))
		return 1
	}

	buildErr := changeset.Build(source, dest, out)
	closeErr := out.Close()
	if buildErr != nil {
		os.Remove(csPath)
		report(buildErr)
		return 1
	}
	if closeErr != nil {
		os.Remove(csPath)
		report(ctxerr.Wrap(ctxerr.IOWrite, closeErr))
		return 1
	}

	reportOK(fmt.Sprintf("wrote change-set %s", csPath))
	return 0
}

func runApply(refPath, outPath, csPath string) int {
	source, err := openStore(refPath)
	if err != nil {
		report(err)
		return 1
	}
	cs, err := os.Open(csPath)
	if err != nil {
		report(ctxerr.Wrap(ctxerr.CantOpen, err))
		return 1
	}
	defer cs.Close()

	result, err := changeset.Apply(source, cs)
	if err != nil {
		report(err)
		return 1
	}

	out, err := os.Create(outPath)
	if err != nil {
		report(ctxerr.Wrap(ctxerr.CantOpen, err))
		return 1
	}
	_, writeErr := result.WriteTo(out)
	closeErr := out.Close()
	if writeErr != nil || closeErr != nil {
		os.Remove(outPath)
		if writeErr != nil {
			report(ctxerr.Wrap(ctxerr.IOWrite, writeErr))
		} else {
			report(ctxerr.Wrap(ctxerr.IOWrite, closeErr))
		}
		return 1
	}

	reportOK(fmt.Sprintf("wrote %s", outPath))
	return 0
}

func openStore(path string) (*line.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.CantOpen, err)
	}
	defer f.Close()
	s, err := line.Read(f)
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.IORead, err)
	}
	return s, nil
}

// status is the shape written by -format=json.
type status struct {
	Reply   string `json:"reply"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

func reportOK(message string) {
	if *formatFlag == "json" {
		printJSON(status{Reply: "OK", Message: message})
		return
	}
	fmt.Println(message)
}

func report(err error) {
	if *formatFlag == "json" {
		s := status{Reply: "Error", Message: err.Error()}
		if kind, ok := ctxerr.KindOf(err); ok {
			s.Kind = kind.String()
		}
		printJSON(s)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
}

func printJSON(s status) {
	b, err := json.Marshal(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return
	}
	fmt.Println(string(b))
}
